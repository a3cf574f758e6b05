package etl

var reservationColumns = map[Scheme]map[string]string{
	SchemePT: {
		"reservation_id":         "Reserva",
		"status":                 "Estado",
		"guest":                  "Hóspede",
		"booked_at":              "Reservado em",
		"checkin":                "Checkin",
		"checkout":               "Checkout",
		"nights":                 "Noites",
		"idiom":                  "Idioma",
		"property":               "Alojamento",
		"bed":                    "Cama",
		"expected_checkin_time":  "Hora Prevista Checkin",
		"expected_checkout_time": "Hora Prevista Checkout",
		"adults":                 "Adultos",
		"children_no_tmt":        "Crianças não sujeitas TMT",
		"children_tmt":           "Crianças sujeitas TMT",
		"channel":                "Canal",
		"channel_commission":     "Comissão Canal",
		"reservation_value":      "Valor Reserva",
		"cleaning_fee":           "Taxa de Limpeza",
		"canceled_at":            "Cancelado em",
	},
	SchemeEN: {
		"reservation_id":         "Reservation",
		"status":                 "Status",
		"guest":                  "Guest",
		"booked_at":              "Booked at",
		"checkin":                "Checkin",
		"checkout":               "Checkout",
		"nights":                 "Nights",
		"idiom":                  "Idiom",
		"property":               "Rental",
		"bed":                    "Bed",
		"expected_checkin_time":  "Expected Checkin Time",
		"expected_checkout_time": "Expected Checkout Time",
		"adults":                 "Adults",
		"children_no_tmt":        "Children not subject to TMT",
		"children_tmt":           "Children subject to TMT",
		"channel":                "Channel",
		"channel_commission":     "Channel Commission",
		"reservation_value":      "Reservation Value",
		"cleaning_fee":           "Cleaning Fee",
		"canceled_at":            "Canceled At",
	},
}

// Guest and invoice exports are always Portuguese regardless of the
// reservation file language.
var guestColumns = map[string]string{
	"name":    "Nome",
	"country": "Pais",
}

var faturacaoColumns = map[string]string{
	"item_type":      "Tipo Item",
	"total_document": "Total Documento",
	"base_amount":    "Total Base Incidência",
	"vat_amount":     "Total Do IVA",
	"cancelled":      "Anulado",
	"document_id":    "Documento",
	"property":       "Alojamento",
	"stay_value":     "Estadia",
}

// ColumnMapper resolves logical field names to physical column names for the
// detected scheme. Downstream stages never touch raw column names.
type ColumnMapper struct {
	scheme       Scheme
	reservations map[string]string
}

func NewColumnMapper(scheme Scheme) *ColumnMapper {
	return &ColumnMapper{scheme: scheme, reservations: reservationColumns[scheme]}
}

func (m *ColumnMapper) Scheme() Scheme { return m.scheme }

// Res resolves a reservation field. An unknown logical key is a
// configuration defect and fails loudly, never a silent default.
func (m *ColumnMapper) Res(key string) (string, error) {
	name, ok := m.reservations[key]
	if !ok {
		return "", &ConfigurationError{Group: "reservation", Key: key}
	}
	return name, nil
}

func (m *ColumnMapper) Guest(key string) (string, error) {
	name, ok := guestColumns[key]
	if !ok {
		return "", &ConfigurationError{Group: "guest", Key: key}
	}
	return name, nil
}

func (m *ColumnMapper) Fat(key string) (string, error) {
	name, ok := faturacaoColumns[key]
	if !ok {
		return "", &ConfigurationError{Group: "faturacao", Key: key}
	}
	return name, nil
}
