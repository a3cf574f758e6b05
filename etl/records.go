package etl

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bitbucket.org/atlanticstays/talkguest_backend/utils"
)

// GuestRecord is one row of the guest registry. Identity is the trimmed
// name; every column beyond name/country rides along untouched.
type GuestRecord struct {
	Name       string
	Country    string
	Attributes map[string]string
}

// ReservationRecord is one row of the reservation ledger with its numeric
// fields already coerced (non-numeric cells become zero, which is defined
// behavior for dirty exports, not an error).
type ReservationRecord struct {
	ID            string
	Status        string
	Guest         string
	Property      string
	Checkin       string
	Checkout      string
	Channel       string
	Nights        int
	Adults        int
	ChildrenNoTax int
	ChildrenTax   int
	Value         decimal.Decimal
	Commission    decimal.Decimal
	Attrs         map[string]string
}

// InvoiceRecord is one faturação line item.
type InvoiceRecord struct {
	DocumentID string
	Property   string
	ItemType   string
	Base       decimal.Decimal
	VAT        decimal.Decimal
	Total      decimal.Decimal
	Cancelled  bool
}

// CombinedRecord is a reservation enriched with its matched guest (nil when
// the registry has no guest of that name) and the derived fields.
type CombinedRecord struct {
	Reservation   ReservationRecord
	Guest         *GuestRecord
	TotalPeople   int
	PropertyGroup string
}

// Optional reservation columns carried through verbatim when present.
var reservationPassthroughKeys = []string{
	"booked_at",
	"idiom",
	"bed",
	"expected_checkin_time",
	"expected_checkout_time",
	"cleaning_fee",
	"canceled_at",
}

// DecodeGuests validates the guest table shape and produces typed records.
func DecodeGuests(t Table, m *ColumnMapper) ([]GuestRecord, error) {
	idx := t.columnIndex()

	nameCol, err := requiredColumn(idx, m.Guest, "name", "guests")
	if err != nil {
		return nil, err
	}
	countryCol, err := requiredColumn(idx, m.Guest, "country", "guests")
	if err != nil {
		return nil, err
	}

	records := make([]GuestRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := GuestRecord{
			Name:    cellAt(row, nameCol),
			Country: cellAt(row, countryCol),
		}
		for i, col := range t.Columns {
			if i == nameCol || i == countryCol {
				continue
			}
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]string)
			}
			rec.Attributes[col] = cellAt(row, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeReservations validates the reservation table shape for the detected
// scheme and produces typed records.
func DecodeReservations(t Table, m *ColumnMapper) ([]ReservationRecord, error) {
	idx := t.columnIndex()

	required := func(key string) (int, error) {
		return requiredColumn(idx, m.Res, key, "reservations")
	}

	idCol, err := required("reservation_id")
	if err != nil {
		return nil, err
	}
	guestCol, err := required("guest")
	if err != nil {
		return nil, err
	}
	propertyCol, err := required("property")
	if err != nil {
		return nil, err
	}
	checkinCol, err := required("checkin")
	if err != nil {
		return nil, err
	}
	checkoutCol, err := required("checkout")
	if err != nil {
		return nil, err
	}
	nightsCol, err := required("nights")
	if err != nil {
		return nil, err
	}
	adultsCol, err := required("adults")
	if err != nil {
		return nil, err
	}
	childrenNoTmtCol, err := required("children_no_tmt")
	if err != nil {
		return nil, err
	}
	childrenTmtCol, err := required("children_tmt")
	if err != nil {
		return nil, err
	}
	channelCol, err := required("channel")
	if err != nil {
		return nil, err
	}
	commissionCol, err := required("channel_commission")
	if err != nil {
		return nil, err
	}
	valueCol, err := required("reservation_value")
	if err != nil {
		return nil, err
	}

	statusCol := optionalColumn(idx, m.Res, "status")
	passthrough := make(map[string]int, len(reservationPassthroughKeys))
	for _, key := range reservationPassthroughKeys {
		if col := optionalColumn(idx, m.Res, key); col >= 0 {
			passthrough[key] = col
		}
	}

	records := make([]ReservationRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := ReservationRecord{
			ID:            cellAt(row, idCol),
			Status:        cellAt(row, statusCol),
			Guest:         cellAt(row, guestCol),
			Property:      cellAt(row, propertyCol),
			Checkin:       cellAt(row, checkinCol),
			Checkout:      cellAt(row, checkoutCol),
			Channel:       cellAt(row, channelCol),
			Nights:        utils.CoerceInt(cellAt(row, nightsCol)),
			Adults:        utils.CoerceInt(cellAt(row, adultsCol)),
			ChildrenNoTax: utils.CoerceInt(cellAt(row, childrenNoTmtCol)),
			ChildrenTax:   utils.CoerceInt(cellAt(row, childrenTmtCol)),
			Value:         utils.CoerceDecimal(cellAt(row, valueCol)),
			Commission:    utils.CoerceDecimal(cellAt(row, commissionCol)),
		}
		for key, col := range passthrough {
			if rec.Attrs == nil {
				rec.Attrs = make(map[string]string)
			}
			rec.Attrs[key] = cellAt(row, col)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeInvoices validates the faturação table shape and produces typed
// records. A missing cancelled column means no line item is cancelled.
func DecodeInvoices(t Table, m *ColumnMapper) ([]InvoiceRecord, error) {
	idx := t.columnIndex()

	required := func(key string) (int, error) {
		return requiredColumn(idx, m.Fat, key, "invoices")
	}

	docCol, err := required("document_id")
	if err != nil {
		return nil, err
	}
	propertyCol, err := required("property")
	if err != nil {
		return nil, err
	}
	itemTypeCol, err := required("item_type")
	if err != nil {
		return nil, err
	}
	baseCol, err := required("base_amount")
	if err != nil {
		return nil, err
	}
	vatCol, err := required("vat_amount")
	if err != nil {
		return nil, err
	}
	totalCol, err := required("total_document")
	if err != nil {
		return nil, err
	}
	cancelledCol := optionalColumn(idx, m.Fat, "cancelled")

	records := make([]InvoiceRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, InvoiceRecord{
			DocumentID: cellAt(row, docCol),
			Property:   cellAt(row, propertyCol),
			ItemType:   cellAt(row, itemTypeCol),
			Base:       utils.CoerceDecimal(cellAt(row, baseCol)),
			VAT:        utils.CoerceDecimal(cellAt(row, vatCol)),
			Total:      utils.CoerceDecimal(cellAt(row, totalCol)),
			Cancelled:  cancelledCol >= 0 && utils.CoerceBool(cellAt(row, cancelledCol)),
		})
	}
	return records, nil
}

func requiredColumn(idx map[string]int, resolve func(string) (string, error), key, table string) (int, error) {
	name, err := resolve(key)
	if err != nil {
		return 0, err
	}
	col, ok := idx[name]
	if !ok {
		return 0, fmt.Errorf("%s table is missing required column %q", table, name)
	}
	return col, nil
}

func optionalColumn(idx map[string]int, resolve func(string) (string, error), key string) int {
	name, err := resolve(key)
	if err != nil {
		return -1
	}
	if col, ok := idx[name]; ok {
		return col
	}
	return -1
}
