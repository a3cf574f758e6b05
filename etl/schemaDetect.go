package etl

// Scheme is one of the two fixed reservation column-naming conventions the
// TalkGuest exporter produces.
type Scheme string

const (
	SchemePT Scheme = "pt"
	SchemeEN Scheme = "en"
)

var (
	ptMarkers = []string{"Hóspede", "Noites", "Valor Reserva", "Alojamento"}
	enMarkers = []string{"Guest", "Nights", "Reservation Value", "Rental"}
)

// DetectScheme decides which naming scheme the reservation table uses. At
// least 3 of the 4 marker columns must be present; Portuguese is checked
// first. Below the threshold detection fails outright, there is no fuzzy
// matching.
func DetectScheme(columns []string) (Scheme, error) {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	if countMarkers(set, ptMarkers) >= 3 {
		return SchemePT, nil
	}
	if countMarkers(set, enMarkers) >= 3 {
		return SchemeEN, nil
	}
	return "", &SchemaDetectionError{
		PTMarkers: ptMarkers,
		ENMarkers: enMarkers,
		Found:     append([]string(nil), columns...),
	}
}

var guestMarkers = []string{"Nome", "Pais"}

// DetectTableKind classifies an uploaded sheet by its header row so swapped
// guest/reservation files can be caught at upload time. Returns "guests",
// "reservations", or "" when the headers match neither shape well enough.
func DetectTableKind(columns []string) string {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	if countMarkers(set, ptMarkers) >= 3 || countMarkers(set, enMarkers) >= 3 {
		return "reservations"
	}
	if countMarkers(set, guestMarkers) >= 2 {
		return "guests"
	}
	return ""
}

func countMarkers(set map[string]bool, markers []string) int {
	n := 0
	for _, m := range markers {
		if set[m] {
			n++
		}
	}
	return n
}
