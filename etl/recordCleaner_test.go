package etl

import "testing"

func TestTrimNames_CountsOnlyChangedValues(t *testing.T) {
	guests := []GuestRecord{
		{Name: "  Maria Silva  ", Country: "Portugal"},
		{Name: "John Doe", Country: "UK"},
	}
	reservations := []ReservationRecord{
		reservation(" Maria Silva", "Angra I", "Direct", 2, "100", "0"),
	}
	changed := TrimNames(guests, reservations)
	if changed != 2 {
		t.Fatalf("expected 2 changed values, got %d", changed)
	}
	if guests[0].Name != "Maria Silva" {
		t.Fatalf("guest name not trimmed: %q", guests[0].Name)
	}
	if reservations[0].Guest != "Maria Silva" {
		t.Fatalf("reservation guest not trimmed: %q", reservations[0].Guest)
	}
}

func TestFilterGuests_WholeWordCaseInsensitive(t *testing.T) {
	cleaner, err := NewRecordCleaner([]string{"Eu", "Test"})
	if err != nil {
		t.Fatalf("NewRecordCleaner error: %v", err)
	}
	guests := []GuestRecord{
		{Name: "Maria Silva"},
		{Name: "test booking"},  // lowercase still matches
		{Name: "Eu"},            // exact placeholder
		{Name: "Testing Times"}, // substring only, must survive
		{Name: "Eugene Santos"}, // "Eu" is not a whole word here
	}
	kept, removed := cleaner.FilterGuests(guests)
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	expected := []string{"Maria Silva", "Testing Times", "Eugene Santos"}
	for i, name := range expected {
		if kept[i].Name != name {
			t.Fatalf("kept[%d] expected %q, got %q", i, name, kept[i].Name)
		}
	}
}

func TestFilterGuests_EmptyWordListKeepsEverything(t *testing.T) {
	cleaner, err := NewRecordCleaner(nil)
	if err != nil {
		t.Fatalf("NewRecordCleaner error: %v", err)
	}
	kept, removed := cleaner.FilterGuests([]GuestRecord{{Name: "Test"}, {Name: "Eu"}})
	if removed != 0 || len(kept) != 2 {
		t.Fatalf("empty word list must keep all records, kept=%d removed=%d", len(kept), removed)
	}
}

func TestFilterReservations_DropsPlaceholderAndNonPositiveValue(t *testing.T) {
	cleaner, err := NewRecordCleaner([]string{"Test"})
	if err != nil {
		t.Fatalf("NewRecordCleaner error: %v", err)
	}
	reservations := []ReservationRecord{
		reservation("Maria Silva", "Angra I", "Direct", 2, "100", "0"),
		reservation("Test User", "Angra I", "Direct", 2, "100", "0"),
		reservation("John Doe", "Angra I", "Direct", 2, "0", "0"),
		reservation("Ana Costa", "Angra I", "Direct", 2, "-50", "0"),
	}
	kept, removed := cleaner.FilterReservations(reservations)
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	if len(kept) != 1 || kept[0].Guest != "Maria Silva" {
		t.Fatalf("unexpected survivors: %+v", kept)
	}
}

func TestFilterReservations_Idempotent(t *testing.T) {
	cleaner, err := NewRecordCleaner([]string{"Test"})
	if err != nil {
		t.Fatalf("NewRecordCleaner error: %v", err)
	}
	reservations := []ReservationRecord{
		reservation("Maria Silva", "Angra I", "Direct", 2, "100", "0"),
		reservation("Test User", "Angra I", "Direct", 2, "100", "0"),
	}
	once, _ := cleaner.FilterReservations(reservations)
	twice, removed := cleaner.FilterReservations(once)
	if removed != 0 || len(twice) != len(once) {
		t.Fatalf("second pass must remove nothing, removed %d", removed)
	}
}

func TestDeduplicate_FirstOccurrenceWins(t *testing.T) {
	first := reservation("Maria Silva", "Angra I", "Direct", 2, "100", "0")
	first.Checkin, first.Checkout = "2024-01-01", "2024-01-03"
	duplicate := reservation("Maria Silva", "Angra I", "Booking.com", 2, "999", "0")
	duplicate.Checkin, duplicate.Checkout = "2024-01-01", "2024-01-03"
	differentDates := reservation("Maria Silva", "Angra I", "Direct", 2, "100", "0")
	differentDates.Checkin, differentDates.Checkout = "2024-02-01", "2024-02-03"

	kept, removed := Deduplicate([]ReservationRecord{first, duplicate, differentDates})
	if removed != 1 {
		t.Fatalf("expected 1 duplicate removed, got %d", removed)
	}
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	if !kept[0].Value.Equal(dec("100")) {
		t.Fatalf("first occurrence must win, got value %s", kept[0].Value)
	}
}
