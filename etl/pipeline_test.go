package etl

import (
	"strings"
	"testing"
)

func testGuestTable() Table {
	return guestTable(
		[]string{"Maria Silva", "Portugal"},
		[]string{"John Doe", "UK"},
		[]string{"Test User", "Spain"},
	)
}

func testReservationTable() Table {
	return ptReservationTable(
		resRow{
			id: "R1", guest: " Maria Silva ", property: "Angra I",
			checkin: "2024-01-01", checkout: "2024-01-03", nights: "2",
			adults: "2", childrenNoTMT: "0", childrenTMT: "0",
			channel: "Booking.com", commission: "15.00", value: "100.00",
		},
		resRow{
			id: "R2", guest: "John Doe", property: "Fuzeta 0",
			checkin: "2024-02-01", checkout: "2024-02-04", nights: "3",
			adults: "1", childrenNoTMT: "1", childrenTMT: "0",
			channel: "Airbnb", commission: "20.00", value: "200.00",
		},
		// Placeholder guest, removed by cleaning.
		resRow{
			id: "R3", guest: "Test User", property: "Angra I",
			checkin: "2024-03-01", checkout: "2024-03-02", nights: "1",
			adults: "1", childrenNoTMT: "0", childrenTMT: "0",
			channel: "Direct", commission: "0", value: "50.00",
		},
		// Duplicate of R1, dropped by dedup.
		resRow{
			id: "R4", guest: "Maria Silva", property: "Angra I",
			checkin: "2024-01-01", checkout: "2024-01-03", nights: "2",
			adults: "2", childrenNoTMT: "0", childrenTMT: "0",
			channel: "Direct", commission: "0", value: "100.00",
		},
	)
}

func hasLogMessage(log []LogEntry, fragment string) bool {
	for _, entry := range log {
		if strings.Contains(entry.Message, fragment) {
			return true
		}
	}
	return false
}

func TestPipelineRun_FullFlow(t *testing.T) {
	p := NewPipeline(DefaultSettings(), nil)
	result := p.Run(testGuestTable(), testReservationTable(), nil)

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	if p.State() != StateSucceeded {
		t.Fatalf("expected succeeded state, got %s", p.State())
	}
	if result.Occupancy == nil || result.Revenue == nil || result.Summary == nil {
		t.Fatal("success result must carry both reports and a summary")
	}

	if result.Summary.ReservationsProcessed != 2 {
		t.Fatalf("expected 2 surviving reservations, got %d", result.Summary.ReservationsProcessed)
	}
	if result.Summary.GuestsProcessed != 2 {
		t.Fatalf("expected 2 surviving guests, got %d", result.Summary.GuestsProcessed)
	}
	// Angra group + Fuzeta group.
	if result.Summary.PropertiesFound != 2 {
		t.Fatalf("expected 2 property groups, got %d", result.Summary.PropertiesFound)
	}

	if !hasLogMessage(result.Log, "Detected reservation file language: PT") {
		t.Fatalf("missing detection log entry: %+v", result.Log)
	}
	if !hasLogMessage(result.Log, "Removed 1 duplicates") {
		t.Fatalf("missing dedup log entry: %+v", result.Log)
	}
	if !hasLogMessage(result.Log, "Booking.com commission: 1 reservations") {
		t.Fatalf("missing commission log entry: %+v", result.Log)
	}

	// The Booking.com surcharge (100 * 0.014 = 1.40) lands in the commission
	// totals before the placeholder record is removed from consideration.
	if !result.Revenue.ReservationsSummary.TotalCommissions.Equal(dec("36.40")) {
		t.Fatalf("expected total commissions 36.40, got %s", result.Revenue.ReservationsSummary.TotalCommissions)
	}

	if _, ok := result.Occupancy.ByProperty["Angra (I, II, III combined)"]; !ok {
		t.Fatalf("expected grouped Angra sheet, got %v", result.Occupancy.ByProperty)
	}
}

func TestPipelineRun_WithInvoices(t *testing.T) {
	invoices := faturacaoTable(
		[]string{"FT 1", "Angra I", "Estadia", "100.00", "4.00", "104.00", "Não"},
		[]string{"FT 2", "Angra I", "Limpeza", "30.00", "1.20", "31.20", "Não"},
	)
	p := NewPipeline(DefaultSettings(), nil)
	result := p.Run(testGuestTable(), testReservationTable(), &invoices)

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	// Only the Estadia line survives the item-type filter.
	if result.Summary.InvoicesProcessed != 1 {
		t.Fatalf("expected 1 stay invoice, got %d", result.Summary.InvoicesProcessed)
	}
	if result.Revenue.InvoicesSummary == nil {
		t.Fatal("expected invoices summary when a ledger is uploaded")
	}
	if !hasLogMessage(result.Log, "Filtered invoices to 1 stay records") {
		t.Fatalf("missing invoice filter log entry: %+v", result.Log)
	}
}

func TestPipelineRun_SchemaDetectionFailure(t *testing.T) {
	bad := Table{Columns: []string{"Foo", "Bar"}, Rows: [][]string{{"x", "y"}}}
	p := NewPipeline(DefaultSettings(), nil)
	result := p.Run(testGuestTable(), bad, nil)

	if result.Success {
		t.Fatal("expected failure")
	}
	if p.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", p.State())
	}
	if result.Occupancy != nil || result.Revenue != nil {
		t.Fatal("failed run must not produce partial reports")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "unable to detect reservation file language") {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestPipelineRun_MissingGuestColumn(t *testing.T) {
	guests := Table{Columns: []string{"Nome"}, Rows: [][]string{{"Maria Silva"}}}
	p := NewPipeline(DefaultSettings(), nil)
	result := p.Run(guests, testReservationTable(), nil)

	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "decode guests") {
		t.Fatalf("expected decode guests stage error, got %v", result.Errors)
	}
}

func TestPipelineRun_EmptyAfterCleaningStillSucceeds(t *testing.T) {
	reservations := ptReservationTable(resRow{
		id: "R1", guest: "Test User", property: "Angra I",
		checkin: "2024-01-01", checkout: "2024-01-02", nights: "1",
		adults: "1", childrenNoTMT: "0", childrenTMT: "0",
		channel: "Direct", commission: "0", value: "50.00",
	})
	p := NewPipeline(DefaultSettings(), nil)
	result := p.Run(testGuestTable(), reservations, nil)

	if !result.Success {
		t.Fatalf("empty dataset is not an error, got %v", result.Errors)
	}
	if !hasLogMessage(result.Log, "final dataset is empty") {
		t.Fatalf("missing empty-dataset log entry: %+v", result.Log)
	}
	if result.Summary.ReservationsProcessed != 0 {
		t.Fatalf("expected 0 reservations, got %d", result.Summary.ReservationsProcessed)
	}
	if result.Occupancy.GeneralStats.TotalReservations != 0 {
		t.Fatalf("expected empty occupancy stats, got %+v", result.Occupancy.GeneralStats)
	}
}

func TestPipelineRun_SingleReservationRoundTrip(t *testing.T) {
	guests := guestTable([]string{"Ana Silva", "Portugal"})
	reservations := ptReservationTable(resRow{
		id: "R1", guest: "Ana Silva", property: "Casa 1",
		checkin: "2024-05-01", checkout: "2024-05-04", nights: "3",
		adults: "2", childrenNoTMT: "0", childrenTMT: "0",
		channel: "Direct", commission: "20", value: "300",
	})
	p := NewPipeline(DefaultSettings(), nil)
	result := p.Run(guests, reservations, nil)
	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}

	rows := result.Occupancy.ByProperty["Casa 1"]
	if len(rows) != 3 {
		t.Fatalf("expected nationality + separator + TOTAL, got %d rows", len(rows))
	}
	pt := rows[0]
	if pt.Nationality != "Portugal" || *pt.UniqueGuests != 1 || *pt.TotalPeople != 2 ||
		*pt.TotalNights != 3 || *pt.PersonNights != 6 {
		t.Fatalf("unexpected nationality row: %+v", pt)
	}
	total := rows[2]
	if total.Nationality != "TOTAL" || *total.PersonNights != 6 {
		t.Fatalf("unexpected TOTAL row: %+v", total)
	}

	revenue := result.Revenue.ReservationsByProperty
	if len(revenue) != 1 {
		t.Fatalf("expected one property row, got %d", len(revenue))
	}
	row := revenue[0]
	if row.Property != "Casa 1" || row.ReservationCount != 1 ||
		!row.GrossValue.Equal(dec("300")) || !row.Commission.Equal(dec("20")) ||
		!row.IvaAmount.Equal(dec("12")) || !row.NetValue.Equal(dec("268")) {
		t.Fatalf("unexpected revenue row: %+v", row)
	}
}

func TestPipelineRun_CustomSettings(t *testing.T) {
	settings := DefaultSettings().Apply(&Override{
		IvaRates:         map[string]float64{"azores": 0.10},
		PlaceholderWords: []string{"Nobody"},
	})
	p := NewPipeline(settings, nil)
	result := p.Run(testGuestTable(), testReservationTable(), nil)

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	// "Test User" survives the custom word list; R3 now counts.
	if result.Summary.ReservationsProcessed != 3 {
		t.Fatalf("expected 3 reservations with custom placeholder words, got %d", result.Summary.ReservationsProcessed)
	}
	for _, row := range result.Revenue.ReservationsByProperty {
		if row.Property == "Angra I" {
			// 150 gross at 10%: iva 15.00.
			if !row.IvaAmount.Equal(dec("15.00")) {
				t.Fatalf("expected overridden azores rate, got iva %s", row.IvaAmount)
			}
		}
	}
}
