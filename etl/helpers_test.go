package etl

import "github.com/shopspring/decimal"

// Shared builders for the bilingual spreadsheet fixtures used across the
// package tests.

var ptReservationColumns = []string{
	"Reserva", "Estado", "Hóspede", "Checkin", "Checkout", "Noites",
	"Alojamento", "Adultos", "Crianças não sujeitas TMT", "Crianças sujeitas TMT",
	"Canal", "Comissão Canal", "Valor Reserva",
}

var enReservationColumns = []string{
	"Reservation", "Status", "Guest", "Checkin", "Checkout", "Nights",
	"Rental", "Adults", "Children not subject to TMT", "Children subject to TMT",
	"Channel", "Channel Commission", "Reservation Value",
}

type resRow struct {
	id, status, guest, checkin, checkout, nights string
	property, adults, childrenNoTMT, childrenTMT string
	channel, commission, value                   string
}

func (r resRow) cells() []string {
	return []string{
		r.id, r.status, r.guest, r.checkin, r.checkout, r.nights,
		r.property, r.adults, r.childrenNoTMT, r.childrenTMT,
		r.channel, r.commission, r.value,
	}
}

func ptReservationTable(rows ...resRow) Table {
	t := Table{Columns: ptReservationColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.cells())
	}
	return t
}

func guestTable(rows ...[]string) Table {
	return Table{Columns: []string{"Nome", "Pais"}, Rows: rows}
}

var faturacaoTestColumns = []string{
	"Documento", "Alojamento", "Tipo Item", "Total Base Incidência",
	"Total Do IVA", "Total Documento", "Anulado",
}

func faturacaoTable(rows ...[]string) Table {
	return Table{Columns: faturacaoTestColumns, Rows: rows}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func reservation(guest, property, channel string, nights int, value, commission string) ReservationRecord {
	return ReservationRecord{
		Guest:      guest,
		Property:   property,
		Channel:    channel,
		Nights:     nights,
		Adults:     2,
		Value:      dec(value),
		Commission: dec(commission),
	}
}
