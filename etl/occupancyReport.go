package etl

import (
	"sort"

	"bitbucket.org/atlanticstays/talkguest_backend/utils"
)

type GeneralStats struct {
	TotalGuests       int `json:"total_guests"`
	TotalNights       int `json:"total_nights"`
	TotalReservations int `json:"total_reservations"`
}

// OccupancyRow is one per-nationality line of a property sheet. The numeric
// fields are pointers so the blank separator row before TOTAL serializes
// with empty values, matching the exported spreadsheet layout.
type OccupancyRow struct {
	Nationality  string `json:"nationality"`
	UniqueGuests *int   `json:"unique_guests"`
	TotalPeople  *int   `json:"total_people"`
	TotalNights  *int   `json:"total_nights"`
	PersonNights *int   `json:"person_nights"`
}

type OccupancyReport struct {
	GeneralStats GeneralStats              `json:"general_stats"`
	ByProperty   map[string][]OccupancyRow `json:"by_property"`
}

// BuildOccupancyReport aggregates the combined dataset. general_stats spans
// the full dataset, Unknown-property records included; the per-property
// breakdown skips the Unknown group.
func BuildOccupancyReport(combined []CombinedRecord) *OccupancyReport {
	report := &OccupancyReport{ByProperty: map[string][]OccupancyRow{}}

	distinctGuests := make(map[string]bool)
	for _, rec := range combined {
		distinctGuests[rec.Reservation.Guest] = true
		report.GeneralStats.TotalNights += rec.Reservation.Nights
	}
	report.GeneralStats.TotalGuests = len(distinctGuests)
	report.GeneralStats.TotalReservations = len(combined)

	groups := make(map[string][]CombinedRecord)
	for _, rec := range combined {
		groups[rec.PropertyGroup] = append(groups[rec.PropertyGroup], rec)
	}
	for name, records := range groups {
		if name == unknownProperty {
			continue
		}
		report.ByProperty[name] = nationalityRows(records)
	}
	return report
}

type nationalityAgg struct {
	nationality  string
	guests       map[string]bool
	totalPeople  int
	totalNights  int
	personNights int
}

func nationalityRows(records []CombinedRecord) []OccupancyRow {
	var aggs []*nationalityAgg
	index := make(map[string]*nationalityAgg)

	propGuests := make(map[string]bool)
	propPeople, propNights, propPersonNights := 0, 0, 0

	for _, rec := range records {
		nights := rec.Reservation.Nights
		personNights := rec.TotalPeople * nights

		propGuests[rec.Reservation.Guest] = true
		propPeople += rec.TotalPeople
		propNights += nights
		propPersonNights += personNights

		// Reservations without a guest match have no nationality; they count
		// toward the property totals but get no nationality row.
		if rec.Guest == nil {
			continue
		}
		agg := index[rec.Guest.Country]
		if agg == nil {
			agg = &nationalityAgg{nationality: rec.Guest.Country, guests: make(map[string]bool)}
			index[rec.Guest.Country] = agg
			aggs = append(aggs, agg)
		}
		agg.guests[rec.Reservation.Guest] = true
		agg.totalPeople += rec.TotalPeople
		agg.totalNights += nights
		agg.personNights += personNights
	}

	// Alphabetical base order, then nights descending; the secondary sort is
	// stable so equal-nights nationalities stay alphabetical.
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].nationality < aggs[j].nationality })
	sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].totalNights > aggs[j].totalNights })

	rows := make([]OccupancyRow, 0, len(aggs)+2)
	for _, a := range aggs {
		rows = append(rows, OccupancyRow{
			Nationality:  a.nationality,
			UniqueGuests: utils.IntPtr(len(a.guests)),
			TotalPeople:  utils.IntPtr(a.totalPeople),
			TotalNights:  utils.IntPtr(a.totalNights),
			PersonNights: utils.IntPtr(a.personNights),
		})
	}
	// Blank separator, then property-level totals recomputed over the whole
	// group so they never drift from rounded per-row figures.
	rows = append(rows, OccupancyRow{})
	rows = append(rows, OccupancyRow{
		Nationality:  "TOTAL",
		UniqueGuests: utils.IntPtr(len(propGuests)),
		TotalPeople:  utils.IntPtr(propPeople),
		TotalNights:  utils.IntPtr(propNights),
		PersonNights: utils.IntPtr(propPersonNights),
	})
	return rows
}
