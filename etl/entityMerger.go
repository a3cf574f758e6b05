package etl

// MergeGuests left-joins reservations to guests on the trimmed guest name.
// Reservations without a matching guest keep nil guest attributes; they are
// preserved, not dropped. When the registry holds duplicate names the first
// occurrence wins. total_people is the sum of the occupant counts.
func MergeGuests(reservations []ReservationRecord, guests []GuestRecord) []CombinedRecord {
	byName := make(map[string]*GuestRecord, len(guests))
	for i := range guests {
		if _, ok := byName[guests[i].Name]; !ok {
			byName[guests[i].Name] = &guests[i]
		}
	}

	combined := make([]CombinedRecord, 0, len(reservations))
	for _, r := range reservations {
		combined = append(combined, CombinedRecord{
			Reservation: r,
			Guest:       byName[r.Guest],
			TotalPeople: r.Adults + r.ChildrenNoTax + r.ChildrenTax,
		})
	}
	return combined
}
