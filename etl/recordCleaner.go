package etl

import (
	"regexp"
	"strings"
)

// RecordCleaner drops placeholder/test records. The word pattern is compiled
// once per pipeline run from the configured word list; matching is
// whole-word and case-insensitive, so "Testing" survives a "Test" filter.
type RecordCleaner struct {
	placeholder *regexp.Regexp
}

func NewRecordCleaner(words []string) (*RecordCleaner, error) {
	if len(words) == 0 {
		return &RecordCleaner{}, nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	pattern, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, err
	}
	return &RecordCleaner{placeholder: pattern}, nil
}

func (c *RecordCleaner) isPlaceholder(name string) bool {
	return c.placeholder != nil && c.placeholder.MatchString(name)
}

// TrimNames trims the guest name and reservation guest-name fields in place,
// returning how many values actually changed.
func TrimNames(guests []GuestRecord, reservations []ReservationRecord) int {
	changed := 0
	for i := range guests {
		if trimmed := strings.TrimSpace(guests[i].Name); trimmed != guests[i].Name {
			guests[i].Name = trimmed
			changed++
		}
	}
	for i := range reservations {
		if trimmed := strings.TrimSpace(reservations[i].Guest); trimmed != reservations[i].Guest {
			reservations[i].Guest = trimmed
			changed++
		}
	}
	return changed
}

// FilterGuests removes guest records whose name matches the placeholder
// pattern.
func (c *RecordCleaner) FilterGuests(guests []GuestRecord) ([]GuestRecord, int) {
	kept := guests[:0:0]
	for _, g := range guests {
		if c.isPlaceholder(g.Name) {
			continue
		}
		kept = append(kept, g)
	}
	return kept, len(guests) - len(kept)
}

// FilterReservations removes reservations whose guest field matches the
// placeholder pattern or whose value is not strictly positive, in a single
// pass.
func (c *RecordCleaner) FilterReservations(reservations []ReservationRecord) ([]ReservationRecord, int) {
	kept := reservations[:0:0]
	for _, r := range reservations {
		if c.isPlaceholder(r.Guest) || !r.Value.IsPositive() {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(reservations) - len(kept)
}

type dedupKey struct {
	guest    string
	checkin  string
	checkout string
	property string
}

// Deduplicate keeps the first occurrence per (guest, checkin, checkout,
// property) key, preserving input order.
func Deduplicate(reservations []ReservationRecord) ([]ReservationRecord, int) {
	seen := make(map[dedupKey]bool, len(reservations))
	kept := reservations[:0:0]
	for _, r := range reservations {
		key := dedupKey{guest: r.Guest, checkin: r.Checkin, checkout: r.Checkout, property: r.Property}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	return kept, len(reservations) - len(kept)
}
