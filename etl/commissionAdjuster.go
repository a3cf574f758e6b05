package etl

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AdjustChannelCommission adds the Booking.com surcharge (1.4% of the
// reservation value, rounded to cents) to the listed channel commission of
// every reservation whose channel mentions Booking.com. Returns the number
// of adjusted records and the aggregate surcharge; the aggregate sums the
// unrounded per-record amounts and is only formatted at the log boundary.
func AdjustChannelCommission(reservations []ReservationRecord) (int, decimal.Decimal) {
	rate := decimal.RequireFromString(bookingSurchargeRate)
	count := 0
	total := decimal.Zero
	for i := range reservations {
		if !strings.Contains(strings.ToLower(reservations[i].Channel), bookingChannelSubstring) {
			continue
		}
		surcharge := reservations[i].Value.Mul(rate)
		reservations[i].Commission = reservations[i].Commission.Add(surcharge.Round(2))
		total = total.Add(surcharge)
		count++
	}
	return count, total
}
