package etl

import "github.com/shopspring/decimal"

// Fixed business constants. The Booking.com payment surcharge is invoiced on
// top of the listed channel commission at 1.4% of the reservation value.
const (
	bookingChannelSubstring = "booking.com"
	bookingSurchargeRate    = "0.014"

	azoresRegionKey  = "azores"
	coastalRegionKey = "fuzeta"

	defaultAzoresRate  = "0.04"
	defaultCoastalRate = "0.06"
)

// Settings is the immutable per-run pipeline configuration. Build it from
// DefaultSettings plus caller overrides; never share a mutated instance.
type Settings struct {
	IvaRates         map[string]decimal.Decimal
	PropertyGroups   map[string][]string
	PlaceholderWords []string
}

func DefaultSettings() Settings {
	return Settings{
		IvaRates: map[string]decimal.Decimal{
			azoresRegionKey:  decimal.RequireFromString(defaultAzoresRate),
			coastalRegionKey: decimal.RequireFromString(defaultCoastalRate),
		},
		PropertyGroups: map[string][]string{
			"angra_combined":         {"Angra I", "Angra II", "Angra III"},
			"doze_ribeiras_combined": {"Doze Ribeiras 0", "Doze Ribeiras 1"},
			"casas_separate":         {"Casa 1", "Casa 2", "Casa 3", "Casa 4", "Casa 5"},
			"fuzeta_combined":        {"Fuzeta 0", "Fuzeta 1"},
		},
		PlaceholderWords: []string{"Eu", "Test"},
	}
}

// Override carries caller-supplied configuration. Only the keys actually
// present override the defaults; absent keys keep their default value.
type Override struct {
	IvaRates         map[string]float64  `json:"iva_rates"`
	PropertyGroups   map[string][]string `json:"property_groups"`
	PlaceholderWords []string            `json:"placeholder_words"`
}

// Apply returns a fresh Settings value with the override merged per key. The
// receiver is left untouched.
func (s Settings) Apply(ov *Override) Settings {
	merged := Settings{
		IvaRates:         make(map[string]decimal.Decimal, len(s.IvaRates)),
		PropertyGroups:   make(map[string][]string, len(s.PropertyGroups)),
		PlaceholderWords: append([]string(nil), s.PlaceholderWords...),
	}
	for k, v := range s.IvaRates {
		merged.IvaRates[k] = v
	}
	for k, v := range s.PropertyGroups {
		merged.PropertyGroups[k] = append([]string(nil), v...)
	}
	if ov == nil {
		return merged
	}
	for k, v := range ov.IvaRates {
		merged.IvaRates[k] = decimal.NewFromFloat(v)
	}
	for k, v := range ov.PropertyGroups {
		merged.PropertyGroups[k] = append([]string(nil), v...)
	}
	if len(ov.PlaceholderWords) > 0 {
		merged.PlaceholderWords = append([]string(nil), ov.PlaceholderWords...)
	}
	return merged
}
