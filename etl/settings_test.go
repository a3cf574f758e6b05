package etl

import "testing"

func TestSettingsApply_NilOverrideCopiesDefaults(t *testing.T) {
	defaults := DefaultSettings()
	merged := defaults.Apply(nil)

	merged.IvaRates["azores"] = dec("0.99")
	merged.PropertyGroups["angra_combined"][0] = "mutated"

	if !defaults.IvaRates["azores"].Equal(dec("0.04")) {
		t.Fatal("Apply must deep-copy rates; defaults were mutated")
	}
	if defaults.PropertyGroups["angra_combined"][0] != "Angra I" {
		t.Fatal("Apply must deep-copy groups; defaults were mutated")
	}
}

func TestSettingsApply_PerKeyMerge(t *testing.T) {
	merged := DefaultSettings().Apply(&Override{
		IvaRates: map[string]float64{"azores": 0.05},
	})
	if !merged.IvaRates["azores"].Equal(dec("0.05")) {
		t.Fatalf("expected overridden azores rate 0.05, got %s", merged.IvaRates["azores"])
	}
	if !merged.IvaRates["fuzeta"].Equal(dec("0.06")) {
		t.Fatalf("untouched keys must keep defaults, got %s", merged.IvaRates["fuzeta"])
	}
	if len(merged.PropertyGroups) != 4 {
		t.Fatalf("property groups must keep defaults, got %d groups", len(merged.PropertyGroups))
	}
}

func TestSettingsApply_PlaceholderWordsReplaceWholesale(t *testing.T) {
	merged := DefaultSettings().Apply(&Override{PlaceholderWords: []string{"Dummy"}})
	if len(merged.PlaceholderWords) != 1 || merged.PlaceholderWords[0] != "Dummy" {
		t.Fatalf("expected [Dummy], got %v", merged.PlaceholderWords)
	}
}
