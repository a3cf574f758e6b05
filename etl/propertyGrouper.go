package etl

import "strings"

const unknownProperty = "Unknown"

// PropertyGrouper maps raw unit identifiers to display groups. Groups whose
// configuration key ends in "_combined" merge into a single label derived
// from the members' shared prefix; "_separate" members and identifiers
// absent from every list keep their own name. A missing property maps to
// the Unknown sentinel.
type PropertyGrouper struct {
	labels map[string]string
}

func NewPropertyGrouper(groups map[string][]string) *PropertyGrouper {
	g := &PropertyGrouper{labels: make(map[string]string)}
	for key, members := range groups {
		if len(members) == 0 {
			continue
		}
		if strings.HasSuffix(key, "_separate") {
			for _, m := range members {
				g.labels[m] = m
			}
			continue
		}
		label := combinedLabel(members)
		for _, m := range members {
			g.labels[m] = label
		}
	}
	return g
}

func (g *PropertyGrouper) Group(property string) string {
	property = strings.TrimSpace(property)
	if property == "" {
		return unknownProperty
	}
	if label, ok := g.labels[property]; ok {
		return label
	}
	return property
}

// combinedLabel turns {"Angra I", "Angra II", "Angra III"} into
// "Angra (I, II, III combined)".
func combinedLabel(members []string) string {
	base := commonWordPrefix(members)
	if base == "" {
		return strings.Join(members, ", ") + " (combined)"
	}
	suffixes := make([]string, len(members))
	for i, m := range members {
		suffixes[i] = strings.TrimSpace(strings.TrimPrefix(m, base))
	}
	return strings.TrimSpace(base) + " (" + strings.Join(suffixes, ", ") + " combined)"
}

// commonWordPrefix finds the longest prefix shared by all members, cut back
// to a word boundary so "Angra I"/"Angra II" yields "Angra " rather than
// "Angra I".
func commonWordPrefix(members []string) string {
	prefix := members[0]
	for _, m := range members[1:] {
		for !strings.HasPrefix(m, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	if i := strings.LastIndex(prefix, " "); i >= 0 {
		return prefix[:i+1]
	}
	return ""
}
