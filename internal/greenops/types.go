// Package greenops turns product footprints into things people can relate to:
// an impact band (low, medium, high) and EPA equivalencies such as miles
// driven or smartphones charged.
package greenops

import "fmt"

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone full charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings converts CO2e to tree seedlings grown for 10 years.
	EquivalencyTreeSeedlings
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// MarshalText encodes the type by name in JSON output.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// EquivalencyResult is a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput contains all equivalencies for one footprint.
type EquivalencyOutput struct {
	// InputKg is the footprint the equivalencies were derived from.
	InputKg float64 `json:"input_kg"`

	Results []EquivalencyResult `json:"results,omitempty"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to driving ~84 miles or charging ~1,959 smartphones".
	DisplayText string `json:"display_text,omitempty"`

	// CompactText is the short form, e.g. "(≈ 84 mi, 1,959 phones)".
	CompactText string `json:"compact_text,omitempty"`

	IsEmpty bool `json:"is_empty"`
}
