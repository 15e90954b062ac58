package greenops

import (
	"fmt"
	"math"
)

// Calculate computes EPA equivalencies for a footprint in kg CO2e.
//
// Footprints below MinEquivalencyThresholdKg yield an empty output and no
// error. Negative footprints return ErrNegativeValue; NaN or infinite input
// returns ErrCalculationOverflow.
func Calculate(kg float64) (EquivalencyOutput, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return EquivalencyOutput{IsEmpty: true}, ErrNegativeValue
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	trees := kg / EPATreeSeedlingFactor

	if math.IsInf(phones, 0) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}

	milesFormatted := formatEquivalencyValue(miles)
	phonesFormatted := formatEquivalencyValue(phones)

	results := []EquivalencyResult{
		{Type: EquivalencyMilesDriven, Value: miles, FormattedValue: milesFormatted, Label: "miles driven"},
		{Type: EquivalencySmartphonesCharged, Value: phones, FormattedValue: phonesFormatted, Label: "smartphones charged"},
		{Type: EquivalencyTreeSeedlings, Value: trees, FormattedValue: FormatFloat(trees, 1), Label: "tree seedlings grown for 10 years"},
	}

	return EquivalencyOutput{
		InputKg: kg,
		Results: results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			milesFormatted, phonesFormatted),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", milesFormatted, phonesFormatted),
	}, nil
}

// formatEquivalencyValue rounds to an integer with separators, or uses
// million/billion notation for large values.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
