package impact

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Mass unit conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	PoundsToKg = 0.453592
	OuncesToKg = 0.0283495
)

// getUnitFactor returns the conversion factor to kilograms for a mass unit.
// Matching is case-insensitive; an empty unit means kilograms.
func getUnitFactor(unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "g", "gram", "grams":
		return GramsToKg, true
	case "", "kg", "kgs", "kilogram", "kilograms":
		return KgToKg, true
	case "lb", "lbs", "pound", "pounds":
		return PoundsToKg, true
	case "oz", "ounce", "ounces":
		return OuncesToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a mass in the given unit to kilograms.
//
// Returns ErrCalculationOverflow for NaN/Inf input or results and
// ErrInvalidUnit for unknown units. A negative value in a known unit
// returns ErrNegativeValue.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	factor, ok := getUnitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// ParseWeight parses a weight such as "1.5", "500g", "2 lb" or "12oz" into
// kilograms. A bare number is taken as kilograms.
func ParseWeight(s string) (float64, error) {
	s = strings.TrimSpace(s)
	split := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) && r != 'e' && r != 'E'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = strings.TrimSpace(s[:split]), strings.TrimSpace(s[split:])
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		if math.IsInf(value, 0) {
			return 0, ErrCalculationOverflow
		}
		return 0, err
	}
	return NormalizeToKg(value, unit)
}
