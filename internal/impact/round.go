package impact

import "github.com/shopspring/decimal"

// Round1 rounds v to one decimal place, half away from zero, operating on the
// shortest decimal representation of v. That makes 0.35 round to 0.4 even
// though the nearest float64 is slightly below 0.35. Non-finite values are
// returned unchanged.
func Round1(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
