package greenops

import "math"

// ImpactBand classifies a footprint for display.
type ImpactBand string

// Impact bands, matching the seller product form's indicator.
const (
	BandLow    ImpactBand = "Low Impact"
	BandMedium ImpactBand = "Medium Impact"
	BandHigh   ImpactBand = "High Impact"
)

// Band classifies a footprint in kg CO2e. Bounds are inclusive, so 5 kg is
// still low impact and 20 kg still medium. NaN is treated as high.
func Band(footprintKg float64) ImpactBand {
	switch {
	case math.IsNaN(footprintKg):
		return BandHigh
	case footprintKg <= LowImpactMaxKg:
		return BandLow
	case footprintKg <= MediumImpactMaxKg:
		return BandMedium
	default:
		return BandHigh
	}
}

// Color returns an ANSI 256 color code for terminal styling of the band.
func (b ImpactBand) Color() string {
	switch b {
	case BandLow:
		return "34"
	case BandMedium:
		return "178"
	default:
		return "160"
	}
}
