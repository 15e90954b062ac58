package impact

import "math"

// Estimator constants.
const (
	// DefaultWeightKg replaces a missing or non-positive weight.
	DefaultWeightKg = 1.0

	// BaseEcoScore is the eco score before adjustments.
	BaseEcoScore = 3.0

	// MinEcoScore and MaxEcoScore bound the eco score.
	MinEcoScore = 1.0
	MaxEcoScore = 5.0

	// baseFootprintShare scales a category's base footprint when no materials are declared.
	baseFootprintShare = 0.01

	// fallbackVolumePerKg derives a synthetic volume from weight when dimensions are incomplete.
	fallbackVolumePerKg = 0.001

	// cubicCentimetresPerUnit converts L*W*H in cm into the shipping volume unit.
	cubicCentimetresPerUnit = 1_000_000

	shippingPerKg     = 0.5
	shippingPerVolume = 10.0

	lightWeightKg      = 0.5
	lightWeightBonus   = 0.3
	heavyWeightKg      = 5.0
	heavyWeightPenalty = -0.2

	cheapPriceRatio = 0.8
	cheapPriceBonus = 0.2

	highFootprintKg      = 50.0
	highFootprintPenalty = -0.3
	lowFootprintKg       = 5.0
	lowFootprintBonus    = 0.2
)

// Estimate computes the impact of d with the embedded reference tables.
func Estimate(d Draft) Result {
	return Default().Estimate(d)
}

// Estimate computes the rounded impact of d.
func (r *Reference) Estimate(d Draft) Result {
	return r.Explain(d).Result()
}

// Explain computes the full-precision breakdown of d. Result() on the
// returned value yields the same Result as Estimate.
func (r *Reference) Explain(d Draft) Breakdown {
	category, fellBack := r.resolveCategory(d.Category)
	weight := coerceWeight(d.WeightKg)
	price := coercePrice(d.PriceAmount)

	b := Breakdown{
		Category:         category.Name,
		CategoryFallback: fellBack,
		WeightKg:         weight,
		PriceAmount:      price,
	}

	if n := len(d.Materials); n > 0 {
		count := float64(n)
		for _, name := range d.Materials {
			m, ok := r.materials[name]
			if !ok {
				b.UnknownMaterials = append(b.UnknownMaterials, name)
				continue
			}
			b.MaterialCO2 += m.CO2Factor * weight / count
			b.EcoBonus += m.EcoBonus / count
		}
	} else {
		b.MaterialCO2 = category.BaseFootprint * baseFootprintShare * weight
	}

	if d.Dimensions.Complete() {
		b.DimensionsUsed = true
		b.VolumeM3 = d.Dimensions.Length * d.Dimensions.Width * d.Dimensions.Height / cubicCentimetresPerUnit
	} else {
		b.VolumeM3 = weight * fallbackVolumePerKg
	}

	b.ShippingCO2 = (weight*shippingPerKg + b.VolumeM3*shippingPerVolume) * category.TransportMultiplier
	b.Footprint = b.MaterialCO2 + b.ShippingCO2

	// The average price is looked up by the requested category name, not the
	// resolved one, so an unknown category gets the document default.
	b.AveragePrice = r.AveragePrice(d.Category)
	b.EcoScore = r.scoreEco(&b)
	return b
}

func (r *Reference) scoreEco(b *Breakdown) float64 {
	score := BaseEcoScore
	apply := func(reason string, delta float64) {
		score += delta
		b.Adjustments = append(b.Adjustments, Adjustment{Reason: reason, Delta: delta})
	}

	if b.EcoBonus != 0 {
		apply("material eco bonus", b.EcoBonus)
	}

	if b.WeightKg < lightWeightKg {
		apply("lightweight product", lightWeightBonus)
	} else if b.WeightKg > heavyWeightKg {
		apply("heavy product", heavyWeightPenalty)
	}

	if b.PriceAmount < b.AveragePrice*cheapPriceRatio {
		apply("priced below category average", cheapPriceBonus)
	}

	if b.Footprint > highFootprintKg {
		apply("high footprint", highFootprintPenalty)
	} else if b.Footprint < lowFootprintKg {
		apply("low footprint", lowFootprintBonus)
	}

	return math.Max(MinEcoScore, math.Min(MaxEcoScore, score))
}

func coerceWeight(w *float64) float64 {
	if w == nil || !positive(*w) {
		return DefaultWeightKg
	}
	return *w
}

func coercePrice(p *float64) float64 {
	if p == nil || !finite(*p) {
		return 0
	}
	return *p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
