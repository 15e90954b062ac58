// Package impact estimates the environmental impact of a marketplace product.
//
// Given a product draft (category, weight, dimensions, price and the
// materials it is made of) the estimator derives the CO2 attributable to its
// materials, the CO2 attributable to shipping it, the total footprint and an
// eco score between 1 and 5. The computation is pure: it reads only the
// immutable reference tables and the draft, never performs I/O and never
// fails. Malformed numeric input degrades to documented defaults.
//
// Reference tables are data, not code. The default tables are embedded from
// reference.yaml and can be replaced with LoadReference.
package impact

// MaterialFactor is a reference entry for a material a product can be made of.
type MaterialFactor struct {
	// Name is the lookup key, matched exactly.
	Name string `json:"name" yaml:"name"`

	// CO2Factor is kg CO2 emitted per kg of material.
	CO2Factor float64 `json:"co2_factor" yaml:"co2_factor"`

	// EcoBonus is added to the eco score in proportion to the material's share, in [0,1].
	EcoBonus float64 `json:"eco_bonus" yaml:"eco_bonus"`
}

// CategoryFactor is a reference entry for a product category.
type CategoryFactor struct {
	Name                string  `json:"name"                 yaml:"name"`
	BaseFootprint       float64 `json:"base_footprint"       yaml:"base_footprint"`
	Complexity          float64 `json:"complexity"           yaml:"complexity"`
	TransportMultiplier float64 `json:"transport_multiplier" yaml:"transport_multiplier"`
}

// Dimensions are the outer dimensions of a product in centimetres.
type Dimensions struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width"  yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Complete reports whether all three dimensions are usable for a volume.
func (d *Dimensions) Complete() bool {
	if d == nil {
		return false
	}
	return positive(d.Length) && positive(d.Width) && positive(d.Height)
}

// Draft is the estimator input. Pointer fields are optional.
type Draft struct {
	Category    string      `json:"category"               yaml:"category"`
	WeightKg    *float64    `json:"weight_kg,omitempty"    yaml:"weight_kg,omitempty"`
	PriceAmount *float64    `json:"price_amount,omitempty" yaml:"price_amount,omitempty"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"   yaml:"dimensions,omitempty"`

	// Materials is a sequence, not a set: every entry, including duplicates
	// and names missing from the material table, counts toward the divisor.
	Materials []string `json:"materials,omitempty" yaml:"materials,omitempty"`
}

// Result holds the derived impact fields, each rounded to one decimal.
type Result struct {
	MaterialCO2 float64 `json:"material_co2" yaml:"material_co2" gorm:"column:material_co2"`
	ShippingCO2 float64 `json:"shipping_co2" yaml:"shipping_co2" gorm:"column:shipping_co2"`
	Footprint   float64 `json:"footprint"    yaml:"footprint"    gorm:"column:footprint"`
	EcoScore    float64 `json:"eco_score"    yaml:"eco_score"    gorm:"column:eco_score"`
}

// Adjustment is a single eco score modifier applied during estimation.
type Adjustment struct {
	Reason string  `json:"reason"`
	Delta  float64 `json:"delta"`
}

// Breakdown exposes the full-precision intermediate values of an estimate.
type Breakdown struct {
	Category         string       `json:"category"`
	CategoryFallback bool         `json:"category_fallback"`
	WeightKg         float64      `json:"weight_kg"`
	PriceAmount      float64      `json:"price_amount"`
	AveragePrice     float64      `json:"average_price"`
	VolumeM3         float64      `json:"volume_m3"`
	DimensionsUsed   bool         `json:"dimensions_used"`
	UnknownMaterials []string     `json:"unknown_materials,omitempty"`
	EcoBonus         float64      `json:"eco_bonus"`
	MaterialCO2      float64      `json:"material_co2"`
	ShippingCO2      float64      `json:"shipping_co2"`
	Footprint        float64      `json:"footprint"`
	EcoScore         float64      `json:"eco_score"`
	Adjustments      []Adjustment `json:"adjustments,omitempty"`
}

// Result rounds the breakdown into the externally visible result.
func (b Breakdown) Result() Result {
	return Result{
		MaterialCO2: Round1(b.MaterialCO2),
		ShippingCO2: Round1(b.ShippingCO2),
		Footprint:   Round1(b.Footprint),
		EcoScore:    Round1(b.EcoScore),
	}
}

// Validate returns ErrCalculationOverflow when a field is not finite. This
// happens when weight or dimensions are so large that a product overflows.
func (r Result) Validate() error {
	for _, v := range [...]float64{r.MaterialCO2, r.ShippingCO2, r.Footprint, r.EcoScore} {
		if !finite(v) {
			return ErrCalculationOverflow
		}
	}
	return nil
}
