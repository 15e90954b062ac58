// Package insights aggregates the stored impact of catalog products into a
// marketplace-wide carbon summary.
package insights

import (
	"cmp"
	"slices"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

const (
	// HighEmissionKg is the material plus shipping CO2 above which a product
	// counts as high emission.
	HighEmissionKg = 10.0

	// TopN bounds the offender and eco-friendly rankings.
	TopN = 5

	unknownCategory = "Unknown"
)

// ProductImpact is a product's entry in a ranking.
type ProductImpact struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	MaterialCO2 float64 `json:"material_co2"`
	ShippingCO2 float64 `json:"shipping_co2"`
	Emissions   float64 `json:"emissions"`
	EcoScore    float64 `json:"eco_score"`
}

// CategoryEmissions aggregates the products of one category.
type CategoryEmissions struct {
	Name        string  `json:"name"`
	Emissions   float64 `json:"emissions"`
	Count       int     `json:"count"`
	AvgEcoScore float64 `json:"avg_eco_score"`
}

// Summary is the carbon insight over a set of products.
type Summary struct {
	ProductCount           int     `json:"product_count"`
	TotalMaterialCO2       float64 `json:"total_material_co2"`
	TotalShippingCO2       float64 `json:"total_shipping_co2"`
	TotalEmissions         float64 `json:"total_emissions"`
	AvgEmissionsPerProduct float64 `json:"avg_emissions_per_product"`

	// MaterialSharePct and ShippingSharePct split the total, in percent.
	MaterialSharePct float64 `json:"material_share_pct"`
	ShippingSharePct float64 `json:"shipping_share_pct"`

	AvgEcoScore       float64 `json:"avg_eco_score"`
	HighEmissionCount int     `json:"high_emission_count"`

	ByCategory   []CategoryEmissions `json:"by_category"`
	TopOffenders []ProductImpact     `json:"top_offenders"`
	EcoFriendly  []ProductImpact     `json:"eco_friendly"`

	// AverageBand classifies the average product.
	AverageBand greenops.ImpactBand       `json:"average_band,omitempty"`
	Equivalency greenops.EquivalencyOutput `json:"equivalency"`
}

// Summarize aggregates products. Empty input yields a zero Summary.
func Summarize(products []catalog.Product) Summary {
	if len(products) == 0 {
		return Summary{
			ByCategory:   []CategoryEmissions{},
			TopOffenders: []ProductImpact{},
			EcoFriendly:  []ProductImpact{},
			Equivalency:  greenops.EquivalencyOutput{IsEmpty: true},
		}
	}

	s := Summary{ProductCount: len(products)}
	entries := make([]ProductImpact, 0, len(products))
	byCategory := map[string]*CategoryEmissions{}
	var categoryOrder []string
	var ecoTotal float64

	for i := range products {
		p := &products[i]
		entry := ProductImpact{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			MaterialCO2: p.MaterialCO2,
			ShippingCO2: p.ShippingCO2,
			Emissions:   p.Emissions(),
			EcoScore:    p.EcoScore,
		}
		entries = append(entries, entry)

		s.TotalMaterialCO2 += p.MaterialCO2
		s.TotalShippingCO2 += p.ShippingCO2
		ecoTotal += p.EcoScore
		if entry.Emissions > HighEmissionKg {
			s.HighEmissionCount++
		}

		name := p.Category
		if name == "" {
			name = unknownCategory
		}
		c, ok := byCategory[name]
		if !ok {
			c = &CategoryEmissions{Name: name}
			byCategory[name] = c
			categoryOrder = append(categoryOrder, name)
		}
		c.Emissions += entry.Emissions
		c.Count++
		c.AvgEcoScore += p.EcoScore
	}

	n := float64(len(products))
	s.TotalEmissions = s.TotalMaterialCO2 + s.TotalShippingCO2
	s.AvgEmissionsPerProduct = s.TotalEmissions / n
	s.AvgEcoScore = impact.Round1(ecoTotal / n)
	if s.TotalEmissions > 0 {
		s.MaterialSharePct = s.TotalMaterialCO2 / s.TotalEmissions * 100
		s.ShippingSharePct = s.TotalShippingCO2 / s.TotalEmissions * 100
	}

	s.ByCategory = make([]CategoryEmissions, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		c := byCategory[name]
		c.AvgEcoScore /= float64(c.Count)
		s.ByCategory = append(s.ByCategory, *c)
	}
	slices.SortStableFunc(s.ByCategory, func(a, b CategoryEmissions) int {
		return cmp.Compare(b.Emissions, a.Emissions)
	})

	s.TopOffenders = topBy(entries, func(p ProductImpact) float64 { return p.Emissions })
	s.EcoFriendly = topBy(entries, func(p ProductImpact) float64 { return p.EcoScore })

	s.AverageBand = greenops.Band(s.AvgEmissionsPerProduct)
	if eq, err := greenops.Calculate(s.TotalEmissions); err == nil {
		s.Equivalency = eq
	} else {
		s.Equivalency = greenops.EquivalencyOutput{IsEmpty: true}
	}
	return s
}

// topBy returns up to TopN entries in descending key order. Ties keep input order.
func topBy(entries []ProductImpact, key func(ProductImpact) float64) []ProductImpact {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b ProductImpact) int {
		return cmp.Compare(key(b), key(a))
	})
	return sorted[:min(TopN, len(sorted))]
}
