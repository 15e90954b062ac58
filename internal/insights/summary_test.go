package insights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
	"github.com/ecobazaarx/ecoimpact/internal/insights"
)

func product(id, category string, material, shipping, eco float64) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "product " + id,
		Category: category,
		Result: impact.Result{
			MaterialCO2: material,
			ShippingCO2: shipping,
			Footprint:   material + shipping,
			EcoScore:    eco,
		},
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := insights.Summarize(nil)
	assert.Zero(t, s.ProductCount)
	assert.Zero(t, s.TotalEmissions)
	assert.Zero(t, s.AvgEcoScore)
	assert.Empty(t, s.TopOffenders)
	assert.NotNil(t, s.TopOffenders, "empty slices encode as [] in JSON")
	assert.True(t, s.Equivalency.IsEmpty)
	assert.Empty(t, s.AverageBand)
}

func TestSummarize_Totals(t *testing.T) {
	products := []catalog.Product{
		product("a", "Laptop", 14.1, 2.0, 3.4),
		product("b", "Bag", 0.8, 0.4, 4.3),
		product("c", "Laptop", 25.0, 6.6, 2.8),
		product("d", "", 0.0, 0.6, 3.4),
	}

	s := insights.Summarize(products)
	assert.Equal(t, 4, s.ProductCount)
	assert.InDelta(t, 39.9, s.TotalMaterialCO2, 1e-9)
	assert.InDelta(t, 9.6, s.TotalShippingCO2, 1e-9)
	assert.InDelta(t, 49.5, s.TotalEmissions, 1e-9)
	assert.InDelta(t, 12.375, s.AvgEmissionsPerProduct, 1e-9)
	assert.InDelta(t, 3.5, s.AvgEcoScore, 1e-9, "(3.4+4.3+2.8+3.4)/4 = 3.475 rounds to 3.5")
	assert.Equal(t, 2, s.HighEmissionCount)
	assert.InDelta(t, 100, s.MaterialSharePct+s.ShippingSharePct, 1e-9)
	assert.Equal(t, greenops.BandMedium, s.AverageBand)
	assert.False(t, s.Equivalency.IsEmpty)

	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, "Laptop", s.ByCategory[0].Name)
	assert.Equal(t, 2, s.ByCategory[0].Count)
	assert.InDelta(t, 47.7, s.ByCategory[0].Emissions, 1e-9)
	assert.InDelta(t, 3.1, s.ByCategory[0].AvgEcoScore, 1e-9)
	assert.Equal(t, "Bag", s.ByCategory[1].Name)
	assert.Equal(t, "Unknown", s.ByCategory[2].Name)
}

func TestSummarize_Rankings(t *testing.T) {
	var products []catalog.Product
	for i, e := range []float64{3, 9, 1, 7, 5, 11, 2} {
		products = append(products, product(string(rune('a'+i)), "Bag", e, 0, float64(i%3)+2))
	}

	s := insights.Summarize(products)

	require.Len(t, s.TopOffenders, insights.TopN)
	var got []float64
	for _, p := range s.TopOffenders {
		got = append(got, p.Emissions)
	}
	assert.Equal(t, []float64{11, 9, 7, 5, 3}, got)

	// eco scores are 2,3,4,2,3,4,2: stable ordering keeps earlier products first on ties
	require.Len(t, s.EcoFriendly, insights.TopN)
	var ids []string
	for _, p := range s.EcoFriendly {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c", "f", "b", "e", "a"}, ids)
}

func TestSummarize_DoesNotReorderInput(t *testing.T) {
	products := []catalog.Product{product("a", "Bag", 1, 0, 3), product("b", "Bag", 5, 0, 4)}
	insights.Summarize(products)
	assert.Equal(t, "a", products[0].ID)
}
