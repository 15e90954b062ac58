package greenops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

func TestNewReport(t *testing.T) {
	b := impact.Default().Explain(impact.Draft{Category: "Bag", WeightKg: impact.Float(1), Materials: []string{"Bamboo"}})

	rep, err := greenops.NewReport(b, false)
	require.NoError(t, err)
	assert.Equal(t, "Bag", rep.Category)
	assert.Equal(t, impact.Result{MaterialCO2: 0.8, ShippingCO2: 0.4, Footprint: 1.2, EcoScore: 4.3}, rep.Result)
	assert.Equal(t, greenops.BandLow, rep.Band)
	assert.False(t, rep.Equivalency.IsEmpty)
	assert.Nil(t, rep.Breakdown)

	rep, err = greenops.NewReport(b, true)
	require.NoError(t, err)
	require.NotNil(t, rep.Breakdown)
	assert.InDelta(t, b.Footprint, rep.Breakdown.Footprint, 1e-12)
}

func TestNewReport_Overflow(t *testing.T) {
	b := impact.Default().Explain(impact.Draft{
		Category:  "Laptop",
		WeightKg:  impact.Float(1e308),
		Materials: []string{"Aluminum"},
	})

	_, err := greenops.NewReport(b, true)
	require.ErrorIs(t, err, impact.ErrCalculationOverflow)
}
