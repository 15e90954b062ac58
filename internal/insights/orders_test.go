package insights_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
	"github.com/ecobazaarx/ecoimpact/internal/insights"
)

func TestCalculateOrderTotals(t *testing.T) {
	got := insights.CalculateOrderTotals([]insights.OrderItem{
		{Quantity: 2, Price: 10, EcoScore: 4, MaterialCO2: 1, ShippingCO2: 0.5},
		{Quantity: 1, Price: 5.25, EcoScore: 2.5, MaterialCO2: 2, ShippingCO2: 1},
	})

	assert.True(t, decimal.RequireFromString("25.25").Equal(got.Amount), got.Amount.String())
	assert.InDelta(t, 6.0, got.CO2Footprint, 1e-9)
	// (4*2 + 2.5*1) / 2 lines = 5.25, rounded half up
	assert.InDelta(t, 5.3, got.EcoScore, 1e-9)
}

func TestCalculateOrderTotals_Empty(t *testing.T) {
	got := insights.CalculateOrderTotals(nil)
	assert.True(t, got.Amount.IsZero())
	assert.Zero(t, got.EcoScore)
	assert.Zero(t, got.CO2Footprint)
}

func TestCalculateOrderTotals_MissingImpact(t *testing.T) {
	got := insights.CalculateOrderTotals([]insights.OrderItem{
		{Quantity: 3, Price: 1, EcoScore: 0, MaterialCO2: math.NaN(), ShippingCO2: 1},
	})
	assert.InDelta(t, 3.0, got.CO2Footprint, 1e-9)
	assert.Zero(t, got.EcoScore)
}

func TestNewOrderItem(t *testing.T) {
	p := &catalog.Product{
		ID:     "p-1",
		Price:  decimal.RequireFromString("19.99"),
		Result: impact.Result{MaterialCO2: 0.8, ShippingCO2: 0.4, Footprint: 1.2, EcoScore: 4.3},
	}

	it := insights.NewOrderItem(p, 3)
	assert.Equal(t, insights.OrderItem{
		ProductID: "p-1", Quantity: 3, Price: 19.99, EcoScore: 4.3, MaterialCO2: 0.8, ShippingCO2: 0.4,
	}, it)
}

func order(id string, placed time.Time, co2 float64) insights.Order {
	return insights.Order{
		ID:       id,
		PlacedAt: placed,
		Items:    []insights.OrderItem{{Quantity: 1, MaterialCO2: co2, EcoScore: 3}},
	}
}

func TestMonthlyEmissions_KeepsLastSixMonths(t *testing.T) {
	var orders []insights.Order
	for m := time.January; m <= time.August; m++ {
		orders = append(orders, order(fmt.Sprint("o-", m), time.Date(2026, m, 15, 12, 0, 0, 0, time.UTC), float64(m)))
	}
	orders = append(orders, order("o-late", time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC), 0.5))

	got := insights.MonthlyEmissions(orders, 0)
	require.Len(t, got, insights.MonthWindow)
	assert.Equal(t, "2026-03", got[0].Month)
	assert.Equal(t, "2026-08", got[5].Month)
	assert.Equal(t, 2, got[5].Orders)
	assert.InDelta(t, 8.5, got[5].Emissions, 1e-9)

	assert.Len(t, insights.MonthlyEmissions(orders, 12), 8)
}

func TestMonthlyEmissions_BucketsInUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	got := insights.MonthlyEmissions([]insights.Order{
		order("o-1", time.Date(2026, time.February, 28, 23, 30, 0, 0, est), 2),
	}, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-03", got[0].Month)
}

func TestSummarizeOrders(t *testing.T) {
	jan := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	s := insights.SummarizeOrders([]insights.Order{
		order("o-1", jan, 2),
		order("o-2", jan.AddDate(0, 1, 0), 4),
	}, 0)
	assert.Equal(t, 2, s.OrderCount)
	assert.InDelta(t, 6.0, s.TotalEmissions, 1e-9)
	assert.InDelta(t, 3.0, s.AvgEcoScore, 1e-9)
	require.Len(t, s.ByMonth, 2)

	empty := insights.SummarizeOrders(nil, 0)
	assert.Zero(t, empty.OrderCount)
	assert.Empty(t, empty.ByMonth)
	assert.NotNil(t, empty.ByMonth)
}
