package insights

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
)

// MonthWindow is the number of most recent months MonthlyEmissions keeps
// when no other window is requested.
const MonthWindow = 6

// monthLayout keys monthly buckets as YYYY-MM in UTC.
const monthLayout = "2006-01"

// OrderItem is one line of an order. Price and impact are copied from the
// product when the order is placed so later edits do not change history.
type OrderItem struct {
	ProductID   string  `json:"product_id,omitempty" yaml:"product_id,omitempty"`
	Quantity    int     `json:"quantity"             yaml:"quantity"`
	Price       float64 `json:"price"                yaml:"price"`
	EcoScore    float64 `json:"eco_score"            yaml:"eco_score"`
	MaterialCO2 float64 `json:"material_co2"         yaml:"material_co2"`
	ShippingCO2 float64 `json:"shipping_co2"         yaml:"shipping_co2"`
}

// NewOrderItem snapshots the price and impact of p for quantity units.
func NewOrderItem(p *catalog.Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:   p.ID,
		Quantity:    quantity,
		Price:       p.Price.InexactFloat64(),
		EcoScore:    p.EcoScore,
		MaterialCO2: p.MaterialCO2,
		ShippingCO2: p.ShippingCO2,
	}
}

// Order is a placed order.
type Order struct {
	ID       string      `json:"id"        yaml:"id"`
	PlacedAt time.Time   `json:"placed_at" yaml:"placed_at"`
	Items    []OrderItem `json:"items"     yaml:"items"`
}

// Totals returns CalculateOrderTotals over the order's items.
func (o *Order) Totals() OrderTotals {
	return CalculateOrderTotals(o.Items)
}

// OrderTotals are the derived amount and impact of an order.
type OrderTotals struct {
	Amount decimal.Decimal `json:"amount"`

	// EcoScore is the quantity-weighted eco score sum divided by the number
	// of lines, not units, rounded half up to one decimal.
	EcoScore float64 `json:"eco_score"`

	// CO2Footprint is material plus shipping CO2 times quantity, summed.
	CO2Footprint float64 `json:"co2_footprint"`
}

// CalculateOrderTotals sums items. An empty order divides by one and so
// yields zero totals. Non-finite item values count as zero.
func CalculateOrderTotals(items []OrderItem) OrderTotals {
	amount, eco, co2 := decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		amount = amount.Add(toDecimal(it.Price).Mul(qty))
		eco = eco.Add(toDecimal(it.EcoScore).Mul(qty))
		co2 = co2.Add(toDecimal(it.MaterialCO2).Add(toDecimal(it.ShippingCO2)).Mul(qty))
	}

	lines := decimal.NewFromInt(int64(max(len(items), 1)))
	return OrderTotals{
		Amount:       amount,
		EcoScore:     eco.DivRound(lines, 1).InexactFloat64(),
		CO2Footprint: co2.InexactFloat64(),
	}
}

func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// MonthEmissions is the order footprint of one calendar month.
type MonthEmissions struct {
	Month     string  `json:"month"`
	Emissions float64 `json:"emissions"`
	Orders    int     `json:"orders"`
}

// MonthlyEmissions buckets order footprints by UTC calendar month, oldest
// first, and keeps the most recent months buckets. A non-positive months
// selects MonthWindow. Orders without a placement time count toward the
// current month.
func MonthlyEmissions(orders []Order, months int) []MonthEmissions {
	if months <= 0 {
		months = MonthWindow
	}

	type bucket struct {
		emissions decimal.Decimal
		orders    int
	}
	buckets := map[string]*bucket{}
	for i := range orders {
		placed := orders[i].PlacedAt
		if placed.IsZero() {
			placed = time.Now()
		}
		key := placed.UTC().Format(monthLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.emissions = b.emissions.Add(toDecimal(orders[i].Totals().CO2Footprint))
		b.orders++
	}

	out := make([]MonthEmissions, 0, len(buckets))
	for month, b := range buckets {
		out = append(out, MonthEmissions{Month: month, Emissions: b.emissions.InexactFloat64(), Orders: b.orders})
	}
	slices.SortFunc(out, func(a, b MonthEmissions) int { return cmp.Compare(a.Month, b.Month) })
	if len(out) > months {
		out = out[len(out)-months:]
	}
	return out
}

// OrderSummary aggregates the impact of a set of orders.
type OrderSummary struct {
	OrderCount     int              `json:"order_count"`
	TotalEmissions float64          `json:"total_emissions"`
	AvgEcoScore    float64          `json:"avg_eco_score"`
	ByMonth        []MonthEmissions `json:"by_month"`
}

// SummarizeOrders totals orders and buckets the most recent months of them.
func SummarizeOrders(orders []Order, months int) OrderSummary {
	s := OrderSummary{OrderCount: len(orders), ByMonth: MonthlyEmissions(orders, months)}
	if len(orders) == 0 {
		return s
	}

	total, eco := decimal.Zero, decimal.Zero
	for i := range orders {
		t := orders[i].Totals()
		total = total.Add(toDecimal(t.CO2Footprint))
		eco = eco.Add(toDecimal(t.EcoScore))
	}
	s.TotalEmissions = total.InexactFloat64()
	s.AvgEcoScore = eco.DivRound(decimal.NewFromInt(int64(len(orders))), 1).InexactFloat64()
	return s
}
