package api

import (
	"fmt"
	"net/http"

	"github.com/ecobazaarx/ecoimpact/internal/insights"
)

// OrderLine asks for quantity units of a stored product.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderImpactRequest is the body of POST /api/v1/orders/impact.
type OrderImpactRequest struct {
	Items []OrderLine `json:"items"`
}

// OrderImpactResponse carries the priced items and their totals.
type OrderImpactResponse struct {
	Items  []insights.OrderItem `json:"items"`
	Totals insights.OrderTotals `json:"totals"`
}

func (r *Router) orderImpact(w http.ResponseWriter, req *http.Request) {
	var body OrderImpactRequest
	if !decodeJSON(w, req, &body) {
		return
	}

	fields := map[string]string{}
	for i, line := range body.Items {
		if line.ProductID == "" {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "Product is required"
		}
		if line.Quantity < 1 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "Quantity must be at least 1"
		}
	}
	if len(fields) > 0 {
		respondFieldErrors(w, fields)
		return
	}

	items := make([]insights.OrderItem, 0, len(body.Items))
	for _, line := range body.Items {
		p, err := r.store.Get(req.Context(), line.ProductID)
		if err != nil {
			r.respondFailure(w, req, err)
			return
		}
		items = append(items, insights.NewOrderItem(p, line.Quantity))
	}

	respondJSON(w, req, http.StatusOK, OrderImpactResponse{
		Items:  items,
		Totals: insights.CalculateOrderTotals(items),
	})
}
