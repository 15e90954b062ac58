package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/draft"
	"github.com/ecobazaarx/ecoimpact/internal/insights"
	"github.com/ecobazaarx/ecoimpact/internal/logging"
)

// ProductRequest is the body of product create and update requests: the
// seller's form plus flow options.
type ProductRequest struct {
	draft.Form

	// SellerID owns a created product. It is ignored on update.
	SellerID string `json:"seller_id"`

	// AutoCalculate overrides the flow default: on for create, off for update.
	AutoCalculate *bool `json:"auto_calculate,omitempty"`
}

func filterFromQuery(req *http.Request) catalog.Filter {
	q := req.URL.Query()
	return catalog.Filter{
		SellerID: q.Get("seller"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}
}

func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	products, err := r.store.List(req.Context(), filterFromQuery(req))
	if err != nil {
		r.respondFailure(w, req, err)
		return
	}
	respondJSON(w, req, http.StatusOK, products)
}

func (r *Router) getProduct(w http.ResponseWriter, req *http.Request) {
	p, err := r.store.Get(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		r.respondFailure(w, req, err)
		return
	}
	respondJSON(w, req, http.StatusOK, p)
}

func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var body ProductRequest
	if !decodeJSON(w, req, &body) {
		return
	}
	if body.SellerID == "" {
		respondFieldErrors(w, map[string]string{"seller_id": "Seller is required"})
		return
	}

	s := draft.NewAddSession(r.ref, body.SellerID)
	r.submit(w, req, s, body, http.StatusCreated, "create")
}

func (r *Router) updateProduct(w http.ResponseWriter, req *http.Request) {
	existing, err := r.store.Get(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		r.respondFailure(w, req, err)
		return
	}

	var body ProductRequest
	if !decodeJSON(w, req, &body) {
		return
	}

	s := draft.NewEditSession(r.ref, existing)
	r.submit(w, req, s, body, http.StatusOK, "update")
}

// submit drives a draft session from a request body and writes the saved product.
func (r *Router) submit(w http.ResponseWriter, req *http.Request, s *draft.Session, body ProductRequest, status int, op string) {
	defer s.Cancel()

	if body.AutoCalculate != nil {
		if err := s.SetAutoCalculate(*body.AutoCalculate); err != nil {
			r.respondFailure(w, req, err)
			return
		}
	}
	if err := s.Load(body.Form); err != nil {
		r.respondFailure(w, req, err)
		return
	}

	p, err := s.Submit(req.Context(), r.store)
	if err != nil {
		r.respondFailure(w, req, err)
		return
	}
	r.metrics.ProductSaved(op)

	logging.FromContext(req.Context()).Info().
		Str("operation", op).
		Str("product_id", p.ID).
		Str("category", p.Category).
		Float64("footprint", p.Footprint).
		Bool("auto_calculate", s.AutoCalculate()).
		Msg("product saved")
	respondJSON(w, req, status, p)
}

func (r *Router) deleteProduct(w http.ResponseWriter, req *http.Request) {
	if err := r.store.Delete(req.Context(), mux.Vars(req)["id"]); err != nil {
		r.respondFailure(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) insights(w http.ResponseWriter, req *http.Request) {
	products, err := r.store.List(req.Context(), filterFromQuery(req))
	if err != nil {
		r.respondFailure(w, req, err)
		return
	}
	respondJSON(w, req, http.StatusOK, insights.Summarize(products))
}
