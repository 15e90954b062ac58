// Package api serves the estimator, the product catalog and carbon insights
// over a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/engine"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
	"github.com/ecobazaarx/ecoimpact/internal/metrics"
)

// Deps are the collaborators of the API.
type Deps struct {
	Reference *impact.Reference
	Store     catalog.Store
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	Estimator config.EstimatorConfig
}

// Router wraps the mux router and the API collaborators.
type Router struct {
	*mux.Router

	ref       *impact.Reference
	store     catalog.Store
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	estimator *engine.BatchEstimator
}

// NewRouter creates the HTTP router with all routes.
func NewRouter(d Deps) (*Router, error) {
	if d.Reference == nil {
		d.Reference = impact.Default()
	}
	if d.Store == nil {
		d.Store = catalog.NewMemoryStore()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	est, err := engine.NewBatchEstimator(d.Reference,
		engine.WithConfig(d.Estimator),
		engine.WithObserver(d.Metrics),
	)
	if err != nil {
		return nil, err
	}

	r := &Router{
		Router:    mux.NewRouter(),
		ref:       d.Reference,
		store:     d.Store,
		metrics:   d.Metrics,
		logger:    d.Logger.With().Str("component", "api").Logger(),
		estimator: est,
	}
	r.Use(r.observe)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/reference/categories", r.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/reference/materials", r.listMaterials).Methods(http.MethodGet)

	api.HandleFunc("/estimate", r.estimate).Methods(http.MethodPost)
	api.HandleFunc("/estimate/batch", r.estimateBatch).Methods(http.MethodPost)

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", r.listProducts).Methods(http.MethodGet)
	products.HandleFunc("", r.createProduct).Methods(http.MethodPost)
	products.HandleFunc("/{id}", r.getProduct).Methods(http.MethodGet)
	products.HandleFunc("/{id}", r.updateProduct).Methods(http.MethodPut)
	products.HandleFunc("/{id}", r.deleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/insights", r.insights).Methods(http.MethodGet)
	api.HandleFunc("/orders/impact", r.orderImpact).Methods(http.MethodPost)

	return r, nil
}

// healthCheck returns the health status of the API.
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
}
