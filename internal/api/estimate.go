package api

import (
	"fmt"
	"net/http"

	"github.com/ecobazaarx/ecoimpact/internal/engine"
	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// maxBatchDrafts bounds a single batch request.
const maxBatchDrafts = 10_000

// EstimateResponse is the body of POST /api/v1/estimate. It always carries
// the breakdown.
type EstimateResponse = greenops.Report

// BatchRequest is the body of POST /api/v1/estimate/batch.
type BatchRequest struct {
	Drafts []impact.Draft `json:"drafts"`
}

// BatchResponse is the body returned by POST /api/v1/estimate/batch.
type BatchResponse struct {
	Results []engine.Estimate `json:"results"`
}

func (r *Router) listCategories(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, req, http.StatusOK, r.ref.Categories())
}

func (r *Router) listMaterials(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, req, http.StatusOK, r.ref.Materials())
}

func (r *Router) estimate(w http.ResponseWriter, req *http.Request) {
	var d impact.Draft
	if !decodeJSON(w, req, &d) {
		return
	}

	b := r.ref.Explain(d)
	rep, err := greenops.NewReport(b, true)
	if err != nil {
		r.respondFailure(w, req, err)
		return
	}
	r.metrics.ObserveEstimate(b)
	respondJSON(w, req, http.StatusOK, rep)
}

func (r *Router) estimateBatch(w http.ResponseWriter, req *http.Request) {
	var body BatchRequest
	if !decodeJSON(w, req, &body) {
		return
	}
	if len(body.Drafts) > maxBatchDrafts {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("at most %d drafts per request", maxBatchDrafts))
		return
	}

	results, err := r.estimator.Estimate(req.Context(), body.Drafts)
	if err != nil {
		r.respondFailure(w, req, err)
		return
	}
	respondJSON(w, req, http.StatusOK, BatchResponse{Results: results})
}
