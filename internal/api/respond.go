package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/draft"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
	"github.com/ecobazaarx/ecoimpact/internal/logging"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondJSON sends a JSON response. The body is encoded before the header
// is written, so a value that cannot be encoded becomes a logged 500.
func respondJSON(w http.ResponseWriter, req *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.FromContext(req.Context()).Error().
			Err(err).
			Str("path", req.URL.Path).
			Msg("encoding response failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeBody(w, status, body)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(errorResponse{Error: message})
	writeBody(w, status, body)
}

// respondFieldErrors sends a 400 carrying per-field messages.
func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	body, _ := json.Marshal(errorResponse{Error: "validation failed", Fields: fields})
	writeBody(w, http.StatusBadRequest, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// respondFailure maps err onto a status code and logs server errors.
func (r *Router) respondFailure(w http.ResponseWriter, req *http.Request, err error) {
	var fe draft.FieldErrors
	switch {
	case errors.As(err, &fe):
		fields := make(map[string]string, len(fe))
		for k, v := range fe {
			fields[string(k)] = v
		}
		respondFieldErrors(w, fields)
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, impact.ErrCalculationOverflow):
		respondError(w, http.StatusBadRequest, "weight or dimensions too large to estimate: "+err.Error())
	default:
		logging.FromContext(req.Context()).Error().
			Err(err).
			Str("path", req.URL.Path).
			Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a JSON body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, req *http.Request, dst any) bool {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}
