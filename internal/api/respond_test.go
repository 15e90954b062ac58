package api

import (
	"bytes"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON_UnencodableValue(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/estimate", nil)
	req = req.WithContext(logger.WithContext(req.Context()))
	rec := httptest.NewRecorder()

	respondJSON(rec, req, http.StatusOK, map[string]float64{"footprint": math.Inf(1)})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, logs.String(), "encoding response failed")
}

func TestRespondJSON_WritesBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	respondJSON(rec, req, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "{\"status\":\"ok\"}\n", rec.Body.String())
}
