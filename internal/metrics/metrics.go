// Package metrics exposes Prometheus collectors for estimation, persistence
// and HTTP traffic on a private registry.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

const namespace = "ecoimpact"

// Metrics holds the application collectors.
type Metrics struct {
	registry *prometheus.Registry

	estimates        *prometheus.CounterVec
	unknownMaterials prometheus.Counter
	ecoScore         prometheus.Histogram
	productsSaved    *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_total",
			Help:      "Impact estimates computed, by resolved category and whether the category fell back.",
		}, []string{"category", "fallback"}),
		unknownMaterials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_materials_total",
			Help:      "Material entries not found in the reference table.",
		}),
		ecoScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "eco_score",
			Help:      "Distribution of unrounded eco scores.",
			Buckets:   prometheus.LinearBuckets(1, 0.5, 9),
		}),
		productsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_saved_total",
			Help:      "Products persisted, by operation.",
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route template and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.estimates,
		m.unknownMaterials,
		m.ecoScore,
		m.productsSaved,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveEstimate records one estimate.
func (m *Metrics) ObserveEstimate(b impact.Breakdown) {
	m.estimates.WithLabelValues(b.Category, strconv.FormatBool(b.CategoryFallback)).Inc()
	if n := len(b.UnknownMaterials); n > 0 {
		m.unknownMaterials.Add(float64(n))
	}
	m.ecoScore.Observe(b.EcoScore)
}

// ProductSaved records a persisted product; operation is "create" or "update".
func (m *Metrics) ProductSaved(operation string) {
	m.productsSaved.WithLabelValues(operation).Inc()
}

// ObserveRequest records an HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, seconds float64) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(seconds)
}
