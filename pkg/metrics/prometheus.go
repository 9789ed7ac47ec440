package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fit outcomes
const (
	FitOK           = "ok"
	FitInsufficient = "insufficient"
)

// Ingest row outcomes
const (
	IngestInserted = "inserted"
	IngestUpdated  = "updated"
	IngestSkipped  = "skipped"
)

// Manager owns the service metrics and the registry they live on.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Trend pipeline
	chartsBuilt *prometheus.CounterVec
	trendFits   *prometheus.CounterVec

	// Ingestion and cache
	ingestRows    *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
}

// NewManager creates a metrics manager on a private registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "llmb",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method"},
	)

	m.chartsBuilt = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "charts_built_total",
			Help:      "Charts computed, by kind (benchmark or average)",
		},
		[]string{"kind"},
	)

	m.trendFits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "trend_fits_total",
			Help:      "Trailing-window fits by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	m.ingestRows = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "ingest_rows_total",
			Help:      "Ingested result rows by outcome",
		},
		[]string{"outcome"},
	)

	m.cacheRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_requests_total",
			Help:      "Read cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
}

// RecordHTTPRequest counts one request and observes its latency.
func (m *Manager) RecordHTTPRequest(endpoint, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// RecordChartBuilt counts a computed chart.
func (m *Manager) RecordChartBuilt(kind string) {
	if m == nil {
		return
	}
	m.chartsBuilt.WithLabelValues(kind).Inc()
}

// RecordTrendFit counts a fit attempt for a category.
func (m *Manager) RecordTrendFit(category, outcome string) {
	if m == nil {
		return
	}
	m.trendFits.WithLabelValues(category, outcome).Inc()
}

// RecordIngestRows adds n rows with the given outcome.
func (m *Manager) RecordIngestRows(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ingestRows.WithLabelValues(outcome).Add(float64(n))
}

// RecordCacheHit counts a cache hit.
func (m *Manager) RecordCacheHit() {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a cache miss.
func (m *Manager) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues("miss").Inc()
}

// RecordCacheError counts a failed cache call.
func (m *Manager) RecordCacheError() {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues("error").Inc()
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
