// Package metrics provides Prometheus metrics for the tavern watcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service records into.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Listing pipeline
	listingsFetched  *prometheus.CounterVec
	listingsRejected *prometheus.CounterVec
	listingsNew      prometheus.Counter
	listingsMatched  prometheus.Gauge
	fetchErrors      *prometheus.CounterVec
	fetchLatency     *prometheus.HistogramVec

	// Refresh cycles
	cycles        *prometheus.CounterVec
	cycleFailures *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec

	// Owned heroes
	heroesByState *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tavern",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.listingsFetched = m.counterVec("listings_fetched_total",
		"Listings returned by a marketplace provider", "source")
	m.listingsRejected = m.counterVec("listings_rejected_total",
		"Listings skipped because they could not be normalized or scored", "reason")
	m.listingsNew = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listings_new_total",
		Help:      "Listings whose sale id had not been seen in an earlier cycle",
	})
	m.listingsMatched = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listings_matched",
		Help:      "Listings that passed the matcher in the latest cycle",
	})
	m.fetchErrors = m.counterVec("fetch_errors_total",
		"Failed upstream fetches", "source")
	m.fetchLatency = m.histogramVec("fetch_latency_milliseconds",
		"Upstream fetch latency in milliseconds", "source")

	m.cycles = m.counterVec("cycles_total",
		"Completed refresh cycles", "kind")
	m.cycleFailures = m.counterVec("cycle_failures_total",
		"Refresh cycles that ended in an error", "kind")
	m.cycleDuration = m.histogramVec("cycle_duration_milliseconds",
		"Refresh cycle duration in milliseconds", "kind")

	m.heroesByState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "heroes",
		Help:      "Owned heroes by stamina state in the latest cycle",
	}, []string{"state"})

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"HTTP errors by endpoint", "endpoint", "method", "error_type")
}

// RecordListingsFetched adds n listings returned by source.
func RecordListingsFetched(source string, n int) {
	globalManager.listingsFetched.WithLabelValues(source).Add(float64(n))
}

// RecordListingsRejected adds n skipped listings for reason.
func RecordListingsRejected(reason string, n int) {
	globalManager.listingsRejected.WithLabelValues(reason).Add(float64(n))
}

// RecordListingsNew adds n newly seen listings.
func RecordListingsNew(n int) {
	globalManager.listingsNew.Add(float64(n))
}

// UpdateListingsMatched sets the matched listing count of the latest cycle.
func UpdateListingsMatched(n int) {
	globalManager.listingsMatched.Set(float64(n))
}

// RecordFetchError increments the fetch error counter for source.
func RecordFetchError(source string) {
	globalManager.fetchErrors.WithLabelValues(source).Inc()
}

// RecordFetchLatency records one upstream call.
func RecordFetchLatency(source string, latencyMs float64) {
	globalManager.fetchLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordCycle records a finished refresh cycle of kind (listings or heroes).
func RecordCycle(kind string, durationMs float64, failed bool) {
	globalManager.cycles.WithLabelValues(kind).Inc()
	globalManager.cycleDuration.WithLabelValues(kind).Observe(durationMs)
	if failed {
		globalManager.cycleFailures.WithLabelValues(kind).Inc()
	}
}

// UpdateHeroesByState sets the hero count for a stamina state.
func UpdateHeroesByState(state string, n int) {
	globalManager.heroesByState.WithLabelValues(state).Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
