// Package metrics provides Prometheus metrics for the leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh engine
	refreshRuns       *prometheus.CounterVec
	refreshDuration   prometheus.Histogram
	scoreUpdates      prometheus.Counter
	fetchErrors       prometheus.Counter
	fetchLatency      prometheus.Histogram
	snapshotUpserts   prometheus.Counter
	lastRefreshUnix   prometheus.Gauge
	totalParticipants prometheus.Gauge

	// Registration
	registrations *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leetboard",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.refreshRuns = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_runs_total",
		Help:      "Number of score refresh runs, by trigger (periodic, weekly, demand, catchup).",
	}, []string{"trigger"})

	m.refreshDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_seconds",
		Help:      "Wall time of a full refresh pass.",
		Buckets:   m.histogramBuckets,
	})

	m.scoreUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_updates_total",
		Help:      "Number of participant scores successfully refreshed.",
	})

	m.fetchErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_errors_total",
		Help:      "Number of failed external score lookups (includes not-found and timeouts).",
	})

	m.fetchLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_latency_seconds",
		Help:      "Latency of external score lookups.",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotUpserts = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_upserts_total",
		Help:      "Number of weekly snapshot rows written.",
	})

	m.lastRefreshUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the last completed refresh pass.",
	})

	m.totalParticipants = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "participants_total",
		Help:      "Number of registered participants.",
	})

	m.registrations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registrations_total",
		Help:      "Registration attempts by outcome (created, duplicate, invalid, error).",
	}, []string{"outcome"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint, method and status code.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level helpers operating on the global manager.

// RecordRefreshRun counts a refresh pass for the given trigger.
func RecordRefreshRun(trigger string) {
	globalManager.refreshRuns.WithLabelValues(trigger).Inc()
}

// RecordRefreshDuration observes the wall time of a refresh pass.
func RecordRefreshDuration(seconds float64) {
	globalManager.refreshDuration.Observe(seconds)
}

// RecordScoreUpdate counts one successfully refreshed participant score.
func RecordScoreUpdate() {
	globalManager.scoreUpdates.Inc()
}

// RecordFetchError counts one failed external lookup.
func RecordFetchError() {
	globalManager.fetchErrors.Inc()
}

// RecordFetchLatency observes one external lookup's latency.
func RecordFetchLatency(seconds float64) {
	globalManager.fetchLatency.Observe(seconds)
}

// RecordSnapshotUpsert counts one weekly snapshot write.
func RecordSnapshotUpsert() {
	globalManager.snapshotUpserts.Inc()
}

// UpdateLastRefreshUnix records when the last refresh pass completed.
func UpdateLastRefreshUnix(ts float64) {
	globalManager.lastRefreshUnix.Set(ts)
}

// UpdateTotalParticipants sets the registered participant gauge.
func UpdateTotalParticipants(count int) {
	globalManager.totalParticipants.Set(float64(count))
}

// RecordRegistration counts a registration attempt by outcome.
func RecordRegistration(outcome string) {
	globalManager.registrations.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request's latency.
func RecordHTTPRequestDuration(endpoint, method, status string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}

// GetRegistry returns the custom registry serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
