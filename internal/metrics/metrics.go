package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Emissary
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Reconciliation Metrics
	ReconciliationsTotal prometheus.CounterVec
	SyncAllDuration      prometheus.HistogramVec

	// Discord API Metrics
	DiscordCallDuration prometheus.HistogramVec

	// Queue Metrics
	RefreshQueueDepth prometheus.Gauge

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emissary_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emissary_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "emissary_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Reconciliation Metrics
		ReconciliationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emissary_reconciliations_total",
				Help: "Total reconciliation attempts by outcome and trigger source",
			},
			[]string{"outcome", "trigger"},
		),
		SyncAllDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emissary_sync_all_duration_seconds",
				Help:    "Cross-guild sync execution time in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"trigger"},
		),

		// Discord API Metrics
		DiscordCallDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emissary_discord_call_duration_seconds",
				Help:    "Discord REST call latency in seconds by operation",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),

		// Queue Metrics
		RefreshQueueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "emissary_refresh_queue_depth",
				Help: "Current number of messages in the role refresh stream",
			},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emissary_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emissary_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
	}
}
