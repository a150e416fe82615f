package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nativore_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AnalyticsComputeDuration records how long each analytics report takes to build.
	AnalyticsComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nativore_analytics_compute_seconds",
		Help:    "Time spent loading and aggregating listings per report",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"report"})

	// CacheLookups counts analytics cache lookups by report and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nativore_cache_lookups_total",
		Help: "Analytics cache lookups by report and outcome",
	}, []string{"report", "outcome"})

	// RatingRecomputations counts derived rating recomputations by scope.
	RatingRecomputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nativore_rating_recomputations_total",
		Help: "Listing rating recomputations by scope (single or all)",
	}, []string{"scope"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackReport returns a function that records the report build time when called.
func TrackReport(report string) func() {
	start := time.Now()
	return func() {
		AnalyticsComputeDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	}
}

// RecordCacheLookup increments the cache lookup counter.
func RecordCacheLookup(report, outcome string) {
	CacheLookups.WithLabelValues(report, outcome).Inc()
}
