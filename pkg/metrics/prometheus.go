// Package metrics provides Prometheus metrics for the regata results service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service records.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Aggregation metrics: the work this service exists for.
	rankingsComputed prometheus.Counter
	leagueBuilds     prometheus.Counter
	careerBuilds     prometheus.Counter
	buildDuration    *prometheus.HistogramVec

	// Ingest metrics.
	resultsIngested  prometheus.Counter
	malformedTimes   prometheus.Counter
	competitionCount prometheus.Gauge

	// Store metrics.
	storeQueryLatency *prometheus.HistogramVec

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics, refreshed by a background ticker in cmd.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "regata",
		subsystem:        "results",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.rankingsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rankings_computed_total",
		Help:      "Total number of per-category rankings computed",
	})
	m.leagueBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "league_builds_total",
		Help:      "Total number of season league table builds",
	})
	m.careerBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "career_builds_total",
		Help:      "Total number of team career (palmares) builds",
	})
	m.buildDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "build_duration_milliseconds",
		Help:      "Duration of aggregation builds in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"kind"})

	m.resultsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_ingested_total",
		Help:      "Total number of raced results stored",
	})
	m.malformedTimes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_times_total",
		Help:      "Total number of race time strings rejected by the codec",
	})
	m.competitionCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "competitions",
		Help:      "Number of competitions currently stored",
	})

	m.storeQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Latency of store queries in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"query"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total number of HTTP errors by endpoint and type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	return m
}

// GetRegistry returns the registry metrics are collected on; /healthz serves
// it.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordRankingComputed counts one per-category ranking.
func RecordRankingComputed() {
	globalManager.rankingsComputed.Inc()
}

// RecordLeagueBuild counts one season league build and its duration.
func RecordLeagueBuild(start time.Time) {
	globalManager.leagueBuilds.Inc()
	globalManager.buildDuration.WithLabelValues("league").Observe(msSince(start))
}

// RecordCareerBuild counts one palmares build and its duration.
func RecordCareerBuild(start time.Time) {
	globalManager.careerBuilds.Inc()
	globalManager.buildDuration.WithLabelValues("career").Observe(msSince(start))
}

// RecordResultsIngested counts n stored results.
func RecordResultsIngested(n int) {
	globalManager.resultsIngested.Add(float64(n))
}

// RecordMalformedTime counts one codec rejection.
func RecordMalformedTime() {
	globalManager.malformedTimes.Inc()
}

// UpdateCompetitionCount sets the stored-competition gauge.
func UpdateCompetitionCount(n int) {
	globalManager.competitionCount.Set(float64(n))
}

// ObserveStoreQuery records one store query's latency. Call with
// defer ObserveStoreQuery("name", time.Now()).
func ObserveStoreQuery(query string, start time.Time) {
	globalManager.storeQueryLatency.WithLabelValues(query).Observe(msSince(start))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts one HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPauseTime.Observe(ms)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}
