// Package metrics provides Prometheus metrics for the Podium dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the Podium service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset Metrics - Loading and caching behavior
	datasetLoads        *prometheus.CounterVec
	datasetLoadErrors   *prometheus.CounterVec
	datasetLoadDuration *prometheus.HistogramVec
	datasetCacheHits    prometheus.Counter
	datasetCacheMisses  prometheus.Counter
	datasetRows         *prometheus.GaugeVec
	datasetsAvailable   prometheus.Gauge

	// Normalization Quality Metrics
	unknownCountryCodes *prometheus.CounterVec
	schemaMismatches    *prometheus.CounterVec
	rowsDeduplicated    prometheus.Counter

	// Filter Metrics - Query-time behavior
	filterApplications prometheus.Counter
	filterDuration     prometheus.Histogram
	filterRowsRetained prometheus.Histogram
	filterEmptyResults prometheus.Counter

	// Session Metrics
	activeSessions  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsExpired prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Dataset Metrics - What the registry is doing
	m.datasetLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset loads from disk by source",
		},
		[]string{"source"},
	)

	m.datasetLoadErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_load_errors_total",
			Help:      "Total number of dataset load failures by source",
		},
		[]string{"source"},
	)

	m.datasetLoadDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_load_duration_milliseconds",
			Help:      "Dataset load and normalization duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"source"},
	)

	m.datasetCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_cache_hits_total",
		Help:      "Total number of dataset reads served from the in-memory cache",
	})

	m.datasetCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_cache_misses_total",
		Help:      "Total number of dataset reads that required a disk load",
	})

	m.datasetRows = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_rows",
			Help:      "Number of rows currently cached per dataset source",
		},
		[]string{"source"},
	)

	m.datasetsAvailable = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_available",
		Help:      "Number of dataset sources present in the data directory",
	})

	// Normalization Quality Metrics - Data quality indicators
	m.unknownCountryCodes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "unknown_country_codes_total",
			Help:      "Total number of rows whose country code has no continent mapping",
		},
		[]string{"code"},
	)

	m.schemaMismatches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "schema_mismatches_total",
			Help:      "Total number of schema validation failures by source",
		},
		[]string{"source"},
	)

	m.rowsDeduplicated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_deduplicated_total",
		Help:      "Total number of duplicate rows dropped during normalization",
	})

	// Filter Metrics - Query-time behavior
	m.filterApplications = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_applications_total",
		Help:      "Total number of filter selections applied to datasets",
	})

	m.filterDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_duration_milliseconds",
		Help:      "Filter application duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.filterRowsRetained = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_rows_retained",
		Help:      "Number of rows retained after filtering",
		Buckets:   []float64{0, 10, 100, 1000, 10000, 100000},
	})

	m.filterEmptyResults = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filter_empty_results_total",
		Help:      "Total number of filter applications that retained zero rows",
	})

	// Session Metrics
	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Current number of saved filter sessions",
	})

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_created_total",
		Help:      "Total number of filter sessions created",
	})

	m.sessionsExpired = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_expired_total",
		Help:      "Total number of filter sessions removed by expiry",
	})

	// HTTP Performance Metrics - User experience indicators
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
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// Dataset Metrics Functions.

// RecordDatasetLoad increments the dataset load counter for a source.
func RecordDatasetLoad(source string) {
	globalManager.datasetLoads.WithLabelValues(source).Inc()
}

// RecordDatasetLoadError increments the dataset load error counter for a source.
func RecordDatasetLoadError(source string) {
	globalManager.datasetLoadErrors.WithLabelValues(source).Inc()
}

// RecordDatasetLoadDuration records dataset load duration in milliseconds.
func RecordDatasetLoadDuration(source string, durationMs float64) {
	globalManager.datasetLoadDuration.WithLabelValues(source).Observe(durationMs)
}

// RecordDatasetCacheHit increments the cache hit counter.
func RecordDatasetCacheHit() {
	globalManager.datasetCacheHits.Inc()
}

// RecordDatasetCacheMiss increments the cache miss counter.
func RecordDatasetCacheMiss() {
	globalManager.datasetCacheMisses.Inc()
}

// UpdateDatasetRows sets the cached row count for a source.
func UpdateDatasetRows(source string, rows int) {
	globalManager.datasetRows.WithLabelValues(source).Set(float64(rows))
}

// UpdateDatasetsAvailable sets the number of available dataset sources.
func UpdateDatasetsAvailable(count int) {
	globalManager.datasetsAvailable.Set(float64(count))
}

// Normalization Quality Metrics Functions.

// RecordUnknownCountryCode increments the unknown country code counter.
func RecordUnknownCountryCode(code string) {
	globalManager.unknownCountryCodes.WithLabelValues(code).Inc()
}

// RecordSchemaMismatch increments the schema mismatch counter for a source.
func RecordSchemaMismatch(source string) {
	globalManager.schemaMismatches.WithLabelValues(source).Inc()
}

// RecordRowsDeduplicated adds dropped duplicate rows to the dedupe counter.
func RecordRowsDeduplicated(count int) {
	globalManager.rowsDeduplicated.Add(float64(count))
}

// Filter Metrics Functions.

// RecordFilterApplication increments the filter application counter.
func RecordFilterApplication() {
	globalManager.filterApplications.Inc()
}

// RecordFilterDuration records filter application duration in milliseconds.
func RecordFilterDuration(durationMs float64) {
	globalManager.filterDuration.Observe(durationMs)
}

// RecordFilterRowsRetained records the number of rows kept after filtering.
func RecordFilterRowsRetained(rows int) {
	globalManager.filterRowsRetained.Observe(float64(rows))
	if rows == 0 {
		globalManager.filterEmptyResults.Inc()
	}
}

// Session Metrics Functions.

// UpdateActiveSessions sets the current number of saved sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordSessionCreated increments the sessions created counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionExpired increments the sessions expired counter.
func RecordSessionExpired() {
	globalManager.sessionsExpired.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
