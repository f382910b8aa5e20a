// Package metrics provides Prometheus metrics for the MSI rating pipeline and
// its read API.
package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every pipeline and HTTP metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer
	gatherer         prometheus.Gatherer

	// Ingestion
	matchesLoaded     *prometheus.CounterVec
	duplicatesDropped prometheus.Counter
	mergeAmbiguities  prometheus.Counter
	malformedRecords  *prometheus.CounterVec

	// Rating fold
	matchesProcessed prometheus.Counter
	regressionEvents prometheus.Counter
	teamsRated       prometheus.Gauge
	snapshotDays     prometheus.Gauge
	stageDuration    *prometheus.HistogramVec
	lastRunUnix      prometheus.Gauge
	runFailures      *prometheus.CounterVec

	// HTTP read API
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // intentional global for singleton metrics manager

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "msi",
		subsystem:        "pipeline",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
		gatherer:         prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}

	m.matchesLoaded = counterVec("matches_loaded_total", "Valid match records read per source", "source")
	m.duplicatesDropped = counter("duplicates_dropped_total", "Broad-source records dropped because the precise source has the fixture")
	m.mergeAmbiguities = counter("merge_ambiguities_total", "Fixture keys repeated inside a single source")
	m.malformedRecords = counterVec("malformed_records_total", "Records skipped as malformed", "stage")

	m.matchesProcessed = counter("matches_processed_total", "Matches folded into ratings")
	m.regressionEvents = counter("regression_events_total", "Season-break regression passes applied")
	m.teamsRated = gauge("teams_rated", "Teams in the latest rating run")
	m.snapshotDays = gauge("snapshot_days", "Daily snapshot entries across all teams in the latest run")
	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of each pipeline stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})
	m.lastRunUnix = gauge("last_run_timestamp_seconds", "Unix time of the latest successful run")
	m.runFailures = counterVec("run_failures_total", "Runs aborted by a fatal error", "kind")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", Name: "requests_total", Help: "HTTP requests served", ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "HTTP request latency in milliseconds",
		Buckets:     []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", Name: "errors_total", Help: "HTTP responses with status >= 400", ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordMatchesLoaded adds n valid records read from source.
func (m *Manager) RecordMatchesLoaded(source string, n int) {
	m.matchesLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordDuplicatesDropped adds n broad records dropped by the merge.
func (m *Manager) RecordDuplicatesDropped(n int) { m.duplicatesDropped.Add(float64(n)) }

// RecordMergeAmbiguities adds n ambiguity warnings.
func (m *Manager) RecordMergeAmbiguities(n int) { m.mergeAmbiguities.Add(float64(n)) }

// RecordMalformed adds n malformed records skipped at stage.
func (m *Manager) RecordMalformed(stage string, n int) {
	m.malformedRecords.WithLabelValues(stage).Add(float64(n))
}

// RecordMatchProcessed increments the folded matches counter.
func (m *Manager) RecordMatchProcessed() { m.matchesProcessed.Inc() }

// RecordRegression increments the regression pass counter.
func (m *Manager) RecordRegression() { m.regressionEvents.Inc() }

// UpdateTeams sets the number of rated teams.
func (m *Manager) UpdateTeams(n int) { m.teamsRated.Set(float64(n)) }

// UpdateSnapshotDays sets the number of daily snapshot entries.
func (m *Manager) UpdateSnapshotDays(n int) { m.snapshotDays.Set(float64(n)) }

// RecordStageDuration observes a stage duration in milliseconds.
func (m *Manager) RecordStageDuration(stage string, ms float64) {
	m.stageDuration.WithLabelValues(stage).Observe(ms)
}

// MarkRunCompleted stamps the latest successful run.
func (m *Manager) MarkRunCompleted(unix float64) { m.lastRunUnix.Set(unix) }

// RecordRunFailure counts a fatal run error of kind.
func (m *Manager) RecordRunFailure(kind string) { m.runFailures.WithLabelValues(kind).Inc() }

// RecordHTTPRequest counts a served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if m.gatherer == nil {
		return errors.Wrap(ErrObserveFailed, "manager has no gatherer")
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return errors.Mark(errors.Wrapf(err, "write metrics textfile %s", path), ErrObserveFailed)
	}
	return nil
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers for the process-wide manager.

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, ms)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}
