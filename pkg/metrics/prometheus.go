// Package metrics provides Prometheus metrics for the careshare service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the careshare service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Gating
	intakeChecks         *prometheus.CounterVec
	sharedSummaries      *prometheus.CounterVec
	contributorsObserved prometheus.Counter
	cappedContributors   prometheus.Counter

	// Credits
	creditsAwarded   prometheus.Counter
	creditsDuplicate prometheus.Counter
	creditEvents     prometheus.Gauge
	ledgerLatency    *prometheus.HistogramVec

	// Clinics and benchmarks
	settingsUpdates      prometheus.Counter
	benchmarkQueries     *prometheus.CounterVec
	clinicsTotal         prometheus.Gauge
	participatingClinics prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "careshare",
		subsystem:        "network",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval is how often gauges fed by polling should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.intakeChecks = auto.NewCounterVec(m.counterOpts("intake_checks_total",
		"Intake match checks by outcome (match, no_match)"), []string{"outcome"})
	m.sharedSummaries = auto.NewCounterVec(m.counterOpts("shared_summaries_total",
		"Merged summaries returned, by requester context level"), []string{"level"})
	m.contributorsObserved = auto.NewCounter(m.counterOpts("contributors_observed_total",
		"Contributing clinics seen across intake checks"))
	m.cappedContributors = auto.NewCounter(m.counterOpts("capped_contributors_total",
		"Contributing clinics whose own level capped the disclosed detail"))

	m.creditsAwarded = auto.NewCounter(m.counterOpts("credits_awarded_total",
		"Continuity credits awarded"))
	m.creditsDuplicate = auto.NewCounter(m.counterOpts("credits_duplicate_total",
		"Continue-care calls whose credits were already recorded"))
	m.creditEvents = auto.NewGauge(m.gaugeOpts("credit_events",
		"Credit events currently recorded in the ledger"))
	m.ledgerLatency = auto.NewHistogramVec(m.histogramOpts("ledger_operation_duration_seconds",
		"Ledger backend operation latency", m.histogramBuckets), []string{"operation", "result"})

	m.settingsUpdates = auto.NewCounter(m.counterOpts("settings_updates_total",
		"Clinic participation settings updates"))
	m.benchmarkQueries = auto.NewCounterVec(m.counterOpts("benchmark_queries_total",
		"Benchmark queries by eligibility reason"), []string{"reason"})
	m.clinicsTotal = auto.NewGauge(m.gaugeOpts("clinics",
		"Clinics known to the network"))
	m.participatingClinics = auto.NewGauge(m.gaugeOpts("participating_clinics",
		"Clinics currently opted in"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by route, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_seconds",
		"HTTP request duration in seconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordIntakeCheck counts an intake check and its contributor breakdown.
func (m *Manager) RecordIntakeCheck(matched bool, contributors, capped int) {
	if !m.enabled {
		return
	}
	outcome := "no_match"
	if matched {
		outcome = "match"
	}
	m.intakeChecks.WithLabelValues(outcome).Inc()
	m.contributorsObserved.Add(float64(contributors))
	m.cappedContributors.Add(float64(capped))
}

// RecordSharedSummary counts a merged summary returned at requester level.
func (m *Manager) RecordSharedSummary(level int) {
	if !m.enabled {
		return
	}
	m.sharedSummaries.WithLabelValues(strconv.Itoa(level)).Inc()
}

// RecordCreditsAwarded adds n newly awarded credits.
func (m *Manager) RecordCreditsAwarded(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.creditsAwarded.Add(float64(n))
}

// RecordCreditDuplicate counts a continue-care call that awarded nothing new.
func (m *Manager) RecordCreditDuplicate() {
	if !m.enabled {
		return
	}
	m.creditsDuplicate.Inc()
}

// UpdateCreditEvents sets the number of recorded credit events.
func (m *Manager) UpdateCreditEvents(n int) {
	if !m.enabled {
		return
	}
	m.creditEvents.Set(float64(n))
}

// RecordLedgerLatency observes one ledger backend operation.
func (m *Manager) RecordLedgerLatency(operation string, err error, d time.Duration) {
	if !m.enabled {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ledgerLatency.WithLabelValues(operation, result).Observe(d.Seconds())
}

// RecordSettingsUpdate counts a settings update.
func (m *Manager) RecordSettingsUpdate() {
	if !m.enabled {
		return
	}
	m.settingsUpdates.Inc()
}

// RecordBenchmarkQuery counts a benchmark query by reason.
func (m *Manager) RecordBenchmarkQuery(reason string) {
	if !m.enabled {
		return
	}
	m.benchmarkQueries.WithLabelValues(reason).Inc()
}

// UpdateClinicGauges sets the clinic population gauges.
func (m *Manager) UpdateClinicGauges(total, participating int) {
	if !m.enabled {
		return
	}
	m.clinicsTotal.Set(float64(total))
	m.participatingClinics.Set(float64(participating))
}

// RecordHTTPRequest records one served HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// RecordError counts an error attributed to component.
func (m *Manager) RecordError(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystem sets memory and goroutine gauges and observes a GC pause.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Package-level helpers record on the global manager.

// RecordIntakeCheck counts an intake check on the global manager.
func RecordIntakeCheck(matched bool, contributors, capped int) {
	globalManager.RecordIntakeCheck(matched, contributors, capped)
}

// RecordSharedSummary counts a merged summary on the global manager.
func RecordSharedSummary(level int) { globalManager.RecordSharedSummary(level) }

// RecordCreditsAwarded adds newly awarded credits on the global manager.
func RecordCreditsAwarded(n int) { globalManager.RecordCreditsAwarded(n) }

// RecordCreditDuplicate counts a no-op continue-care on the global manager.
func RecordCreditDuplicate() { globalManager.RecordCreditDuplicate() }

// UpdateCreditEvents sets the recorded credit events gauge.
func UpdateCreditEvents(n int) { globalManager.UpdateCreditEvents(n) }

// RecordLedgerLatency observes a ledger backend operation.
func RecordLedgerLatency(operation string, err error, d time.Duration) {
	globalManager.RecordLedgerLatency(operation, err, d)
}

// RecordSettingsUpdate counts a settings update.
func RecordSettingsUpdate() { globalManager.RecordSettingsUpdate() }

// RecordBenchmarkQuery counts a benchmark query.
func RecordBenchmarkQuery(reason string) { globalManager.RecordBenchmarkQuery(reason) }

// UpdateClinicGauges sets the clinic population gauges.
func UpdateClinicGauges(total, participating int) {
	globalManager.UpdateClinicGauges(total, participating)
}

// RecordHTTPRequest records an HTTP request with its duration in seconds.
func RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, seconds)
}

// RecordErrorByComponent counts an error attributed to component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordError(component, errorType)
}

// UpdateSystem refreshes system gauges on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memBytes, goroutines, gcPauseMs)
}

// RefreshInterval returns the global manager's refresh interval.
func RefreshInterval() time.Duration { return globalManager.refreshInterval }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
