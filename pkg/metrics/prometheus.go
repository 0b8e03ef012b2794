// Package metrics provides Prometheus metrics for the regrowth protocol tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tracker.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Protocol metrics
	taskToggles           *prometheus.CounterVec
	counterUpdates        prometheus.Counter
	onboardingCompletions prometheus.Counter
	streakCurrent         prometheus.Gauge
	streakBest            prometheus.Gauge
	protocolDay           prometheus.Gauge

	// Persistence metrics
	stateSaves       prometheus.Counter
	stateSaveErrors  prometheus.Counter
	stateSaveLatency prometheus.Histogram
	stateLoads       *prometheus.CounterVec
	writebackPending prometheus.Gauge
	writebackDropped prometheus.Counter

	// Request handling
	dedupeHits          prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Timers
	timerEvents  *prometheus.CounterVec
	timersActive prometheus.Gauge

	errorsByComponent *prometheus.CounterVec

	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "regrow",
		subsystem:        "protocol",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.taskToggles = auto.NewCounterVec(m.counter("task_toggles_total", "Task toggles by pillar and resulting state"), []string{"pillar", "result"})
	m.counterUpdates = auto.NewCounter(m.counter("counter_updates_total", "Counter task value updates"))
	m.onboardingCompletions = auto.NewCounter(m.counter("onboarding_completions_total", "Completed onboardings"))
	m.streakCurrent = auto.NewGauge(m.gauge("streak_current_days", "Current qualifying-day streak"))
	m.streakBest = auto.NewGauge(m.gauge("streak_best_days", "Best qualifying-day streak"))
	m.protocolDay = auto.NewGauge(m.gauge("day_number", "Current protocol day (0 = not started)"))

	m.stateSaves = auto.NewCounter(m.counter("state_saves_total", "Persisted state snapshots"))
	m.stateSaveErrors = auto.NewCounter(m.counter("state_save_errors_total", "Failed state snapshot writes"))
	m.stateSaveLatency = auto.NewHistogram(m.histogram("state_save_latency_milliseconds", "State snapshot write latency in milliseconds"))
	m.stateLoads = auto.NewCounterVec(m.counter("state_loads_total", "State loads by outcome"), []string{"outcome"})
	m.writebackPending = auto.NewGauge(m.gauge("writeback_pending", "Snapshots waiting for the write-back worker"))
	m.writebackDropped = auto.NewCounter(m.counter("writeback_superseded_total", "Pending snapshots replaced by a newer one before being written"))

	m.dedupeHits = auto.NewCounter(m.counter("request_duplicates_total", "Requests skipped because their request id was already applied"))
	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "HTTP requests by endpoint, method and status code"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.timerEvents = auto.NewCounterVec(m.counter("timer_events_total", "Countdown timer lifecycle events"), []string{"event"})
	m.timersActive = auto.NewGauge(m.gauge("timers_active", "Countdown timers currently tracked"))

	m.errorsByComponent = auto.NewCounterVec(m.counter("errors_total", "Errors by component and type"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
}

// SetEnabled toggles recording on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

func on() bool { return globalManager.enabled }

// RecordTaskToggle counts a toggle; done reports the resulting state.
func RecordTaskToggle(pillar string, done bool) {
	if !on() {
		return
	}
	result := "undone"
	if done {
		result = "done"
	}
	globalManager.taskToggles.WithLabelValues(pillar, result).Inc()
}

// RecordCounterUpdate counts a counter task update.
func RecordCounterUpdate() {
	if on() {
		globalManager.counterUpdates.Inc()
	}
}

// RecordOnboardingCompleted counts a completed onboarding.
func RecordOnboardingCompleted() {
	if on() {
		globalManager.onboardingCompletions.Inc()
	}
}

// UpdateStreak sets the streak gauges.
func UpdateStreak(current, best int) {
	if !on() {
		return
	}
	globalManager.streakCurrent.Set(float64(current))
	globalManager.streakBest.Set(float64(best))
}

// UpdateProtocolDay sets the protocol day gauge.
func UpdateProtocolDay(day int) {
	if on() {
		globalManager.protocolDay.Set(float64(day))
	}
}

// RecordStateSave records one snapshot write and its latency.
func RecordStateSave(latencyMs float64) {
	if !on() {
		return
	}
	globalManager.stateSaves.Inc()
	globalManager.stateSaveLatency.Observe(latencyMs)
}

// RecordStateSaveError counts a failed snapshot write.
func RecordStateSaveError() {
	if !on() {
		return
	}
	globalManager.stateSaveErrors.Inc()
	globalManager.errorsByComponent.WithLabelValues("repository", "save_failed").Inc()
}

// RecordStateLoad counts a state load; outcome is loaded, default or corrupt.
func RecordStateLoad(outcome string) {
	if on() {
		globalManager.stateLoads.WithLabelValues(outcome).Inc()
	}
}

// UpdateWritebackPending sets the number of pending snapshots.
func UpdateWritebackPending(n int) {
	if on() {
		globalManager.writebackPending.Set(float64(n))
	}
}

// RecordWritebackSuperseded counts a pending snapshot replaced before it was written.
func RecordWritebackSuperseded() {
	if on() {
		globalManager.writebackDropped.Inc()
	}
}

// RecordDuplicateRequest counts a request skipped by de-duplication.
func RecordDuplicateRequest() {
	if on() {
		globalManager.dedupeHits.Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if on() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if on() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordTimerEvent counts a timer lifecycle event (started, paused, resumed, reset, stopped, expired).
func RecordTimerEvent(event string) {
	if on() {
		globalManager.timerEvents.WithLabelValues(event).Inc()
	}
}

// UpdateTimersActive sets the number of tracked timers.
func UpdateTimersActive(n int) {
	if on() {
		globalManager.timersActive.Set(float64(n))
	}
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	if on() {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if on() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if on() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
