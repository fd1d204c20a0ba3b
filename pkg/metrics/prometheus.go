// Package metrics provides Prometheus metrics for the OctoFit dashboard.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as the "outcome" label of upstream fetch metrics.
const (
	OutcomeSuccess      = "success"
	OutcomeHTTPError    = "http_error"
	OutcomeNetworkError = "network_error"
	OutcomeDecodeError  = "decode_error"
)

// Manager owns every metric of the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Upstream fetches
	upstreamFetches       *prometheus.CounterVec
	upstreamLatency       *prometheus.HistogramVec
	upstreamRateLimitWait prometheus.Histogram
	staleCompletions      *prometheus.CounterVec

	// Views
	activeViews  prometheus.Gauge
	viewsMounted *prometheus.CounterVec
	viewsEvicted prometheus.Counter
	pageChanges  prometheus.Counter
	sortChanges  *prometheus.CounterVec

	// Event loop
	loopEvents  *prometheus.CounterVec
	loopLatency *prometheus.HistogramVec
	loopErrors  *prometheus.CounterVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "octofit",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.upstreamFetches = auto.NewCounterVec(
		m.counterOpts("upstream_fetches_total", "Upstream collection fetches by resource and outcome"),
		[]string{"resource", "outcome"},
	)
	m.upstreamLatency = auto.NewHistogramVec(
		m.histogramOpts("upstream_fetch_latency_milliseconds", "Upstream fetch latency in milliseconds", m.histogramBuckets),
		[]string{"resource"},
	)
	m.upstreamRateLimitWait = auto.NewHistogram(
		m.histogramOpts("upstream_rate_limit_wait_milliseconds", "Time spent waiting for the outbound rate limiter",
			[]float64{0.1, 1, 5, 10, 50, 100, 500, 1000, 5000}),
	)
	m.staleCompletions = auto.NewCounterVec(
		m.counterOpts("stale_completions_total", "Fetch completions discarded because a newer request superseded them or the view was unmounted"),
		[]string{"resource"},
	)

	m.activeViews = auto.NewGauge(m.gaugeOpts("active_views", "Currently mounted views"))
	m.viewsMounted = auto.NewCounterVec(
		m.counterOpts("views_mounted_total", "Views mounted by resource"),
		[]string{"resource"},
	)
	m.viewsEvicted = auto.NewCounter(m.counterOpts("views_evicted_total", "Views unmounted because the view store was full"))
	m.pageChanges = auto.NewCounter(m.counterOpts("page_changes_total", "Accepted page changes on paged views"))
	m.sortChanges = auto.NewCounterVec(
		m.counterOpts("sort_changes_total", "Display sort changes by key"),
		[]string{"key"},
	)

	m.loopEvents = auto.NewCounterVec(
		m.counterOpts("loop_events_total", "View events applied by the event loop"),
		[]string{"kind"},
	)
	m.loopLatency = auto.NewHistogramVec(
		m.histogramOpts("loop_event_latency_milliseconds", "Time to apply one view event", m.histogramBuckets),
		[]string{"kind"},
	)
	m.loopErrors = auto.NewCounterVec(
		m.counterOpts("loop_errors_total", "View events that returned an error"),
		[]string{"kind"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of pending view events"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum number of pending view events"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (size / capacity)"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "View events enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "View events dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "View events rejected by a full or closed queue"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordUpstreamFetch counts one fetch and observes its latency.
func RecordUpstreamFetch(resource, outcome string, latencyMs float64) error {
	switch outcome {
	case OutcomeSuccess, OutcomeHTTPError, OutcomeNetworkError, OutcomeDecodeError:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	globalManager.upstreamFetches.WithLabelValues(resource, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(resource).Observe(latencyMs)
	return nil
}

// RecordRateLimitWait observes time spent blocked on the outbound limiter.
func RecordRateLimitWait(waitMs float64) {
	globalManager.upstreamRateLimitWait.Observe(waitMs)
}

// RecordStaleCompletion counts a discarded fetch completion.
func RecordStaleCompletion(resource string) {
	globalManager.staleCompletions.WithLabelValues(resource).Inc()
}

// UpdateActiveViews sets the number of mounted views.
func UpdateActiveViews(count int) {
	globalManager.activeViews.Set(float64(count))
}

// RecordViewMounted counts a mount.
func RecordViewMounted(resource string) {
	globalManager.viewsMounted.WithLabelValues(resource).Inc()
}

// RecordViewEvicted counts a view unmounted by store eviction.
func RecordViewEvicted() {
	globalManager.viewsEvicted.Inc()
}

// RecordPageChange counts an accepted page change.
func RecordPageChange() {
	globalManager.pageChanges.Inc()
}

// RecordSortChange counts a display sort change.
func RecordSortChange(key string) {
	globalManager.sortChanges.WithLabelValues(key).Inc()
}

// RecordLoopEvent counts an applied view event and observes its latency.
func RecordLoopEvent(kind string, latencyMs float64) {
	globalManager.loopEvents.WithLabelValues(kind).Inc()
	globalManager.loopLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordLoopError counts a view event that failed.
func RecordLoopError(kind string) {
	globalManager.loopErrors.WithLabelValues(kind).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
