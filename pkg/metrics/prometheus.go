// Package metrics provides Prometheus metrics for the report service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector registered by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	analysesComputed  prometheus.Counter
	answersScored     *prometheus.CounterVec
	unknownAnswers    prometheus.Counter
	overallScore      prometheus.Histogram
	categoriesOmitted *prometheus.CounterVec

	// Export pipeline
	exportsTotal       *prometheus.CounterVec
	exportFailures     *prometheus.CounterVec
	exportLatency      *prometheus.HistogramVec
	pagesRendered      prometheus.Counter
	sectionsPacked     prometheus.Counter
	oversizedSections  prometheus.Counter
	rasterFallbacks    prometheus.Counter
	exportsInFlight    prometheus.Gauge
	exportsRejected    prometheus.Counter
	surfaceAcquireTime prometheus.Histogram

	// Queue / workers
	queueSize           prometheus.Gauge
	queueCapacity       prometheus.Gauge
	queueEnqueueRate    prometheus.Counter
	queueEnqueueErrors  *prometheus.CounterVec
	queueDequeueRate    prometheus.Counter
	workerCount         prometheus.Gauge
	workerBusy          prometheus.Gauge
	workerTaskLatency   prometheus.Histogram
	workerErrors        prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Store
	storeQueryLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	skippedAnswers    prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // custom registry keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "recrutamente",
		subsystem:        "reports",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	scoreBuckets := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	m.analysesComputed = m.counter("analyses_computed_total", "Total number of questionnaire analyses computed")
	m.answersScored = m.counterVec("answers_scored_total", "Answers scored, by lookup path (exact, heuristic, default)", "path")
	m.unknownAnswers = m.counter("unknown_answers_total", "Answers that fell through to the neutral default score")
	m.overallScore = m.histogram("overall_score", "Distribution of overall candidate scores", scoreBuckets)
	m.categoriesOmitted = m.counterVec("categories_omitted_total", "Categories omitted from an analysis for lack of answers", "category")

	m.exportsTotal = m.counterVec("exports_total", "Completed report exports by mode", "mode")
	m.exportFailures = m.counterVec("export_failures_total", "Failed report exports by mode and stage", "mode", "stage")
	m.exportLatency = m.histogramVec("export_latency_milliseconds", "End-to-end export latency in milliseconds", m.histogramBuckets, "mode")
	m.pagesRendered = m.counter("pages_rendered_total", "Total number of report pages rendered")
	m.sectionsPacked = m.counter("sections_packed_total", "Total number of sections placed on pages")
	m.oversizedSections = m.counter("oversized_sections_total", "Sections taller than the usable page height")
	m.rasterFallbacks = m.counter("raster_fallbacks_total", "Exports that used the single-raster slicing fallback")
	m.exportsInFlight = m.gauge("exports_in_flight", "Exports currently being produced")
	m.exportsRejected = m.counter("exports_rejected_total", "Exports rejected because an identical export was already running")
	m.surfaceAcquireTime = m.histogram("surface_acquire_milliseconds", "Time to acquire a render surface", m.histogramBuckets)

	m.queueSize = m.gauge("queue_size", "Current number of queued export tasks")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum export queue capacity")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Total number of enqueued export tasks")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Enqueue failures by reason", "reason")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Total number of dequeued export tasks")
	m.workerCount = m.gauge("worker_count", "Number of export workers")
	m.workerBusy = m.gauge("worker_busy", "Number of export workers currently busy")
	m.workerTaskLatency = m.histogram("worker_task_latency_milliseconds", "Export task latency measured by the worker", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Export tasks that ended in error")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")

	m.storeQueryLatency = m.histogramVec("store_query_latency_milliseconds", "Application store query latency", m.histogramBuckets, "driver", "query")
	m.storeErrors = m.counterVec("store_errors_total", "Application store errors", "driver", "query")
	m.skippedAnswers = m.counter("store_skipped_answers_total", "Stored answers dropped because their value is not text")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Scoring.

// RecordAnalysis records one computed analysis and its overall score.
func RecordAnalysis(overall int) {
	globalManager.analysesComputed.Inc()
	globalManager.overallScore.Observe(float64(overall))
}

// RecordAnswerScored records which lookup path resolved an answer.
func RecordAnswerScored(path string) {
	globalManager.answersScored.WithLabelValues(path).Inc()
}

// RecordUnknownAnswer counts answers resolved by the neutral default.
func RecordUnknownAnswer() {
	globalManager.unknownAnswers.Inc()
}

// RecordCategoryOmitted counts a category dropped for having no answers.
func RecordCategoryOmitted(category string) {
	globalManager.categoriesOmitted.WithLabelValues(category).Inc()
}

// Export pipeline.

// RecordExport records a successful export.
func RecordExport(mode string, latencyMs float64, pages int) {
	globalManager.exportsTotal.WithLabelValues(mode).Inc()
	globalManager.exportLatency.WithLabelValues(mode).Observe(latencyMs)
	globalManager.pagesRendered.Add(float64(pages))
}

// RecordExportFailure records a failed export at the given pipeline stage.
func RecordExportFailure(mode, stage string) {
	globalManager.exportFailures.WithLabelValues(mode, stage).Inc()
}

// RecordSectionsPacked adds to the packed sections counter.
func RecordSectionsPacked(n int) {
	globalManager.sectionsPacked.Add(float64(n))
}

// RecordOversizedSection counts a section that overflows its page.
func RecordOversizedSection() {
	globalManager.oversizedSections.Inc()
}

// RecordRasterFallback counts an export that used the slicing fallback.
func RecordRasterFallback() {
	globalManager.rasterFallbacks.Inc()
}

// IncExportsInFlight marks an export as started.
func IncExportsInFlight() { globalManager.exportsInFlight.Inc() }

// DecExportsInFlight marks an export as finished.
func DecExportsInFlight() { globalManager.exportsInFlight.Dec() }

// RecordExportRejected counts a duplicate in-flight export request.
func RecordExportRejected() {
	globalManager.exportsRejected.Inc()
}

// RecordSurfaceAcquire records how long a render surface took to start.
func RecordSurfaceAcquire(latencyMs float64) {
	globalManager.surfaceAcquireTime.Observe(latencyMs)
}

// Queue and workers.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueEnqueueError records an enqueue failure with its reason.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// UpdateWorkerCount sets the number of workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// IncWorkerBusy and DecWorkerBusy track busy workers.
func IncWorkerBusy() { globalManager.workerBusy.Inc() }

// DecWorkerBusy marks a worker idle again.
func DecWorkerBusy() { globalManager.workerBusy.Dec() }

// RecordWorkerTaskLatency records the latency of one task.
func RecordWorkerTaskLatency(latencyMs float64) {
	globalManager.workerTaskLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Store.

// RecordStoreQuery records a store query latency.
func RecordStoreQuery(driver, query string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(driver, query).Observe(latencyMs)
}

// RecordStoreError records a failed store query.
func RecordStoreError(driver, query string) {
	globalManager.storeErrors.WithLabelValues(driver, query).Inc()
}

// RecordSkippedAnswers counts stored answers that were not text.
func RecordSkippedAnswers(n int) {
	globalManager.skippedAnswers.Add(float64(n))
}

// System.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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
