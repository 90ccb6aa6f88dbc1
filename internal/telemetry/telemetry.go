// Package telemetry records engine activity as Prometheus metrics and
// exports them to a node_exporter textfile.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// Manager owns the engine metrics and the registry they live on.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	resourcesProcessed *prometheus.CounterVec
	resourcesSkipped   *prometheus.CounterVec
	resourcesFailed    *prometheus.CounterVec
	processingLatency  *prometheus.HistogramVec
	actionsRecorded    *prometheus.CounterVec
	fileWarnings       prometheus.Counter
	calibrations       prometheus.Counter
}

var _ contract.MetricsRecorder = &Manager{} // Compile-time check

// NewManager creates a manager on a private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "contrib",
		histogramBuckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		constLabels:      prometheus.Labels{},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.resourcesProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "resources_processed_total",
		Help:        "Resources classified and committed to the ledger",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.resourcesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "resources_skipped_total",
		Help:        "Resources already present in the ledger",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.resourcesFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "resources_failed_total",
		Help:        "Resources aborted with an error",
		ConstLabels: m.constLabels,
	}, []string{"category", "kind"})

	m.processingLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "resource_duration_seconds",
		Help:        "Time spent classifying and committing one resource",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.actionsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "ledger",
		Name:        "actions_recorded_total",
		Help:        "Action upserts written to the ledger",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.fileWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "file_warnings_total",
		Help:        "Files whose line attribution was skipped",
		ConstLabels: m.constLabels,
	})

	m.calibrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "calibrator",
		Name:        "passes_total",
		Help:        "Weight recalibration passes",
		ConstLabels: m.constLabels,
	})
}

// ResourceProcessed implements contract.MetricsRecorder.
func (m *Manager) ResourceProcessed(category schema.ActionCategory, duration time.Duration) {
	m.resourcesProcessed.WithLabelValues(category.Name()).Inc()
	m.processingLatency.WithLabelValues(category.Name()).Observe(duration.Seconds())
}

// ResourceSkipped implements contract.MetricsRecorder.
func (m *Manager) ResourceSkipped(category schema.ActionCategory) {
	m.resourcesSkipped.WithLabelValues(category.Name()).Inc()
}

// ResourceFailed implements contract.MetricsRecorder.
func (m *Manager) ResourceFailed(category schema.ActionCategory, kind string) {
	m.resourcesFailed.WithLabelValues(category.Name(), kind).Inc()
}

// ActionsRecorded implements contract.MetricsRecorder.
func (m *Manager) ActionsRecorded(category schema.ActionCategory, n int) {
	m.actionsRecorded.WithLabelValues(category.Name()).Add(float64(n))
}

// FileWarning implements contract.MetricsRecorder.
func (m *Manager) FileWarning() {
	m.fileWarnings.Inc()
}

// Calibrated implements contract.MetricsRecorder.
func (m *Manager) Calibrated() {
	m.calibrations.Inc()
}

// Registry returns the gatherer holding every metric of the manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
