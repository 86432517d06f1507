package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Inference outcome labels.
const (
	OutcomeConsistent   = "consistent"
	OutcomeInconsistent = "inconsistent"
	OutcomeError        = "error"
)

// Store and command status labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Manager owns every ivtrack collector.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	sizeBuckets    []float64
	registry       *prometheus.Registry

	// Inference
	inferences        *prometheus.CounterVec
	inferenceLatency  prometheus.Histogram
	candidateSetSize  prometheus.Histogram
	droppedCandidates prometheus.Counter

	// Storage
	timelinesStored prometheus.Gauge
	storeOperations *prometheus.CounterVec

	// CLI
	commands *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps the default Go collectors out of the exported set.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "ivtrack",
		subsystem:      "engine",
		latencyBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		sizeBuckets:    prometheus.ExponentialBuckets(1, 4, 9),
		registry:       prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.inferences = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inferences_total",
		Help:      "Inference runs by outcome",
	}, []string{"outcome"})

	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_milliseconds",
		Help:      "Wall time of one inference run in milliseconds",
		Buckets:   m.latencyBuckets,
	})

	m.candidateSetSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidate_set_size",
		Help:      "Number of candidates left after an inference run",
		Buckets:   m.sizeBuckets,
	})

	m.droppedCandidates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dropped_candidates_total",
		Help:      "Candidates dropped because growth pushed them past the top level",
	})

	m.timelinesStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "timelines",
		Help:      "Number of timelines in the store",
	})

	m.storeOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Store operations by operation and status",
	}, []string{"operation", "status"})

	m.commands = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cli",
		Name:      "commands_total",
		Help:      "CLI command runs by command and status",
	}, []string{"command", "status"})
}

// Registry returns the registry the manager registered on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordInference counts one inference run with its outcome.
func RecordInference(outcome string) {
	globalManager.inferences.WithLabelValues(outcome).Inc()
}

// RecordInferenceLatency observes the duration of one run.
func RecordInferenceLatency(latencyMs float64) {
	globalManager.inferenceLatency.Observe(latencyMs)
}

// RecordCandidateSetSize observes the final candidate count of one run.
func RecordCandidateSetSize(size int) {
	globalManager.candidateSetSize.Observe(float64(size))
}

// RecordDroppedCandidates adds candidates removed by level overflow.
func RecordDroppedCandidates(n int) {
	if n > 0 {
		globalManager.droppedCandidates.Add(float64(n))
	}
}

// UpdateTimelinesStored sets the store size gauge.
func UpdateTimelinesStored(count int) {
	globalManager.timelinesStored.Set(float64(count))
}

// RecordStoreOperation counts one store call.
func RecordStoreOperation(operation, status string) {
	globalManager.storeOperations.WithLabelValues(operation, status).Inc()
}

// RecordCommand counts one CLI command run.
func RecordCommand(command, status string) {
	globalManager.commands.WithLabelValues(command, status).Inc()
}

// GetRegistry returns the process-wide registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the process-wide metrics in the text exposition
// format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}
