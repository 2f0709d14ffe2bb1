package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled turns metric recording on. A disabled collector is a no-op.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix (default "otlane").
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem (default "cse").
	Subsystem string `yaml:"subsystem"`

	// ApplyDurationBuckets are histogram buckets for dispatcher apply
	// durations in seconds.
	ApplyDurationBuckets []float64 `yaml:"apply_duration_buckets"`
}

// Collector records rule engine and simulation loop metrics against a
// Prometheus registry. A nil or disabled Collector is safe to use; all
// record methods become no-ops.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	evaluationsTotal     *prometheus.CounterVec
	classificationsTotal *prometheus.CounterVec
	applyDuration        prometheus.Histogram
	applyBatchSize       prometheus.Histogram
	ruleSetSize          prometheus.Gauge
	stepsTotal           prometheus.Counter
}

// NewCollector creates a metrics collector and registers its metrics with
// the given registry. If registry is nil a fresh one is created.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &Config{}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "otlane"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "cse"
	}
	if len(cfg.ApplyDurationBuckets) == 0 {
		// Batches are small and evaluation is pure in-memory boolean
		// logic; sub-millisecond buckets carry the signal.
		cfg.ApplyDurationBuckets = []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.025, 0.1}
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_evaluations_total",
				Help:      "Total number of top-level rule applications",
			},
			[]string{"kind", "applied"},
		),

		classificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "classifications_total",
				Help:      "Total number of classification tags written onto vehicles",
			},
			[]string{"behaviour"},
		),

		applyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "apply_duration_seconds",
				Help:      "Duration of one dispatcher apply over a vehicle batch",
				Buckets:   cfg.ApplyDurationBuckets,
			},
		),

		applyBatchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "apply_batch_size",
				Help:      "Number of vehicles per dispatcher apply",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
			},
		),

		ruleSetSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_set_size",
				Help:      "Number of top-level rules in the active rule set",
			},
		),

		stepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "simulation_steps_total",
				Help:      "Total number of simulation timesteps processed",
			},
		),
	}

	if c.enabled {
		registry.MustRegister(
			c.evaluationsTotal,
			c.classificationsTotal,
			c.applyDuration,
			c.applyBatchSize,
			c.ruleSetSize,
			c.stepsTotal,
		)
	}

	return c
}

// Registry returns the registry metrics are registered with, for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordEvaluation records one top-level rule application against one vehicle.
func (c *Collector) RecordEvaluation(kind string, applied bool) {
	if c == nil || !c.enabled {
		return
	}
	label := "false"
	if applied {
		label = "true"
	}
	c.evaluationsTotal.WithLabelValues(kind, label).Inc()
}

// RecordClassification records one classification tag written onto a vehicle.
func (c *Collector) RecordClassification(behaviour string) {
	if c == nil || !c.enabled {
		return
	}
	c.classificationsTotal.WithLabelValues(behaviour).Inc()
}

// RecordApply records one dispatcher apply over a batch.
func (c *Collector) RecordApply(batchSize int, duration time.Duration) {
	if c == nil || !c.enabled {
		return
	}
	c.applyDuration.Observe(duration.Seconds())
	c.applyBatchSize.Observe(float64(batchSize))
}

// SetRuleSetSize records the current number of top-level rules.
func (c *Collector) SetRuleSetSize(n int) {
	if c == nil || !c.enabled {
		return
	}
	c.ruleSetSize.Set(float64(n))
}

// RecordStep records one completed simulation timestep.
func (c *Collector) RecordStep() {
	if c == nil || !c.enabled {
		return
	}
	c.stepsTotal.Inc()
}
