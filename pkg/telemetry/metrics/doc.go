// Package metrics provides Prometheus metrics for the rule engine and the
// simulation loop.
//
// The Collector registers all metrics against an injectable registry so
// tests can assert on values without touching global state:
//
//	registry := prometheus.NewRegistry()
//	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, registry)
//	collector.RecordApply(12, 2*time.Millisecond)
//
// Metrics (namespace/subsystem configurable, default otlane/cse):
//   - rule_evaluations_total{kind, applied}
//   - classifications_total{behaviour}
//   - apply_duration_seconds
//   - apply_batch_size
//   - rule_set_size
//   - simulation_steps_total
package metrics
