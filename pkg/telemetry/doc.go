// Package telemetry groups the observability subpackages of otlane.
//
// # Components
//
//   - logging: structured logging on log/slog
//   - metrics: Prometheus metrics collection
//   - tracing: OpenTelemetry distributed tracing
//
// # Usage
//
//	logger, err := logging.New(cfg.Logging)
//
//	collector := metrics.NewCollector(&cfg.Metrics.Config, prometheus.NewRegistry())
//	collector.RecordStep()
//
//	tracer, err := tracing.New(&cfg.Tracing)
//	ctx, span := tracer.Start(ctx, "otlane.timestep")
//	defer span.End()
//
// Every consumer tolerates a disabled or absent component: a nil metrics
// collector records nothing and a disabled tracer yields noop spans, so the
// simulation loop carries no conditionals around its instrumentation.
package telemetry
