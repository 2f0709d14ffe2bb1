// Package tracing initializes OpenTelemetry tracing for the simulation loop.
//
// When enabled, the runner opens one span per simulation timestep around the
// dispatcher apply, carrying the step number, batch size and rule set size
// as attributes. Spans are exported over OTLP/gRPC. Disabled tracing yields
// a noop tracer with negligible overhead.
package tracing
