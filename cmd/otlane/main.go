// Otlane is a rule-based control side environment for overtaking-lane
// access in vehicle simulations.
//
// It evaluates a composable rule set against per-timestep vehicle telemetry
// and decides, vehicle by vehicle, who may use the dedicated overtaking
// lane:
//   - Declarative YAML rule sets with boolean composition
//   - Hot reload and cron-scheduled rule profiles
//   - A synthetic vehicle feed for running without an external simulator
//   - Prometheus metrics and a SQLite run results journal
//
// Usage:
//
//	# Run a simulation with the default configuration
//	otlane run
//
//	# Run with a custom configuration file
//	otlane run --config /path/to/config.yaml
//
//	# Validate rule specification files
//	otlane lint --file rules.yaml
//
//	# Show version information
//	otlane version
package main

func main() {
	Execute()
}
