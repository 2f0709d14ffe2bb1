// Package simulation drives the per-timestep control loop around the
// dispatcher.
//
// Each timestep the runner pulls the active vehicle snapshots from a
// TelemetryFeed, applies the dispatcher's rule set, and forwards the
// resulting classifications through a ClassificationSink. Rule set changes
// happen strictly between timesteps: watched specification files and
// cron-scheduled rule profiles are both checked at the top of the loop.
//
// The package ships a synthetic feed (Spawner) so the loop can run without
// an external traffic simulator attached; a real simulator integration
// implements TelemetryFeed and ClassificationSink against its own process
// and telemetry channels.
package simulation
