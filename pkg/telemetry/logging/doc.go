// Package logging constructs the structured slog logger used across the
// engine and the simulation loop.
//
// The logger is configured with a level and an output format (json, text,
// console). Components accept a *slog.Logger and fall back to
// slog.Default() when given nil, so the logger is injected once at startup:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "console"})
package logging
