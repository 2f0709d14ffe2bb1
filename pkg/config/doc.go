// Package config defines the application configuration for otlane.
//
// Configuration is loaded from a YAML file, filled with defaults, and
// validated before anything else starts:
//
//	cfg, err := config.LoadFile("config.yaml")
//
// The zero value plus Default() is a runnable configuration with logging to
// stdout, metrics and tracing disabled, an empty rule set, and a short
// synthetic simulation.
package config
