package source

import (
	"context"

	"trafficlab/otlane/pkg/rulecfg"
)

// Source provides rule specifications to the control loop that owns a
// dispatcher.
type Source interface {
	// LoadSpecs loads all rule specification records from the source.
	LoadSpecs(ctx context.Context) ([]rulecfg.Spec, error)

	// Watch watches for specification changes and sends events on the
	// returned channel. The channel is closed when the context is
	// cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event represents a rule specification change.
type Event struct {
	// Type is the event type.
	Type EventType

	// Path is the file path that changed, if the source is file-backed.
	Path string

	// Error is any error that occurred while processing the change.
	Error error
}

// EventType represents the type of specification change event.
type EventType string

const (
	EventModified EventType = "modified"
	EventRemoved  EventType = "removed"
)
