package source

import (
	"context"

	"trafficlab/otlane/pkg/rulecfg"
)

// MemorySource is an in-memory rule specification source for tests and
// programmatic construction.
type MemorySource struct {
	specs []rulecfg.Spec
}

// NewMemorySource creates a source serving the given records.
func NewMemorySource(specs ...rulecfg.Spec) *MemorySource {
	return &MemorySource{specs: specs}
}

// LoadSpecs returns the records stored in memory.
func (s *MemorySource) LoadSpecs(ctx context.Context) ([]rulecfg.Spec, error) {
	specs := make([]rulecfg.Spec, len(s.specs))
	copy(specs, s.specs)
	return specs, nil
}

// Watch returns a channel that never sends events.
func (s *MemorySource) Watch(ctx context.Context) (<-chan Event, error) {
	eventCh := make(chan Event)
	go func() {
		<-ctx.Done()
		close(eventCh)
	}()
	return eventCh, nil
}

// SetSpecs replaces the records served by the source.
func (s *MemorySource) SetSpecs(specs []rulecfg.Spec) {
	s.specs = specs
}
