package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validSpec = `
rules:
  - type: minimal_speed
    args:
      minimal_speed: 22.2
    behaviour: allow
`

const secondSpec = `
rules:
  - type: vehicle_type
    args:
      vehicle_type: truck
    behaviour: deny
`

// TestFileSource_LoadFile tests loading a single specification file.
func TestFileSource_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(validSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileSource(path, nil)
	specs, err := s.LoadSpecs(context.Background())
	if err != nil {
		t.Fatalf("LoadSpecs: %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("len(specs) = %d, want 1", len(specs))
	}
	if specs[0].Type != "minimal_speed" {
		t.Errorf("specs[0].Type = %q, want minimal_speed", specs[0].Type)
	}
}

// TestFileSource_LoadDirectory tests loading every spec file in a directory.
func TestFileSource_LoadDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(validSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte(secondSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	// Non-spec files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("irrelevant"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileSource(dir, nil)
	specs, err := s.LoadSpecs(context.Background())
	if err != nil {
		t.Fatalf("LoadSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Errorf("len(specs) = %d, want 2", len(specs))
	}
}

// TestFileSource_MalformedFileFailsLoad tests that one bad file fails the
// whole directory load.
func TestFileSource_MalformedFileFailsLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(validSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("rules: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileSource(dir, nil)
	if _, err := s.LoadSpecs(context.Background()); err == nil {
		t.Error("LoadSpecs must fail when any file is malformed")
	}
}

// TestFileSource_MissingPath tests the error for a nonexistent path.
func TestFileSource_MissingPath(t *testing.T) {
	s := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if _, err := s.LoadSpecs(context.Background()); err == nil {
		t.Error("LoadSpecs must fail for a missing path")
	}
}

// TestFileSource_Watch tests that a file change produces a debounced event.
func TestFileSource_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(validSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewFileSource(path, nil)
	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(path, []byte(secondSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Type != EventModified {
			t.Errorf("event type = %v, want %v", ev.Type, EventModified)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

// TestFileSource_WatchClosesOnCancel tests channel closure on context cancel.
func TestFileSource_WatchClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(validSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := NewFileSource(path, nil)
	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cancel()

	select {
	case _, ok := <-events:
		if ok {
			// An in-flight event may arrive first; the channel must
			// still close afterwards.
			select {
			case _, ok := <-events:
				if ok {
					t.Error("expected channel to close after cancel")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for channel close")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

// TestMemorySource tests the in-memory source.
func TestMemorySource(t *testing.T) {
	s := NewMemorySource()
	specs, err := s.LoadSpecs(context.Background())
	if err != nil {
		t.Fatalf("LoadSpecs: %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("len(specs) = %d, want 0", len(specs))
	}

	ctx, cancel := context.WithCancel(context.Background())
	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	cancel()
	if _, ok := <-events; ok {
		t.Error("memory source watch channel must close on cancel")
	}
}
