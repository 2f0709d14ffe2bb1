package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"trafficlab/otlane/pkg/rulecfg"
)

// FileSource loads rule specifications from YAML files on disk.
// The path can be a single file or a directory; for a directory all .yaml
// and .yml files are loaded in lexical walk order.
type FileSource struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration
}

// NewFileSource creates a file-backed rule specification source.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:     path,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}
}

// LoadSpecs loads all rule records from the configured path.
func (s *FileSource) LoadSpecs(ctx context.Context) ([]rulecfg.Spec, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %q: %w", s.path, err)
	}

	var specs []rulecfg.Spec
	if info.IsDir() {
		specs, err = s.loadDirectory()
	} else {
		specs, err = s.loadFile(s.path)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("loaded rule specifications",
		"path", s.path,
		"rule_count", len(specs),
	)
	return specs, nil
}

// loadDirectory loads every specification file in the directory.
func (s *FileSource) loadDirectory() ([]rulecfg.Spec, error) {
	var specs []rulecfg.Spec

	err := filepath.Walk(s.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSpecFile(path) {
			return nil
		}
		fileSpecs, err := s.loadFile(path)
		if err != nil {
			// A malformed file fails the whole load; partial rule sets
			// are worse than keeping the previous one.
			return err
		}
		specs = append(specs, fileSpecs...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load rule directory %q: %w", s.path, err)
	}

	return specs, nil
}

// loadFile loads one specification file.
func (s *FileSource) loadFile(path string) ([]rulecfg.Spec, error) {
	doc, err := rulecfg.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Rules, nil
}

// Watch watches the configured path for changes and sends debounced events.
// The channel is closed when the context is cancelled.
func (s *FileSource) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(watchRoot(s.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", s.path, err)
	}

	eventCh := make(chan Event)

	go func() {
		defer close(eventCh)
		defer watcher.Close()

		var timer *time.Timer
		var pending Event

		fire := func() <-chan time.Time {
			if timer == nil {
				return nil
			}
			return timer.C
		}

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.relevant(ev.Name) {
					continue
				}
				eventType := EventModified
				if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
					eventType = EventRemoved
				}
				pending = Event{Type: eventType, Path: ev.Name}
				// Editors produce bursts of writes; collapse them.
				if timer == nil {
					timer = time.NewTimer(s.debounce)
				} else {
					timer.Reset(s.debounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("rule watcher error", "error", err)

			case <-fire():
				timer = nil
				select {
				case eventCh <- pending:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return eventCh, nil
}

// relevant reports whether a change to name concerns this source.
func (s *FileSource) relevant(name string) bool {
	if name == s.path {
		return true
	}
	info, err := os.Stat(s.path)
	if err == nil && !info.IsDir() {
		return false
	}
	return isSpecFile(name)
}

// watchRoot returns the directory to register with fsnotify. Watching the
// parent of a single file survives atomic replace-by-rename saves.
func watchRoot(path string) string {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// isSpecFile reports whether path looks like a rule specification file.
func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
