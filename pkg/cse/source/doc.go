// Package source provides rule specification sources for the dispatcher.
//
// A Source loads declarative rule records and can watch for changes so the
// owning control loop can swap the dispatcher's rule set between simulation
// timesteps. Reloads are all-or-nothing: a malformed specification keeps
// the previously active rule set.
//
// Two implementations are provided: MemorySource for tests and programmatic
// construction, and FileSource for YAML specification files on disk with
// debounced fsnotify change events.
package source
