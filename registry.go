// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gbm

import (
	"sort"
	"sync"

	"github.com/gogpu/gbm/drm"
)

// BackendFactory creates a backend bound to an open device node.
type BackendFactory func(f *drm.File) Backend

// RegistryEntry represents a registered backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority decides between backends claiming the same driver
	// (higher = preferred).
	Priority int

	// Factory creates backend instances.
	Factory BackendFactory

	// Match reports whether the backend drives the named kernel driver.
	Match func(driver string) bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry maps kernel drivers to backends.
//
// Backends register themselves from an init function:
//
//	func init() {
//	    gbm.Register("vc4", 100, newBackend, nil)
//	}
//
// and are pulled in with a blank import:
//
//	import _ "github.com/gogpu/gbm/backend/vc4"
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Open.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
//
// If match is nil, the backend matches the driver whose name equals name.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory BackendFactory, match func(driver string) bool) {
	globalRegistry.Register(name, priority, factory, match)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Backends returns all registered backend names sorted by priority.
func Backends() []string {
	return globalRegistry.List()
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory BackendFactory, match func(driver string) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if match == nil {
		match = func(driver string) bool { return driver == name }
	}

	r.entries[name] = &RegistryEntry{
		Name:     name,
		Priority: priority,
		Factory:  factory,
		Match:    match,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sorted()
	names := make([]string, len(sorted))
	for i, e := range sorted {
		names[i] = e.Name
	}
	return names
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// ForDriver returns the highest priority backend matching driver.
func (r *Registry) ForDriver(driver string) (*RegistryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.sorted() {
		if e.Match(driver) {
			entryCopy := *e
			return &entryCopy, nil
		}
	}
	return nil, &BackendNotFoundError{Driver: driver}
}

// sorted returns entries by priority (highest first), then by name.
// Must be called with lock held.
func (r *Registry) sorted() []*RegistryEntry {
	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// BackendNotFoundError indicates no registered backend drives a kernel driver.
type BackendNotFoundError struct {
	Driver string
}

func (e *BackendNotFoundError) Error() string {
	return "gbm: no backend for driver: " + e.Driver
}
