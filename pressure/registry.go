package pressure

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry is an explicit cache-by-name store passed by reference to
// whichever component needs it. It replaces ambient global cache state: the
// registry itself is safe for concurrent use, but the caches it hands out
// remain caller-owned and caller-serialized.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

type registryEntry struct {
	id    string
	cache Cache
}

// NewRegistry creates an empty cache registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register stores a cache under a name and returns its registration ID.
// Registering an existing name is an error; callers remove first.
func (r *Registry) Register(name string, cache Cache) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return "", fmt.Errorf("cache %q already registered", name)
	}
	id := uuid.NewString()
	r.entries[name] = registryEntry{id: id, cache: cache}
	return id, nil
}

// Get returns the cache registered under name, or false if absent.
func (r *Registry) Get(name string) (Cache, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	return entry.cache, ok
}

// Remove evicts a single named cache. Returns false if it was not present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	return true
}

// Clear evicts every cache. The caches themselves are untouched; ownership
// stays with their sessions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]registryEntry)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Caches returns the registered caches ordered by name, for batch
// operations such as Monitor.Tick and Monitor.ForceCleanup.
func (r *Registry) Caches() []Cache {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	caches := make([]Cache, 0, len(names))
	for _, name := range names {
		caches = append(caches, r.entries[name].cache)
	}
	return caches
}

// Len returns the number of registered caches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
