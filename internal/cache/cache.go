// Package cache holds the in-memory authoritative copy of each fetched
// resource kind. Caches are never patched incrementally: every successful
// fetch replaces the whole slice, and staleness is handled entirely by the
// refresh coordinators.
package cache

import "sync"

// Cache is a snapshot store for one resource kind. Get returns a copy, so a
// reader can never observe a partially applied Replace. A freshly created
// cache reports loading with no data, matching the initial fetch that every
// resource kind performs at startup.
type Cache[T any] struct {
	mu      sync.RWMutex
	data    []T
	loading bool
}

// New returns an empty cache in the loading state.
func New[T any]() *Cache[T] {
	return &Cache[T]{loading: true}
}

// Get returns a point-in-time snapshot of the data and the loading flag.
// The returned slice is the caller's to keep.
func (c *Cache[T]) Get() ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.data))
	copy(out, c.data)
	return out, c.loading
}

// Len reports the current number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// SetLoading flips the loading flag without touching the data.
func (c *Cache[T]) SetLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// Replace swaps in a full copy of data atomically.
func (c *Cache[T]) Replace(data []T) {
	copied := make([]T, len(data))
	copy(copied, data)
	c.mu.Lock()
	c.data = copied
	c.mu.Unlock()
}
