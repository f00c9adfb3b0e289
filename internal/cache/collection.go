// Package cache provides an in-memory per-owner collection cache.
//
// Services keep one Collection per record type. A collection for an owner is
// fetched at most once; after that, mutations reconcile the cached copy only
// when the backing store reports success, so a failed write never desyncs
// the cache.
package cache

import "sync"

// Collection caches slices of records keyed by owner ID.
// The key function extracts each record's unique ID.
type Collection[T any] struct {
	mu    sync.RWMutex
	byOwn map[string][]T
	keyFn func(T) string
}

// NewCollection creates a collection cache using keyFn to identify records.
func NewCollection[T any](keyFn func(T) string) *Collection[T] {
	return &Collection[T]{
		byOwn: make(map[string][]T),
		keyFn: keyFn,
	}
}

// Get returns the owner's cached records, fetching them with fetch on first
// access. A fetch error is returned as-is and nothing is cached.
func (c *Collection[T]) Get(ownerID string, fetch func() ([]T, error)) ([]T, error) {
	c.mu.RLock()
	items, ok := c.byOwn[ownerID]
	c.mu.RUnlock()
	if ok {
		return c.snapshot(items), nil
	}

	fetched, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// Another goroutine may have fetched while we were; keep the first copy.
	if existing, ok := c.byOwn[ownerID]; ok {
		items = existing
	} else {
		c.byOwn[ownerID] = fetched
		items = fetched
	}
	c.mu.Unlock()

	return c.snapshot(items), nil
}

// Cached returns the owner's records without fetching.
// The second return reports whether the owner has been loaded.
func (c *Collection[T]) Cached(ownerID string) ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.byOwn[ownerID]
	if !ok {
		return nil, false
	}
	return c.snapshot(items), true
}

// Upsert inserts or replaces a record in the owner's cached collection.
// New records are prepended. No-op if the owner was never loaded.
func (c *Collection[T]) Upsert(ownerID string, item T) {
	key := c.keyFn(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	items, ok := c.byOwn[ownerID]
	if !ok {
		return
	}

	for i := range items {
		if c.keyFn(items[i]) == key {
			items[i] = item
			return
		}
	}
	c.byOwn[ownerID] = append([]T{item}, items...)
}

// Remove deletes a record from the owner's cached collection by ID.
// No-op if the owner was never loaded or the ID is absent.
func (c *Collection[T]) Remove(ownerID, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, ok := c.byOwn[ownerID]
	if !ok {
		return
	}

	for i := range items {
		if c.keyFn(items[i]) == id {
			c.byOwn[ownerID] = append(items[:i:i], items[i+1:]...)
			return
		}
	}
}

// Invalidate drops the owner's cached collection, forcing a refetch.
func (c *Collection[T]) Invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byOwn, ownerID)
}

func (c *Collection[T]) snapshot(items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
