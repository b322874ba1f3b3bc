package component

import "sync"

// Collection is an ordered, keyed collection of items. Items keep their
// insertion position; re-adding an existing key replaces the item in
// place. Safe for concurrent use.
type Collection[T any] struct {
	mu    sync.RWMutex
	keyFn func(T) string
	items []T
	index map[string]int
}

// NewCollection creates a collection whose items are keyed by keyFn.
func NewCollection[T any](keyFn func(T) string) *Collection[T] {
	return &Collection[T]{
		keyFn: keyFn,
		index: make(map[string]int),
	}
}

// Add inserts items in order. An item whose key is already present
// replaces the existing item without moving it.
func (c *Collection[T]) Add(items ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		key := c.keyFn(item)
		if i, ok := c.index[key]; ok {
			c.items[i] = item
			continue
		}
		c.index[key] = len(c.items)
		c.items = append(c.items, item)
	}
}

// Get returns the item with the given key.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	i, ok := c.index[key]
	if !ok {
		return zero, false
	}
	return c.items[i], true
}

// At returns the item at position i.
func (c *Collection[T]) At(i int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, false
	}
	return c.items[i], true
}

// Find returns the first item in insertion order satisfying pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Remove deletes the item with the given key and reports whether it
// was present.
func (c *Collection[T]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, key)
	for k, j := range c.index {
		if j > i {
			c.index[k] = j - 1
		}
	}
	return true
}

// Items returns a copy of the items in insertion order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
