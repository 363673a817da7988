// Package cache provides a small read-through cache with per-entry expiry.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/stockroom/inventory/pkg/clock"
)

// DefaultTTL is how long a loaded value is served before it is reloaded.
const DefaultTTL = 60 * time.Second

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// ReadThrough caches loader results by key until they expire or Invalidate is called.
// Loader errors are returned to the caller and never cached.
type ReadThrough[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[string]entry[T]
	// gen is bumped by Invalidate; a load started under an older gen is not stored.
	gen uint64
}

// New creates a cache. A non-positive ttl falls back to DefaultTTL.
func New[T any](ttl time.Duration, c clock.Clock) *ReadThrough[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if c == nil {
		c = clock.NewRealClock()
	}
	return &ReadThrough[T]{
		ttl:     ttl,
		clock:   c,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the cached value for key, calling load when there is no live entry.
func (c *ReadThrough[T]) Get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	now := c.clock.Now()
	gen := c.gen
	c.mu.Unlock()

	if ok && now.Before(e.expiresAt) {
		return e.value, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.entries[key] = entry[T]{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
	}
	c.mu.Unlock()

	return value, nil
}

// Invalidate drops every entry.
func (c *ReadThrough[T]) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.gen++
	c.mu.Unlock()
}

// Len reports the number of entries currently held, expired ones included.
func (c *ReadThrough[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
