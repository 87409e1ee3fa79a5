// Package memcache implements an in-memory cache backend with lazy
// per-entry expiry and an LRU capacity bound.
package memcache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hoardlabs/hoard/internal/cachekv"
)

// Compile-time check that Cache implements cachekv.Backend.
var _ cachekv.Backend = (*Cache)(nil)

// DefaultCapacity bounds the number of entries when no capacity is given.
const DefaultCapacity = 1024

// Cache is a thread-safe in-memory cache backend. Expiry is computed at
// write time and checked lazily on read; there is no background sweep.
type Cache struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time // zero means the entry never expires
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a new in-memory cache with the given entry capacity.
// Capacity <= 0 uses DefaultCapacity.
func New(capacity int, opts ...Option) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		entries: entries,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get retrieves a value, evicting it when expired.
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(c.now()) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a value. The value is kept as-is, without serialization.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	e := entry{value: value}
	if ttl >= 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries.Add(key, e)
	return nil
}

// Len returns the number of entries, including any not yet lazily expired.
func (c *Cache) Len() int {
	return c.entries.Len()
}
