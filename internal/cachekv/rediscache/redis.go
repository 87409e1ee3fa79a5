// Package rediscache implements a Redis-backed cache backend.
//
// Values are serialized to JSON before storage: primitives encode as
// themselves, structs and maps reduce to their field mapping, and anything
// that cannot be marshaled falls back to its textual representation.
// Entries written with a TTL use the native Redis expiring SET, so no
// background cleanup is needed. The caller owns the client lifecycle.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoardlabs/hoard/internal/cachekv"
)

// Compile-time check that Cache implements cachekv.Backend.
var _ cachekv.Backend = (*Cache)(nil)

// Cache is a Redis-backed cache backend.
type Cache struct {
	client redis.Cmdable
	prefix string
}

// Option configures a Cache.
type Option func(*Cache)

// WithPrefix namespaces all keys under prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache backend on top of an existing client.
func New(client redis.Cmdable, opts ...Option) *Cache {
	c := &Cache{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves the raw stored bytes. A missing key is a miss; decoding is
// left to cachekv.GetAs so that malformed stored bytes degrade to a miss
// rather than an error.
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return raw, true, nil
}

// Set serializes and stores a value. A zero TTL deletes the key, since the
// entry would be expired the instant it was written; negative TTLs store
// without expiry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl == 0 {
		if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	}

	payload := Encode(value)

	expiration := ttl
	if ttl < 0 {
		expiration = 0 // redis: zero expiration means no expiry
	}
	if err := c.client.Set(ctx, c.key(key), payload, expiration).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Encode serializes a value to its portable JSON form. Values that cannot
// be marshaled are reduced to their textual representation.
func Encode(value any) []byte {
	payload, err := json.Marshal(value)
	if err != nil {
		payload, _ = json.Marshal(fmt.Sprint(value))
	}
	return payload
}

func (c *Cache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
