// Package cachekv defines the key/value cache backend interface used by the
// catalog to bound upstream fetches.
package cachekv

import (
	"context"
	"encoding/json"
	"time"
)

// NoTTL marks an entry that never expires.
//
// TTL semantics for Set: NoTTL (or any negative duration) means the entry
// never expires; zero means the entry is expired as soon as it is written;
// positive durations expire the entry that far in the future.
const NoTTL time.Duration = -1

// Backend is a key/value store with optional per-entry TTL.
// Implementations storing values out of process serialize them to a
// portable text form; Get then yields the raw bytes and GetAs decodes them.
type Backend interface {
	// Get retrieves a value. The second return is false when the key is
	// absent or its entry has expired.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// GetAs retrieves a value and converts it to T. In-process backends return
// the stored value directly; serialized backends return []byte which is
// decoded as JSON. Undecodable stored bytes are treated as a miss, never an
// error.
func GetAs[T any](ctx context.Context, b Backend, key string) (T, bool, error) {
	var zero T

	v, ok, err := b.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	switch val := v.(type) {
	case T:
		return val, true, nil
	case []byte:
		var out T
		if err := json.Unmarshal(val, &out); err != nil {
			return zero, false, nil
		}
		return out, true, nil
	case string:
		var out T
		if err := json.Unmarshal([]byte(val), &out); err != nil {
			return zero, false, nil
		}
		return out, true, nil
	}

	return zero, false, nil
}
