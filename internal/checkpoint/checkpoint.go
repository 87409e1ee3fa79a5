// Package checkpoint defines the storage interface for durable router
// state snapshots.
package checkpoint

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no checkpoint exists under the given key.
var ErrNotFound = errors.New("checkpoint: not found")

// Store persists named blobs. Save overwrites any previous blob under the
// same key; Load returns ErrNotFound when the key has never been saved.
type Store interface {
	// Save writes data under key, replacing any existing blob.
	Save(ctx context.Context, key string, data []byte) error

	// Load reads the blob stored under key.
	Load(ctx context.Context, key string) ([]byte, error)

	// Close releases any resources held by the store.
	Close() error
}
