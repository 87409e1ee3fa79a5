// Package memstore provides an in-memory checkpoint store for testing.
package memstore

import (
	"context"
	"sync"

	"github.com/hoardlabs/hoard/internal/checkpoint"
)

// Compile-time check that Store implements checkpoint.Store.
var _ checkpoint.Store = (*Store)(nil)

// Store is an in-memory checkpoint store for testing.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		blobs: make(map[string][]byte),
	}
}

// Save stores a copy of data under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.blobs[key] = copied
	return nil
}

// Load reads the blob stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, checkpoint.ErrNotFound
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// Len returns the number of stored blobs (for test assertions).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
