// Package diskstore implements a filesystem checkpoint store.
package diskstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hoardlabs/hoard/internal/checkpoint"
	"github.com/hoardlabs/hoard/internal/codec"
)

// Compile-time check that Store implements checkpoint.Store.
var _ checkpoint.Store = (*Store)(nil)

// Store is a filesystem checkpoint store rooted at a base directory.
// Keys map to paths under the root; parent directories are created as
// needed. The codec compresses blobs at rest.
type Store struct {
	root  string
	codec codec.Codec
}

// New creates a new disk store rooted at the given directory,
// creating it if it does not exist.
func New(root string, c codec.Codec) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}

	return &Store{
		root:  root,
		codec: c,
	}, nil
}

// Save compresses and writes data under key, replacing any existing file.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	encoded, err := codec.Encode(s.codec, data)
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}

	path := s.blobPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent directories: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}

	return nil
}

// Load reads and decompresses the blob stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	encoded, err := os.ReadFile(s.blobPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, checkpoint.ErrNotFound
		}
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}

	data, err := codec.Decode(s.codec, encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding checkpoint: %w", err)
	}

	return data, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// blobPath returns the filesystem path for a key.
func (s *Store) blobPath(key string) string {
	name := key
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return filepath.Join(s.root, filepath.FromSlash(name))
}
