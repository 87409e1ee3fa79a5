// Package gcsstore implements a Google Cloud Storage checkpoint store.
package gcsstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/hoardlabs/hoard/internal/checkpoint"
	"github.com/hoardlabs/hoard/internal/codec"
)

// Compile-time check that Store implements checkpoint.Store.
var _ checkpoint.Store = (*Store)(nil)

// Store is a Google Cloud Storage checkpoint store.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	codec  codec.Codec
}

// New creates a new GCS store.
// The bucket must already exist. The codec compresses blobs at rest.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: client.Bucket(bucketName),
		codec:  c,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// Save compresses and uploads data under key, replacing any existing object.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	obj := s.bucket.Object(s.objectKey(key))
	w := obj.NewWriter(ctx)

	cw, err := s.codec.Writer(w)
	if err != nil {
		w.Close()
		return fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := cw.Write(data); err != nil {
		cw.Close()
		w.Close()
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := cw.Close(); err != nil {
		w.Close()
		return fmt.Errorf("closing compressor: %w", err)
	}

	return w.Close()
}

// Load reads and decompresses the object stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	obj := s.bucket.Object(s.objectKey(key))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, checkpoint.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()

	decompressor, err := s.codec.Reader(reader)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer decompressor.Close()

	data, err := io.ReadAll(decompressor)
	if err != nil {
		return nil, fmt.Errorf("decompressing checkpoint: %w", err)
	}

	return data, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// objectKey returns the full object key for a checkpoint key.
func (s *Store) objectKey(key string) string {
	name := key
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return s.prefix + name
}
