package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/hoardlabs/hoard/internal/checkpoint"
)

func TestStore_SaveLoad(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Save(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Load() = %q, want %q", got, "v2")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	s := New()
	_, err := s.Load(context.Background(), "missing")
	if !errors.Is(err, checkpoint.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestStore_CopiesData(t *testing.T) {
	s := New()
	ctx := context.Background()

	data := []byte("original")
	if err := s.Save(ctx, "k", data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data[0] = 'X' // caller mutation must not leak into the store

	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "original" {
		t.Errorf("Load() = %q, want %q", got, "original")
	}
}
