package gzipcodec

import (
	"bytes"
	"testing"

	"github.com/hoardlabs/hoard/internal/codec"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "gz" {
		t.Errorf("Extension() = %q, want %q", got, "gz")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := []byte(`{"experts":[{"id":"a","metadata":null}],"state":{"a":{"pulls":3,"reward_sum":2.5}}}`)

	compressed, err := codec.Encode(c, original)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decompressed, err := codec.Decode(c, compressed)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !bytes.Equal(decompressed, original) {
		t.Errorf("Round-trip failed: got %q, want %q", decompressed, original)
	}
}

func TestCodec_RoundTrip_LargeData(t *testing.T) {
	c := New()
	original := bytes.Repeat([]byte(`{"pulls":1,"reward_sum":0.5}`), 10000)

	compressed, err := codec.Encode(c, original)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// Verify compression ratio for repetitive data.
	if len(compressed) >= len(original) {
		t.Errorf("Expected compression, got %d bytes from %d bytes", len(compressed), len(original))
	}

	decompressed, err := codec.Decode(c, compressed)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !bytes.Equal(decompressed, original) {
		t.Error("Round-trip failed for large data")
	}
}

func TestCodec_RoundTrip_EmptyData(t *testing.T) {
	c := New()

	compressed, err := codec.Encode(c, nil)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decompressed, err := codec.Decode(c, compressed)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(decompressed) != 0 {
		t.Errorf("Round-trip failed for empty data: got %q", decompressed)
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c := New()

	if _, err := codec.Decode(c, []byte("not gzip data")); err == nil {
		t.Error("Decode() expected error for invalid gzip data, got nil")
	}
}
