package gcsstore

import (
	"testing"

	"github.com/hoardlabs/hoard/internal/codec/noopcodec"
	"github.com/hoardlabs/hoard/internal/codec/zstdcodec"
)

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := &Store{}
			opt := WithPrefix(tt.input)
			opt(s)
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestStore_objectKey(t *testing.T) {
	s := &Store{codec: zstdcodec.New()}

	tests := []struct {
		key  string
		want string
	}{
		{"router_state.json", "router_state.json.zst"},
		{"routers/chat/state.json", "routers/chat/state.json.zst"},
	}

	for _, tt := range tests {
		if got := s.objectKey(tt.key); got != tt.want {
			t.Errorf("objectKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestStore_objectKey_WithPrefix(t *testing.T) {
	s := &Store{codec: noopcodec.New()}
	WithPrefix("checkpoints/v1")(s)

	got := s.objectKey("router_state.json")
	want := "checkpoints/v1/router_state.json"
	if got != want {
		t.Errorf("objectKey = %q, want %q", got, want)
	}
}
