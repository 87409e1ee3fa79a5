package rediscache

import (
	"testing"
)

func TestCache_key(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"no prefix", "", "catalog", "catalog"},
		{"with prefix", "hoard", "catalog", "hoard:catalog"},
		{"nested key", "hoard", "catalog:free", "hoard:catalog:free"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			if tt.prefix != "" {
				WithPrefix(tt.prefix)(c)
			}
			if got := c.key(tt.key); got != tt.want {
				t.Errorf("key(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	type candidate struct {
		ID string `json:"id"`
	}

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "v", `"v"`},
		{"number", 3.5, `3.5`},
		{"struct reduces to field mapping", candidate{ID: "m"}, `{"id":"m"}`},
		{"slice of structs", []candidate{{ID: "a"}, {ID: "b"}}, `[{"id":"a"},{"id":"b"}]`},
		{"map", map[string]any{"prompt": "0"}, `{"prompt":"0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Encode(tt.value)); got != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEncode_UnmarshalableFallsBackToText(t *testing.T) {
	// Channels cannot be marshaled; the value degrades to its textual form.
	got := Encode(make(chan int))
	if len(got) == 0 || got[0] != '"' {
		t.Errorf("Encode() = %s, want quoted textual representation", got)
	}
}
