package hoard_test

import (
	"context"
	"testing"
	"time"

	"github.com/hoardlabs/hoard"
	"github.com/hoardlabs/hoard/internal/cachekv/memcache"
	"github.com/hoardlabs/hoard/internal/checkpoint/memstore"
)

// TestCatalogToRouterFlow drives the full loop: refresh a catalog, route
// over the filtered candidates, record rewards, and come back up from the
// persisted checkpoint.
func TestCatalogToRouterFlow(t *testing.T) {
	ctx := context.Background()

	fetch := func(ctx context.Context) ([]any, error) {
		return []any{
			map[string]any{
				"id":      "steady",
				"pricing": map[string]any{"prompt": "0", "completion": "0"},
			},
			map[string]any{
				"id":      "flaky",
				"pricing": map[string]any{"prompt": "0", "completion": "0"},
			},
			map[string]any{
				"id":      "premium",
				"pricing": map[string]any{"prompt": "0.002", "completion": "0.006"},
			},
		}, nil
	}

	backend, err := memcache.New(0)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := hoard.NewCatalog(fetch,
		hoard.WithCache(backend),
		hoard.WithTTL(time.Hour),
	)
	if err != nil {
		t.Fatal(err)
	}

	candidates, err := catalog.Refresh(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Refresh() kept %d candidates, want the 2 free ones", len(candidates))
	}

	store := memstore.New()
	router, err := hoard.New(ctx, candidates,
		hoard.WithCheckpoints(store),
		hoard.WithExploration(0.1),
	)
	if err != nil {
		t.Fatal(err)
	}

	// steady succeeds, flaky mostly fails.
	rewards := map[string]float64{"steady": 1.0, "flaky": 0.1}
	for i := 0; i < 20; i++ {
		pick := router.Select()
		if err := router.RecordReward(ctx, pick.ID, rewards[pick.ID]); err != nil {
			t.Fatal(err)
		}
	}
	if pick := router.Select(); pick.ID != "steady" {
		t.Errorf("Select() = %q after training, want %q", pick.ID, "steady")
	}

	// A restarted router resumes from the checkpoint instead of relearning.
	restarted, err := hoard.New(ctx, candidates,
		hoard.WithCheckpoints(store),
		hoard.WithExploration(0.1),
	)
	if err != nil {
		t.Fatal(err)
	}
	state := restarted.State()
	if state["steady"].Pulls+state["flaky"].Pulls != 20 {
		t.Errorf("restored pulls = %d, want 20", state["steady"].Pulls+state["flaky"].Pulls)
	}
	if pick := restarted.Select(); pick.ID != "steady" {
		t.Errorf("restarted Select() = %q, want %q", pick.ID, "steady")
	}
}
