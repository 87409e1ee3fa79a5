package hoard

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/hoardlabs/hoard/internal/checkpoint/memstore"
)

func testCandidates(ids ...string) []Candidate {
	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		candidates = append(candidates, Candidate{ID: id})
	}
	return candidates
}

func TestNewNoCandidates(t *testing.T) {
	_, err := New(context.Background(), nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("New(nil) error = %v, want ErrNoCandidates", err)
	}
}

func TestSelectColdStart(t *testing.T) {
	r, err := New(context.Background(), testCandidates("a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}

	pick := r.Select()
	if pick.ID != "a" {
		t.Errorf("cold start Select() = %q, want first candidate %q", pick.ID, "a")
	}
}

func TestSelectForcesExploration(t *testing.T) {
	ctx := context.Background()
	r, err := New(ctx, testCandidates("a", "b"))
	if err != nil {
		t.Fatal(err)
	}

	// A perfect reward for "a" must not starve the never-pulled "b".
	if err := r.RecordReward(ctx, "a", 1.0); err != nil {
		t.Fatal(err)
	}
	pick := r.Select()
	if pick.ID != "b" {
		t.Errorf("Select() = %q, want unexplored %q", pick.ID, "b")
	}
}

func TestSelectIsStable(t *testing.T) {
	ctx := context.Background()
	r, err := New(ctx, testCandidates("a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}

	// Identical statistics tie every score; the earliest candidate wins.
	for _, id := range []string{"a", "b", "c"} {
		if err := r.RecordReward(ctx, id, 0.5); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 5; i++ {
		if pick := r.Select(); pick.ID != "a" {
			t.Fatalf("tied Select() = %q, want %q", pick.ID, "a")
		}
	}
}

func TestRecordRewardAccumulates(t *testing.T) {
	ctx := context.Background()
	r, err := New(ctx, testCandidates("a"))
	if err != nil {
		t.Fatal(err)
	}

	rewards := []float64{0.2, 0.9, 0.4}
	var sum float64
	for _, reward := range rewards {
		if err := r.RecordReward(ctx, "a", reward); err != nil {
			t.Fatal(err)
		}
		sum += reward
	}

	s := r.State()["a"]
	if s.Pulls != len(rewards) {
		t.Errorf("Pulls = %d, want %d", s.Pulls, len(rewards))
	}
	if s.RewardSum != sum {
		t.Errorf("RewardSum = %v, want %v", s.RewardSum, sum)
	}
	if mean := s.MeanReward(); mean < 0.2 || mean > 0.9 {
		t.Errorf("MeanReward() = %v, want within observed reward range", mean)
	}
}

func TestRecordRewardUnknownID(t *testing.T) {
	ctx := context.Background()
	r, err := New(ctx, testCandidates("a"))
	if err != nil {
		t.Fatal(err)
	}

	if err := r.RecordReward(ctx, "ghost", 1.0); err != nil {
		t.Fatal(err)
	}
	s, ok := r.State()["ghost"]
	if !ok {
		t.Fatal("unknown id not admitted into state")
	}
	if s.Pulls != 1 || s.RewardSum != 1.0 {
		t.Errorf("ghost stats = %+v, want {Pulls:1 RewardSum:1}", s)
	}
}

func TestRecordRewardConcurrent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	candidates := testCandidates("a", "b")

	r, err := New(ctx, candidates, WithCheckpoints(store))
	if err != nil {
		t.Fatal(err)
	}

	const workers, perWorker = 8, 250
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := r.RecordReward(ctx, "a", 1.0); err != nil {
					t.Errorf("RecordReward: %v", err)
					return
				}
				_ = r.Select()
			}
		}()
	}
	wg.Wait()

	want := workers * perWorker
	s := r.State()["a"]
	if s.Pulls != want {
		t.Errorf("Pulls = %d, want %d (lost increments)", s.Pulls, want)
	}
	if s.RewardSum != float64(want) {
		t.Errorf("RewardSum = %v, want %v", s.RewardSum, float64(want))
	}

	// The last persisted snapshot must carry every increment too.
	reloaded, err := New(ctx, candidates, WithCheckpoints(store))
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.State()["a"].Pulls; got != want {
		t.Errorf("reloaded Pulls = %d, want %d", got, want)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	candidates := testCandidates("a", "b")

	r, err := New(ctx, candidates, WithCheckpoints(store))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordReward(ctx, "a", 0.7); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordReward(ctx, "b", 0.3); err != nil {
		t.Fatal(err)
	}

	reloaded, err := New(ctx, candidates, WithCheckpoints(store))
	if err != nil {
		t.Fatal(err)
	}
	state := reloaded.State()
	if state["a"] != (Stats{Pulls: 1, RewardSum: 0.7}) {
		t.Errorf("a = %+v after reload", state["a"])
	}
	if state["b"] != (Stats{Pulls: 1, RewardSum: 0.3}) {
		t.Errorf("b = %+v after reload", state["b"])
	}
}

func TestCheckpointWireFormat(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	r, err := New(ctx, testCandidates("a"), WithCheckpoints(store), WithCheckpointKey("snap.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordReward(ctx, "a", 0.5); err != nil {
		t.Fatal(err)
	}

	data, err := store.Load(ctx, "snap.json")
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"experts", "state"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("snapshot missing %q key", key)
		}
	}

	var state map[string]map[string]float64
	if err := json.Unmarshal(raw["state"], &state); err != nil {
		t.Fatal(err)
	}
	if state["a"]["pulls"] != 1 || state["a"]["reward_sum"] != 0.5 {
		t.Errorf("state.a = %v, want pulls=1 reward_sum=0.5", state["a"])
	}
}

func TestStaleCheckpointIDs(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	// Persist state for a candidate, then reload with it gone.
	r, err := New(ctx, testCandidates("a", "gone"), WithCheckpoints(store))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordReward(ctx, "gone", 1.0); err != nil {
		t.Fatal(err)
	}

	reloaded, err := New(ctx, testCandidates("a", "b"), WithCheckpoints(store))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reloaded.State()["gone"]; !ok {
		t.Error("stale id dropped from state, want it preserved")
	}
	for i := 0; i < 10; i++ {
		if err := reloaded.RecordReward(ctx, reloaded.Select().ID, 0.5); err != nil {
			t.Fatal(err)
		}
		if pick := reloaded.Select(); pick.ID == "gone" {
			t.Fatal("stale id returned by Select()")
		}
	}
}

func TestUndecodableCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	if err := store.Save(ctx, "router_state.json", []byte("not json")); err != nil {
		t.Fatal(err)
	}

	r, err := New(ctx, testCandidates("a"), WithCheckpoints(store))
	if err != nil {
		t.Fatalf("New() with garbage checkpoint error = %v, want nil", err)
	}
	if len(r.State()) != 0 {
		t.Errorf("state = %v, want empty after undecodable checkpoint", r.State())
	}
}

func TestScoreMinPulls(t *testing.T) {
	ctx := context.Background()
	r, err := New(ctx, testCandidates("a", "b"), WithMinPulls(3))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordReward(ctx, "a", 1.0); err != nil {
		t.Fatal(err)
	}
	if got := r.score("a", 1); !math.IsInf(got, 1) {
		t.Errorf("score below min pulls = %v, want +Inf", got)
	}
}

func TestConvergesOnBetterCandidate(t *testing.T) {
	ctx := context.Background()
	r, err := New(ctx, testCandidates("a", "b"), WithExploration(0.1))
	if err != nil {
		t.Fatal(err)
	}

	if err := r.RecordReward(ctx, "a", 0.0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		if err := r.RecordReward(ctx, "b", 1.0); err != nil {
			t.Fatal(err)
		}
	}

	if pick := r.Select(); pick.ID != "b" {
		t.Errorf("Select() = %q, want consistently rewarded %q", pick.ID, "b")
	}
}
