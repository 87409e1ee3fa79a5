// Package hoard provides an adaptive selection cache: a freshness-bounded
// catalog of candidates fetched from an upstream provider, and a UCB1
// bandit router that learns which candidate to pick next, persisting its
// statistics across restarts.
//
// Example usage:
//
//	catalog, err := hoard.NewCatalog(fetch, hoard.WithTTL(time.Hour))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	candidates, err := catalog.Refresh(ctx, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	router, err := hoard.New(ctx, candidates,
//	    hoard.WithCheckpoints(store),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pick := router.Select()
//	// ... call the picked candidate, observe how it performed ...
//	if err := router.RecordReward(ctx, pick.ID, reward); err != nil {
//	    log.Fatal(err)
//	}
package hoard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/hoardlabs/hoard/internal/checkpoint"
	"github.com/hoardlabs/hoard/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoCandidates indicates a router was constructed without candidates.
	ErrNoCandidates = errors.New("hoard: no candidates")

	// ErrNoFetch indicates a catalog was constructed without a fetch function.
	ErrNoFetch = errors.New("hoard: no fetch function provided")
)

// Router selects candidates with the UCB1 bandit policy and checkpoints
// its learned statistics after every recorded reward.
// A Router is safe for concurrent use by multiple goroutines.
type Router struct {
	candidates  []Candidate
	store       checkpoint.Store
	key         string
	minPulls    int
	exploration float64
	stats       stats.Collector
	logger      *zap.Logger

	mu    sync.Mutex
	state map[string]Stats
}

// checkpointPayload is the persisted snapshot. The field names are the
// wire format and must not change; "experts" is the historical name for
// candidates.
type checkpointPayload struct {
	Experts []Candidate      `json:"experts"`
	State   map[string]Stats `json:"state"`
}

// New creates a Router over a fixed candidate list, reloading any
// previously persisted statistics from the checkpoint store. A missing or
// unreadable checkpoint yields an all-zero initial state.
func New(ctx context.Context, candidates []Candidate, opts ...Option) (*Router, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	r := &Router{
		candidates:  append([]Candidate(nil), candidates...),
		store:       cfg.store,
		key:         cfg.checkpointKey,
		minPulls:    cfg.minPulls,
		exploration: cfg.exploration,
		stats:       cfg.stats,
		logger:      cfg.logger,
		state:       make(map[string]Stats, len(candidates)),
	}

	r.load(ctx)
	r.stats.SetGauge(stats.MetricCandidates, int64(len(r.candidates)))

	r.logger.Debug("router initialized",
		zap.Int("candidates", len(r.candidates)),
		zap.Float64("exploration", r.exploration),
		zap.Int("minPulls", r.minPulls),
	)

	return r, nil
}

// Select returns the candidate to use next. With no recorded pulls it
// returns the first candidate; otherwise it scores each candidate with
// UCB1 and returns the stable argmax over the fixed candidate order.
// Select never mutates persisted state.
func (r *Router) Select() Candidate {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.IncCounter(stats.MetricSelects, 1)

	var total int
	for _, s := range r.state {
		total += s.Pulls
	}
	if total == 0 {
		return r.candidates[0]
	}

	best := r.candidates[0]
	bestScore := math.Inf(-1)
	for _, c := range r.candidates {
		score := r.score(c.ID, total)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// score computes the UCB1 score for one candidate. Candidates with fewer
// than minPulls pulls score +Inf to force exploration.
func (r *Router) score(id string, total int) float64 {
	s := r.state[id]
	if s.Pulls < r.minPulls {
		return math.Inf(1)
	}
	return s.MeanReward() + r.exploration*math.Sqrt(math.Log(float64(total))/float64(s.Pulls))
}

// RecordReward updates the statistics for a candidate after an invocation
// and synchronously persists the full snapshot. An id not seen before is
// admitted with a fresh zero-initialized entry.
func (r *Router) RecordReward(ctx context.Context, id string, reward float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state[id]
	s.Pulls++
	s.RewardSum += reward
	r.state[id] = s

	r.stats.IncCounter(stats.MetricRewards, 1)
	r.stats.ObserveHistogram(stats.MetricRewardValue, reward)

	return r.save(ctx)
}

// State returns a snapshot of the per-candidate statistics.
func (r *Router) State() map[string]Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]Stats, len(r.state))
	for id, s := range r.state {
		snapshot[id] = s
	}
	return snapshot
}

// Candidates returns the fixed candidate list in selection order.
func (r *Router) Candidates() []Candidate {
	return append([]Candidate(nil), r.candidates...)
}

// save persists the full {candidates, state} snapshot.
// Callers must hold r.mu.
func (r *Router) save(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	payload := checkpointPayload{
		Experts: r.candidates,
		State:   r.state,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}

	if err := r.store.Save(ctx, r.key, data); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}

	r.stats.IncCounter(stats.MetricCheckpointSaves, 1)
	return nil
}

// load restores statistics from the last persisted snapshot. Any failure
// degrades to an empty initial state: a router must come up even when its
// store is missing or holds garbage. Ids no longer in the candidate list
// stay in memory, unreachable by selection, and are re-persisted on the
// next save.
func (r *Router) load(ctx context.Context) {
	if r.store == nil {
		return
	}

	data, err := r.store.Load(ctx, r.key)
	if err != nil {
		if !errors.Is(err, checkpoint.ErrNotFound) {
			r.logger.Warn("checkpoint unavailable, starting empty", zap.Error(err))
		}
		return
	}

	var payload checkpointPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.logger.Warn("checkpoint undecodable, starting empty", zap.Error(err))
		return
	}

	for id, s := range payload.State {
		r.state[id] = s
	}
}
