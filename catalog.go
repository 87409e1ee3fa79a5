package hoard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hoardlabs/hoard/internal/cachekv"
	"github.com/hoardlabs/hoard/internal/stats"
)

// FetchFunc retrieves the raw candidate descriptors from upstream.
type FetchFunc func(ctx context.Context) ([]any, error)

// Catalog maintains a filtered candidate list, refreshed from upstream
// at most once per TTL. An optional cache backend shares the list across
// processes and takes precedence over the in-process copy.
type Catalog struct {
	fetch    FetchFunc
	ttl      time.Duration
	cache    cachekv.Backend
	cacheKey string
	stats    stats.Collector
	logger   *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	candidates  []Candidate
	lastRefresh time.Time
}

// NewCatalog creates a catalog around the given fetch function.
func NewCatalog(fetch FetchFunc, opts ...CatalogOption) (*Catalog, error) {
	if fetch == nil {
		return nil, ErrNoFetch
	}
	cfg := defaultCatalogOptions()
	for _, opt := range opts {
		opt.applyCatalog(&cfg)
	}
	return &Catalog{
		fetch:    fetch,
		ttl:      cfg.ttl,
		cache:    cfg.cache,
		cacheKey: cfg.cacheKey,
		stats:    cfg.stats,
		logger:   cfg.logger,
		now:      cfg.now,
	}, nil
}

// Refresh returns the current candidate list, fetching from upstream only
// when both the cache backend and the in-process copy are stale. With force
// set, caches are bypassed and upstream is always consulted. A failed fetch
// leaves previously cached state untouched.
func (c *Catalog) Refresh(ctx context.Context, force bool) ([]Candidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.IncCounter(stats.MetricRefreshes, 1)

	if !force {
		if cached, ok := c.fromCache(ctx); ok {
			c.candidates = cached
			c.lastRefresh = c.now()
			return copyCandidates(cached), nil
		}
		if c.candidates != nil && c.now().Sub(c.lastRefresh) < c.ttl {
			return copyCandidates(c.candidates), nil
		}
	}

	c.stats.IncCounter(stats.MetricFetches, 1)
	raw, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	candidates := NormalizeCandidates(raw)
	c.candidates = candidates
	c.lastRefresh = c.now()
	if c.cache != nil {
		if err := c.cache.Set(ctx, c.cacheKey, candidates, c.ttl); err != nil {
			c.logger.Warn("failed to cache candidate list",
				zap.String("key", c.cacheKey),
				zap.Error(err))
		}
	}
	c.logger.Debug("refreshed candidate list",
		zap.Int("candidates", len(candidates)),
		zap.Bool("force", force))
	return copyCandidates(candidates), nil
}

// Candidates returns the in-process copy without consulting caches or
// upstream. It is empty until the first successful Refresh.
func (c *Catalog) Candidates() []Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyCandidates(c.candidates)
}

// fromCache consults the cache backend. Backend errors are logged and
// treated as a miss so a flaky cache never blocks a refresh.
func (c *Catalog) fromCache(ctx context.Context) ([]Candidate, bool) {
	if c.cache == nil {
		return nil, false
	}
	cached, ok, err := cachekv.GetAs[[]Candidate](ctx, c.cache, c.cacheKey)
	if err != nil {
		c.logger.Warn("cache backend read failed",
			zap.String("key", c.cacheKey),
			zap.Error(err))
		c.stats.IncCounter(stats.MetricCacheMisses, 1)
		return nil, false
	}
	if !ok {
		c.stats.IncCounter(stats.MetricCacheMisses, 1)
		return nil, false
	}
	c.stats.IncCounter(stats.MetricCacheHits, 1)
	return cached, true
}

func copyCandidates(in []Candidate) []Candidate {
	out := make([]Candidate, len(in))
	copy(out, in)
	return out
}
