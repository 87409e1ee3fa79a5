package hoard

import (
	"time"

	"go.uber.org/zap"

	"github.com/hoardlabs/hoard/internal/cachekv"
	"github.com/hoardlabs/hoard/internal/checkpoint"
	"github.com/hoardlabs/hoard/internal/stats"
)

// Option configures a Router.
type Option interface {
	apply(*options)
}

// options holds the router configuration.
type options struct {
	store         checkpoint.Store
	checkpointKey string
	minPulls      int
	exploration   float64
	stats         stats.Collector
	logger        *zap.Logger
}

// defaultOptions returns the default router configuration.
func defaultOptions() options {
	return options{
		checkpointKey: "router_state.json",
		minPulls:      1,
		exploration:   1.4,
		stats:         stats.NewNoop(),
		logger:        zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithCheckpoints sets the checkpoint store for persisting statistics.
// If not set, statistics live only in memory.
func WithCheckpoints(s checkpoint.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithCheckpointKey sets the key the snapshot is persisted under.
// Default is "router_state.json".
func WithCheckpointKey(key string) Option {
	return optionFunc(func(o *options) {
		o.checkpointKey = key
	})
}

// WithMinPulls sets how many pulls a candidate needs before it is scored;
// below that it is explored unconditionally. Default is 1.
func WithMinPulls(n int) Option {
	return optionFunc(func(o *options) {
		o.minPulls = n
	})
}

// WithExploration sets the UCB1 exploration coefficient. Default is 1.4.
func WithExploration(c float64) Option {
	return optionFunc(func(o *options) {
		o.exploration = c
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// CatalogOption configures a Catalog.
type CatalogOption interface {
	applyCatalog(*catalogOptions)
}

// catalogOptions holds the catalog configuration.
type catalogOptions struct {
	ttl      time.Duration
	cache    cachekv.Backend
	cacheKey string
	stats    stats.Collector
	logger   *zap.Logger
	now      func() time.Time
}

// defaultCatalogOptions returns the default catalog configuration.
func defaultCatalogOptions() catalogOptions {
	return catalogOptions{
		ttl:      time.Hour,
		cacheKey: "hoard:free_candidates",
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
}

// catalogOptionFunc wraps a function to implement CatalogOption.
type catalogOptionFunc func(*catalogOptions)

// Compile-time check that catalogOptionFunc implements CatalogOption.
var _ CatalogOption = catalogOptionFunc(nil)

func (f catalogOptionFunc) applyCatalog(o *catalogOptions) { f(o) }

// WithTTL sets how long a fetched candidate list stays fresh.
// Default is one hour.
func WithTTL(ttl time.Duration) CatalogOption {
	return catalogOptionFunc(func(o *catalogOptions) {
		o.ttl = ttl
	})
}

// WithCache sets a cache backend consulted before the in-process copy.
// If not set, only the in-process copy bounds upstream fetches.
func WithCache(b cachekv.Backend) CatalogOption {
	return catalogOptionFunc(func(o *catalogOptions) {
		o.cache = b
	})
}

// WithCacheKey sets the cache key the candidate list is stored under.
// Default is "hoard:free_candidates".
func WithCacheKey(key string) CatalogOption {
	return catalogOptionFunc(func(o *catalogOptions) {
		o.cacheKey = key
	})
}

// WithCatalogStats sets the stats collector for the catalog.
func WithCatalogStats(c stats.Collector) CatalogOption {
	return catalogOptionFunc(func(o *catalogOptions) {
		o.stats = c
	})
}

// WithCatalogLogger sets the logger for the catalog.
func WithCatalogLogger(l *zap.Logger) CatalogOption {
	return catalogOptionFunc(func(o *catalogOptions) {
		o.logger = l
	})
}

// withClock overrides the catalog time source (for tests).
func withClock(now func() time.Time) CatalogOption {
	return catalogOptionFunc(func(o *catalogOptions) {
		o.now = now
	})
}
