// Package diskhoardfx provides an fx module for a router that checkpoints
// to local disk.
package diskhoardfx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hoardlabs/hoard"
	"github.com/hoardlabs/hoard/internal/checkpoint/diskstore"
	"github.com/hoardlabs/hoard/internal/codec/zstdcodec"
	"github.com/hoardlabs/hoard/internal/stats"
	"github.com/hoardlabs/hoard/internal/stats/logger"
)

// Config holds configuration for the disk-backed router.
type Config struct {
	// DataDir is the directory holding checkpoint files.
	DataDir string

	// CatalogTTL bounds how often the candidate list is refetched.
	// Default is one hour.
	CatalogTTL time.Duration
}

// Module provides a disk-backed catalog and router.
// Requires a *zap.Logger, a Config, and a hoard.FetchFunc to be provided.
var Module = fx.Module("diskhoard",
	fx.Provide(
		newStatsCollector,
		newCatalog,
		newRouter,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("hoard.stats"))
}

// CatalogParams holds dependencies for creating the catalog.
type CatalogParams struct {
	fx.In

	Config    Config
	Fetch     hoard.FetchFunc
	Collector stats.Collector
	Logger    *zap.Logger
}

func newCatalog(p CatalogParams) (*hoard.Catalog, error) {
	ttl := p.Config.CatalogTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return hoard.NewCatalog(p.Fetch,
		hoard.WithTTL(ttl),
		hoard.WithCatalogStats(p.Collector),
		hoard.WithCatalogLogger(p.Logger.Named("hoard.catalog")),
	)
}

// Params holds dependencies for creating the router.
type Params struct {
	fx.In

	Config    Config
	Catalog   *hoard.Catalog
	Collector stats.Collector
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

// Result holds the provided router.
type Result struct {
	fx.Out

	Router *hoard.Router
}

func newRouter(p Params) (Result, error) {
	store, err := diskstore.New(p.Config.DataDir, zstdcodec.New())
	if err != nil {
		return Result{}, err
	}

	ctx := context.Background()
	candidates, err := p.Catalog.Refresh(ctx, false)
	if err != nil {
		return Result{}, err
	}

	router, err := hoard.New(ctx, candidates,
		hoard.WithCheckpoints(store),
		hoard.WithStats(p.Collector),
		hoard.WithLogger(p.Logger.Named("hoard")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return Result{Router: router}, nil
}
