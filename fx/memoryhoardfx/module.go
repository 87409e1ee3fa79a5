// Package memoryhoardfx provides an fx module for a fully in-memory
// router stack. Useful for testing.
package memoryhoardfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hoardlabs/hoard"
	"github.com/hoardlabs/hoard/internal/cachekv/memcache"
	"github.com/hoardlabs/hoard/internal/checkpoint/memstore"
	"github.com/hoardlabs/hoard/internal/stats"
	"github.com/hoardlabs/hoard/internal/stats/logger"
)

// Module provides an in-memory catalog and router for testing.
// Requires a *zap.Logger and a hoard.FetchFunc to be provided.
var Module = fx.Module("memoryhoard",
	fx.Provide(
		newStatsCollector,
		newStore,
		newCache,
		newCatalog,
		newRouter,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("hoard.stats"))
}

func newStore() *memstore.Store {
	return memstore.New()
}

func newCache() (*memcache.Cache, error) {
	return memcache.New(0)
}

// CatalogParams holds dependencies for creating the catalog.
type CatalogParams struct {
	fx.In

	Fetch     hoard.FetchFunc
	Cache     *memcache.Cache
	Collector stats.Collector
	Logger    *zap.Logger
}

func newCatalog(p CatalogParams) (*hoard.Catalog, error) {
	return hoard.NewCatalog(p.Fetch,
		hoard.WithCache(p.Cache),
		hoard.WithCatalogStats(p.Collector),
		hoard.WithCatalogLogger(p.Logger.Named("hoard.catalog")),
	)
}

// Params holds dependencies for creating the router.
type Params struct {
	fx.In

	Catalog   *hoard.Catalog
	Store     *memstore.Store
	Collector stats.Collector
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

// Result holds the provided router. The *memstore.Store is provided
// separately for test setup.
type Result struct {
	fx.Out

	Router *hoard.Router
}

func newRouter(p Params) (Result, error) {
	ctx := context.Background()
	candidates, err := p.Catalog.Refresh(ctx, false)
	if err != nil {
		return Result{}, err
	}

	router, err := hoard.New(ctx, candidates,
		hoard.WithCheckpoints(p.Store),
		hoard.WithStats(p.Collector),
		hoard.WithLogger(p.Logger.Named("hoard")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Store.Close()
		},
	})

	return Result{Router: router}, nil
}
