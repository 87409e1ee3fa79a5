// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Router metrics.
	MetricSelects         = "hoard_selects_total"
	MetricRewards         = "hoard_rewards_total"
	MetricRewardValue     = "hoard_reward_value"
	MetricCheckpointSaves = "hoard_checkpoint_saves_total"
	MetricCandidates      = "hoard_candidates"

	// Catalog metrics.
	MetricRefreshes   = "hoard_refreshes_total"
	MetricFetches     = "hoard_fetches_total"
	MetricCacheHits   = "hoard_cache_hits_total"
	MetricCacheMisses = "hoard_cache_misses_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
