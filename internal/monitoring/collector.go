// Package monitoring reports on enrichment health: fetch failure rates,
// cache depth and the state of the metadata circuit breaker.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ytheys/agency-radar/internal/directory"
	"github.com/ytheys/agency-radar/internal/enrich"
	"github.com/ytheys/agency-radar/internal/resilience"
	"github.com/ytheys/agency-radar/internal/store"
)

// MetricsSnapshot holds a point-in-time view of system health.
type MetricsSnapshot struct {
	// Directory working set.
	SeedCount       int       `json:"seed_count"`
	AgencyCount     int       `json:"agency_count"`
	LoadedAt        time.Time `json:"loaded_at"`
	LoadDurationMs  int64     `json:"load_duration_ms"`
	DirectoryLoaded bool      `json:"directory_loaded"`

	// Fetch counters since process start.
	FetchOK       int64   `json:"fetch_ok"`
	FetchFailed   int64   `json:"fetch_failed"`
	FetchFailRate float64 `json:"fetch_fail_rate"`

	// Overview cache.
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	CacheEntries int   `json:"cache_entries"`

	// Metadata source breaker.
	BreakerState string `json:"breaker_state,omitempty"`

	// Metadata.
	CollectedAt time.Time `json:"collected_at"`
}

// BreakerStater reports the current circuit state.
type BreakerStater interface {
	State() resilience.CircuitState
}

// Collector gathers metrics from the directory, the loader and the
// overview cache. The cache and breaker are optional.
type Collector struct {
	service *directory.Service
	loader  *enrich.Loader
	cache   store.Store
	breaker BreakerStater
}

// NewCollector creates a new metrics collector.
func NewCollector(service *directory.Service, loader *enrich.Loader, cache store.Store, breaker BreakerStater) *Collector {
	return &Collector{service: service, loader: loader, cache: cache, breaker: breaker}
}

// Collect gathers a snapshot of system metrics.
func (c *Collector) Collect(ctx context.Context) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		CollectedAt: time.Now().UTC(),
	}

	dirStats := c.service.Stats()
	snap.SeedCount = dirStats.SeedCount
	snap.AgencyCount = dirStats.AgencyCount
	snap.LoadedAt = dirStats.LoadedAt
	snap.LoadDurationMs = dirStats.LoadDuration.Milliseconds()
	snap.DirectoryLoaded = c.service.Ready()

	loadStats := c.loader.Stats()
	snap.FetchOK = loadStats.FetchOK
	snap.FetchFailed = loadStats.FetchFailed
	snap.CacheHits = loadStats.CacheHits
	snap.CacheMisses = loadStats.CacheMisses
	if attempts := loadStats.FetchOK + loadStats.FetchFailed; attempts > 0 {
		snap.FetchFailRate = float64(loadStats.FetchFailed) / float64(attempts)
	}

	if c.cache != nil {
		n, err := c.cache.CountOverviews(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "monitoring: count cache entries")
		}
		snap.CacheEntries = n
	}

	if c.breaker != nil {
		snap.BreakerState = c.breaker.State().String()
	}

	return snap, nil
}
