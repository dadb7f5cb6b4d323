package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ytheys/agency-radar/internal/directory"
	"github.com/ytheys/agency-radar/internal/enrich"
	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/resilience"
	"github.com/ytheys/agency-radar/internal/seed"
	"github.com/ytheys/agency-radar/internal/store"
	"github.com/ytheys/agency-radar/pkg/github"
)

// directoryEnv bundles everything a command needs to build and query
// the agency working set.
type directoryEnv struct {
	Service *directory.Service
	Loader  *enrich.Loader
	Breaker *resilience.Breaker
	Cache   store.Store
	Seeds   []model.SeedRecord
}

// Close releases held resources.
func (e *directoryEnv) Close() {
	if e.Cache != nil {
		if err := e.Cache.Close(); err != nil {
			zap.L().Warn("close cache store", zap.Error(err))
		}
	}
}

// initDirectory builds the enrichment stack from config: seeds, the
// metadata client with its breaker, the overview cache and the
// directory service. A cache that fails to open is logged and skipped;
// enrichment still works without it.
func initDirectory(ctx context.Context) (*directoryEnv, error) {
	seeds, err := seed.Load(cfg.Seeds.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load seeds")
	}

	client := github.NewClient(
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithRateLimit(rate.Limit(cfg.GitHub.RequestsPerSec), cfg.GitHub.Burst),
	)

	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		FailureThreshold: cfg.Enrich.BreakerThreshold,
		ResetTimeout:     time.Duration(cfg.Enrich.BreakerResetSecs) * time.Second,
		OnStateChange: func(from, to resilience.CircuitState) {
			zap.L().Warn("metadata breaker state change",
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	opts := []enrich.Option{
		enrich.WithBreaker(breaker),
		enrich.WithConcurrency(cfg.Enrich.Concurrency),
	}

	var cache store.Store
	if cfg.Enrich.CacheTTLHours > 0 {
		cache, err = store.Open(ctx, store.Config{
			Driver:      cfg.Store.Driver,
			DatabaseURL: cfg.Store.DatabaseURL,
		})
		if err != nil {
			zap.L().Warn("overview cache unavailable, fetching without it", zap.Error(err))
		} else if err := cache.Migrate(ctx); err != nil {
			zap.L().Warn("overview cache migrate failed, fetching without it", zap.Error(err))
			cache.Close() //nolint:errcheck
			cache = nil
		} else {
			if removed, err := cache.DeleteExpired(ctx); err != nil {
				zap.L().Warn("reap expired cache rows", zap.Error(err))
			} else if removed > 0 {
				zap.L().Info("reaped expired cache rows", zap.Int("removed", removed))
			}
			opts = append(opts, enrich.WithCache(cache, time.Duration(cfg.Enrich.CacheTTLHours)*time.Hour))
		}
	}

	loader := enrich.NewLoader(client, opts...)
	service := directory.NewService(loader, seeds)

	return &directoryEnv{
		Service: service,
		Loader:  loader,
		Breaker: breaker,
		Cache:   cache,
		Seeds:   seeds,
	}, nil
}
