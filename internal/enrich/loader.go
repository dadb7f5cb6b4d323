// Package enrich builds the canonical agency working set from seed
// records and live repository metadata. The whole set is reconstructed on
// every load; nothing is mutated incrementally.
package enrich

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ytheys/agency-radar/internal/classify"
	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/resilience"
	"github.com/ytheys/agency-radar/internal/store"
	"github.com/ytheys/agency-radar/pkg/github"
)

// Fallback values used when neither the seed nor the fetched metadata
// provides a field.
const (
	DefaultRating      = 4.0
	DefaultDescription = "Specialized engineering and design solutions."
)

// Loader enriches seed records into agencies.
type Loader struct {
	client      github.Client
	cache       store.Store
	cacheTTL    time.Duration
	breaker     *resilience.Breaker
	concurrency int

	fetchOK     atomic.Int64
	fetchFailed atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// Option configures the Loader.
type Option func(*Loader)

// WithCache enables the read-through overview cache.
func WithCache(cache store.Store, ttl time.Duration) Option {
	return func(l *Loader) {
		l.cache = cache
		l.cacheTTL = ttl
	}
}

// WithBreaker routes metadata fetches through a circuit breaker.
func WithBreaker(b *resilience.Breaker) Option {
	return func(l *Loader) {
		l.breaker = b
	}
}

// WithConcurrency bounds the fetch fan-out. Zero or negative means
// unbounded (one goroutine per seed).
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.concurrency = n
	}
}

// NewLoader creates a Loader backed by the given overview client.
func NewLoader(client github.Client, opts ...Option) *Loader {
	l := &Loader{client: client}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enrich fetches metadata for every seed concurrently and returns one
// agency per seed, in seed order. A failed fetch never drops an agency:
// the seed is enriched against an empty overview instead. The only error
// returned is context cancellation during the fan-out.
func (l *Loader) Enrich(ctx context.Context, seeds []model.SeedRecord) ([]model.Agency, error) {
	agencies := make([]model.Agency, len(seeds))
	if len(seeds) == 0 {
		return agencies, nil
	}

	start := time.Now()

	g, gCtx := errgroup.WithContext(ctx)
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}

	for i, s := range seeds {
		i, s := i, s
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			ov := l.fetchOverview(gCtx, s.Repo)
			agencies[i] = buildAgency(s, ov)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("enrich: working set built",
		zap.Int("agencies", len(agencies)),
		zap.Duration("took", time.Since(start)),
	)
	return agencies, nil
}

// fetchOverview resolves the overview for a repo, consulting the cache
// first. All failures degrade to the zero overview; they are logged but
// never propagated, so one bad repo cannot fail a view load.
func (l *Loader) fetchOverview(ctx context.Context, repo string) model.RepoOverview {
	if l.cache != nil {
		cached, err := l.cache.GetOverview(ctx, repo)
		if err != nil {
			zap.L().Warn("enrich: cache read failed", zap.String("repo", repo), zap.Error(err))
		}
		if cached != nil {
			l.cacheHits.Add(1)
			return *cached
		}
		l.cacheMisses.Add(1)
	}

	fetch := l.client.Overview
	if l.breaker != nil {
		fetch = func(ctx context.Context, repo string) (*model.RepoOverview, error) {
			return resilience.Call(ctx, l.breaker, func(ctx context.Context) (*model.RepoOverview, error) {
				return l.client.Overview(ctx, repo)
			})
		}
	}

	ov, err := fetch(ctx, repo)
	if err != nil || ov == nil {
		l.fetchFailed.Add(1)
		zap.L().Warn("enrich: overview fetch failed, using empty metadata",
			zap.String("repo", repo),
			zap.Error(err),
		)
		return model.RepoOverview{}
	}
	l.fetchOK.Add(1)

	if l.cache != nil {
		if err := l.cache.SetOverview(ctx, repo, *ov, l.cacheTTL); err != nil {
			zap.L().Warn("enrich: cache write failed", zap.String("repo", repo), zap.Error(err))
		}
	}
	return *ov
}

// buildAgency merges one seed with its fetched overview. Seed-provided
// values win over fetched ones, and fetched values win over defaults.
func buildAgency(s model.SeedRecord, ov model.RepoOverview) model.Agency {
	domain := classify.Domain(ov.Language)

	rating := DefaultRating
	if s.RatingCount != nil {
		rating = *s.RatingCount
	}

	projects := ov.ForksCount
	if s.ProjectsCount != nil {
		projects = *s.ProjectsCount
	}

	description := ov.Description
	if description == "" {
		description = DefaultDescription
	}

	canonical := ov.HTMLURL
	if canonical == "" {
		canonical = fmt.Sprintf("https://github.com/%s", s.Repo)
	}

	return model.Agency{
		Name:         s.Company,
		Domain:       domain,
		Services:     classify.ServicesFor(domain),
		Rating:       rating,
		ProjectCount: projects,
		ImageURL:     s.Logo,
		Repo:         s.Repo,
		WebsiteURL:   s.Website,
		Description:  description,
		Popularity:   classify.Popularity(rating),
		CanonicalURL: canonical,
	}
}

// Stats is a point-in-time view of loader activity since process start.
type Stats struct {
	FetchOK     int64 `json:"fetch_ok"`
	FetchFailed int64 `json:"fetch_failed"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
}

// Stats returns a snapshot of the loader counters.
func (l *Loader) Stats() Stats {
	return Stats{
		FetchOK:     l.fetchOK.Load(),
		FetchFailed: l.fetchFailed.Load(),
		CacheHits:   l.cacheHits.Load(),
		CacheMisses: l.cacheMisses.Load(),
	}
}
