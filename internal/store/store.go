// Package store caches fetched repository overviews so each view load can
// rebuild the agency working set without refetching every repo.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ytheys/agency-radar/internal/model"
)

// Store defines the overview cache surface.
type Store interface {
	// GetOverview returns the cached overview for the repo, or (nil, nil)
	// when no unexpired entry exists.
	GetOverview(ctx context.Context, repo string) (*model.RepoOverview, error)

	// SetOverview caches the overview for the repo with the given TTL,
	// replacing any previous entry.
	SetOverview(ctx context.Context, repo string, ov model.RepoOverview, ttl time.Duration) error

	// DeleteExpired removes expired cache rows, returning the count removed.
	DeleteExpired(ctx context.Context) (int, error)

	// CountOverviews returns the number of unexpired cache entries.
	CountOverviews(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures the cache backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "agency-radar.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
