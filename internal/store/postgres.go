package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ytheys/agency-radar/internal/model"
)

// Pool abstracts the pgx pool operations the store needs, so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS overview_cache (
	id          TEXT PRIMARY KEY,
	repo        TEXT NOT NULL UNIQUE,
	language    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	forks_count INTEGER NOT NULL DEFAULT 0,
	html_url    TEXT NOT NULL DEFAULT '',
	fetched_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_overview_cache_expires_at ON overview_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetOverview(ctx context.Context, repo string) (*model.RepoOverview, error) {
	var ov model.RepoOverview
	err := s.pool.QueryRow(ctx,
		`SELECT language, description, forks_count, html_url FROM overview_cache
		 WHERE repo = $1 AND expires_at > now()`,
		repo,
	).Scan(&ov.Language, &ov.Description, &ov.ForksCount, &ov.HTMLURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get overview %s", repo)
	}
	return &ov, nil
}

func (s *PostgresStore) SetOverview(ctx context.Context, repo string, ov model.RepoOverview, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO overview_cache (id, repo, language, description, forks_count, html_url, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (repo) DO UPDATE SET
		 language = EXCLUDED.language, description = EXCLUDED.description,
		 forks_count = EXCLUDED.forks_count, html_url = EXCLUDED.html_url,
		 fetched_at = EXCLUDED.fetched_at, expires_at = EXCLUDED.expires_at`,
		uuid.New().String(), repo, ov.Language, ov.Description, ov.ForksCount, ov.HTMLURL,
		now, now.Add(ttl),
	)
	return eris.Wrapf(err, "postgres: set overview %s", repo)
}

func (s *PostgresStore) CountOverviews(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM overview_cache WHERE expires_at > now()`,
	).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: count overviews")
	}
	return n, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM overview_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired")
	}
	return int(tag.RowsAffected()), nil
}
