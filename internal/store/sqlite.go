package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ytheys/agency-radar/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS overview_cache (
	id          TEXT PRIMARY KEY,
	repo        TEXT NOT NULL UNIQUE,
	language    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	forks_count INTEGER NOT NULL DEFAULT 0,
	html_url    TEXT NOT NULL DEFAULT '',
	fetched_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_overview_cache_expires_at ON overview_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetOverview(ctx context.Context, repo string) (*model.RepoOverview, error) {
	var ov model.RepoOverview
	err := s.db.QueryRowContext(ctx,
		`SELECT language, description, forks_count, html_url FROM overview_cache
		 WHERE repo = ? AND expires_at > ?`,
		repo, time.Now().UTC(),
	).Scan(&ov.Language, &ov.Description, &ov.ForksCount, &ov.HTMLURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get overview %s", repo)
	}
	return &ov, nil
}

func (s *SQLiteStore) SetOverview(ctx context.Context, repo string, ov model.RepoOverview, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO overview_cache (id, repo, language, description, forks_count, html_url, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (repo) DO UPDATE SET
		 language = excluded.language, description = excluded.description,
		 forks_count = excluded.forks_count, html_url = excluded.html_url,
		 fetched_at = excluded.fetched_at, expires_at = excluded.expires_at`,
		uuid.New().String(), repo, ov.Language, ov.Description, ov.ForksCount, ov.HTMLURL,
		now, now.Add(ttl),
	)
	return eris.Wrapf(err, "sqlite: set overview %s", repo)
}

func (s *SQLiteStore) CountOverviews(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM overview_cache WHERE expires_at > ?`, time.Now().UTC(),
	).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: count overviews")
	}
	return n, nil
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM overview_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}
