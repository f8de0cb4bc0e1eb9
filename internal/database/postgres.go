package database

import (
	"context"
	"errors"
	"fmt"

	"release-tracker/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS releases (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		account TEXT NOT NULL,
		region TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_releases_name ON releases (name);`

// PostgresStore is a Repository on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresStore)(nil)

// OpenPostgres connects to dsn and ensures the releases table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("empty database url")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create releases table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// InsertRelease inserts a release and returns its id.
func (s *PostgresStore) InsertRelease(ctx context.Context, req models.CreateReleaseRequest) (int64, error) {
	const query = `INSERT INTO releases (name, version, account, region)
		VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	if err := s.pool.QueryRow(ctx, query, req.Name, req.Version, req.Account, req.Region).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert release: %w", err)
	}
	return id, nil
}

// ListReleases pages through releases, newest first.
func (s *PostgresStore) ListReleases(ctx context.Context, limit, offset int) ([]models.Release, error) {
	const query = `SELECT id, name, version, account, region, created_at FROM releases
		ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	return collectReleases(rows)
}

// FetchReleases returns every release of name, oldest first.
func (s *PostgresStore) FetchReleases(ctx context.Context, name string) ([]models.Release, error) {
	const query = `SELECT id, name, version, account, region, created_at FROM releases
		WHERE name = $1 ORDER BY created_at ASC, id ASC`
	rows, err := s.pool.Query(ctx, query, name)
	if err != nil {
		return nil, unavailable("query releases for", name, err)
	}
	releases, err := collectReleases(rows)
	if err != nil {
		return nil, unavailable("read releases for", name, err)
	}
	return releases, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func collectReleases(rows pgx.Rows) ([]models.Release, error) {
	releases, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Release, error) {
		var r models.Release
		err := row.Scan(&r.ID, &r.Name, &r.Version, &r.Account, &r.Region, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan releases: %w", err)
	}
	if releases == nil {
		releases = []models.Release{}
	}
	return releases, nil
}
