package database

import (
	"context"
	"database/sql"
	"fmt"

	"release-tracker/internal/logger"
	"release-tracker/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS releases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		account TEXT NOT NULL,
		region TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_releases_name ON releases (name);`

// SQLiteStore is a Repository backed by a sqlite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *logrus.Entry
}

var _ Repository = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	log := logger.WithModule("database").WithField("path", path)
	log.Info("Initializing database connection")

	db, err := sql.Open(DriverSQLite, fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Database tables initialized")
	return store, nil
}

// NewSQLiteStore wraps an open handle and creates the releases table.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger.WithModule("database")}, nil
}

func (s *SQLiteStore) InsertRelease(ctx context.Context, req models.CreateReleaseRequest) (int64, error) {
	s.logger.WithFields(logrus.Fields{
		"name":    req.Name,
		"version": req.Version,
		"account": req.Account,
		"region":  req.Region,
	}).Debug("Inserting release")

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO releases (name, version, account, region) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, req.Name, req.Version, req.Account, req.Region)
	if err != nil {
		return 0, fmt.Errorf("failed to insert release: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ListReleases(ctx context.Context, limit, offset int) ([]models.Release, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, version, account, region, created_at FROM releases ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	return scanReleases(rows)
}

func (s *SQLiteStore) FetchReleases(ctx context.Context, name string) ([]models.Release, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, version, account, region, created_at FROM releases WHERE name = ? ORDER BY created_at ASC, id ASC",
		name)
	if err != nil {
		return nil, unavailable("query releases for", name, err)
	}
	releases, err := scanReleases(rows)
	if err != nil {
		return nil, unavailable("read releases for", name, err)
	}
	return releases, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanReleases(rows *sql.Rows) ([]models.Release, error) {
	defer rows.Close()

	releases := []models.Release{}
	for rows.Next() {
		var r models.Release
		if err := rows.Scan(&r.ID, &r.Name, &r.Version, &r.Account, &r.Region, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan release: %w", err)
		}
		releases = append(releases, r)
	}
	return releases, rows.Err()
}
