package database

import (
	"context"
	"errors"
	"fmt"

	"release-tracker/internal/models"
)

// ErrStoreUnavailable wraps every storage failure while reading releases.
var ErrStoreUnavailable = errors.New("release store unavailable")

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Repository persists and queries releases.
type Repository interface {
	InsertRelease(ctx context.Context, req models.CreateReleaseRequest) (int64, error)
	ListReleases(ctx context.Context, limit, offset int) ([]models.Release, error)
	// FetchReleases returns every release of name, oldest first.
	FetchReleases(ctx context.Context, name string) ([]models.Release, error)
	Close() error
}

// Options selects and configures a Repository.
type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
}

// Open connects to the configured driver and ensures the schema exists.
func Open(ctx context.Context, opts Options) (Repository, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		return OpenSQLite(opts.SQLitePath)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func unavailable(op, name string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStoreUnavailable, op, name, err)
}
