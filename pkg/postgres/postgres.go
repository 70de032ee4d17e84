package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:blank-imports
	goose "github.com/pressly/goose/v3"

	"github.com/andressep95/hr-service/migrations"
)

type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MaxRetries      int
	RetryInterval   time.Duration
}

// Connect opens a PostgreSQL pool, retrying while the server comes up.
func Connect(ctx context.Context, l *slog.Logger, opts Options) (*sqlx.DB, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}

	var (
		db  *sqlx.DB
		err error
	)

	for i := 0; i < opts.MaxRetries; i++ {
		db, err = sqlx.ConnectContext(ctx, "postgres", opts.DSN)
		if err == nil {
			break
		}

		l.Warn("failed to connect to database", "attempt", i+1, "max_attempts", opts.MaxRetries, "error", err)
		if i < opts.MaxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.RetryInterval):
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", opts.MaxRetries, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return db, nil
}

// UpMigrations applies every embedded migration that has not run yet.
func UpMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	err := goose.Up(db.DB, ".")
	if err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
