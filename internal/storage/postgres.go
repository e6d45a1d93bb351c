// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// connectAttempts bounds the initial ping retry loop.
const connectAttempts = 5

// pgxPool is the subset of pgxpool.Pool used by PostgresBackend.
// pgxmock satisfies it for unit tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresBackend stores blobs in a PostgreSQL table (key -> jsonb).
type PostgresBackend struct {
	pool pgxPool
}

// NewPostgresBackend connects to PostgreSQL, waits for the database to
// accept connections, and runs pending migrations.
func NewPostgresBackend(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("STORAGE_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectAttempts, retry.NewFibonacci(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	}); err != nil {
		pool.Close()
		return nil, oops.Code("STORAGE_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}

	migrator, err := NewMigrator(databaseURL)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer func() {
		_ = migrator.Close() //nolint:errcheck // migration already applied; close is best-effort
	}()
	if err := migrator.Up(); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresBackend{pool: pool}, nil
}

// NewPostgresBackendWithPool wraps an existing pool without running
// migrations. Used by tests.
func NewPostgresBackendWithPool(pool pgxPool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

// Get retrieves a blob by key.
func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.pool.QueryRow(ctx, `SELECT data FROM blobs WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapPgError(err, "get", key)
	}
	return data, nil
}

// Put stores a blob under key, replacing any existing value.
func (b *PostgresBackend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO blobs (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, key, data)
	if err != nil {
		return wrapPgError(err, "put", key)
	}
	return nil
}

// Delete removes a blob by key. Missing keys are not an error.
func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return wrapPgError(err, "delete", key)
	}
	return nil
}

// Clear removes all blobs.
func (b *PostgresBackend) Clear(ctx context.Context) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM blobs`); err != nil {
		return wrapPgError(err, "clear", "")
	}
	return nil
}

// Close closes the connection pool.
func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}

// wrapPgError attaches operation context, flagging a missing blobs table
// (migrations not run) distinctly from other database failures.
func wrapPgError(err error, operation, key string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return oops.Code("STORAGE_NOT_MIGRATED").
			With("operation", operation).
			With("key", key).
			Hint("run migrations before using the postgres backend").
			Wrap(err)
	}
	return oops.Code("STORAGE_BACKEND_FAILED").
		With("operation", operation).
		With("key", key).
		Wrap(err)
}
