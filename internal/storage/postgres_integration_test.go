// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

//go:build integration

package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lorekeep/lorekeep/internal/storage"
)

// testDatabaseURL points at the PostgreSQL testcontainer.
var testDatabaseURL string

// TestMain sets up a PostgreSQL testcontainer for integration tests.
func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("lorekeep_test"),
		postgres.WithUsername("lorekeep"),
		postgres.WithPassword("lorekeep"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		panic("failed to start postgres container: " + err.Error())
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		panic("failed to get connection string: " + err.Error())
	}
	testDatabaseURL = connStr

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestPostgresBackendIntegration(t *testing.T) {
	ctx := context.Background()

	// NewPostgresBackend runs migrations, so the blobs table exists.
	backend, err := storage.NewPostgresBackend(ctx, testDatabaseURL)
	require.NoError(t, err)
	defer backend.Close() //nolint:errcheck

	_, err = backend.Get(ctx, "campaign")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, backend.Put(ctx, "campaign", []byte(`{"quests":[]}`)))

	data, err := backend.Get(ctx, "campaign")
	require.NoError(t, err)
	assert.JSONEq(t, `{"quests":[]}`, string(data))

	// Upsert replaces the previous blob.
	require.NoError(t, backend.Put(ctx, "campaign", []byte(`{"quests":[{"id":"q1"}]}`)))
	data, err = backend.Get(ctx, "campaign")
	require.NoError(t, err)
	assert.JSONEq(t, `{"quests":[{"id":"q1"}]}`, string(data))

	require.NoError(t, backend.Delete(ctx, "campaign"))
	_, err = backend.Get(ctx, "campaign")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPostgresAdapterIntegration(t *testing.T) {
	ctx := context.Background()

	backend, err := storage.NewPostgresBackend(ctx, testDatabaseURL)
	require.NoError(t, err)
	defer backend.Close() //nolint:errcheck

	adapter := storage.NewAdapter(backend, nil)

	tree := map[string]any{
		"quests":      []any{map[string]any{"id": "q1", "title": "The Iron Road"}},
		"preferences": map[string]any{"theme": "dark"},
	}
	require.True(t, adapter.Save(ctx, "it-campaign", tree))
	assert.Equal(t, tree, adapter.Load(ctx, "it-campaign"))

	adapter.Remove(ctx, "it-campaign")
	assert.Nil(t, adapter.Load(ctx, "it-campaign"))
}

func TestMigratorIntegration(t *testing.T) {
	migrator, err := storage.NewMigrator(testDatabaseURL)
	require.NoError(t, err)
	defer migrator.Close() //nolint:errcheck

	require.NoError(t, migrator.Up())

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.GreaterOrEqual(t, version, uint(1))

	// Up is idempotent.
	require.NoError(t, migrator.Up())
}
