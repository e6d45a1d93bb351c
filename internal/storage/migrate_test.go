// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package storage

import (
	"errors"
	"regexp"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/pkg/errutil"
)

func TestNewMigratorInvalidURL(t *testing.T) {
	_, err := NewMigrator("invalid://url")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

// postgres:// and postgresql:// URLs are rewritten to pgx5:// so that
// golang-migrate picks the registered pgx driver. The rewrite succeeding
// shows up as a connection error rather than an unknown-driver error.
func TestNewMigratorSchemeRewrite(t *testing.T) {
	for _, url := range []string{
		"postgres://localhost:1/lorekeep",
		"postgresql://localhost:1/lorekeep",
	} {
		_, err := NewMigrator(url)
		require.Error(t, err, "should fail due to connection, not URL scheme")
		assert.NotContains(t, err.Error(), "unknown driver")
	}
}

// mockMigrate implements migrateIface for testing.
type mockMigrate struct {
	upErr          error
	downErr        error
	versionVal     uint
	versionErr     error
	dirty          bool
	closeSourceErr error
	closeDBErr     error
}

func (m *mockMigrate) Up() error                    { return m.upErr }
func (m *mockMigrate) Down() error                  { return m.downErr }
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Close() (error, error)        { return m.closeSourceErr, m.closeDBErr }

func TestMigratorUp(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Up())
	require.NoError(t, (&Migrator{m: &mockMigrate{upErr: migrate.ErrNoChange}}).Up(),
		"ErrNoChange should be treated as success")

	err := (&Migrator{m: &mockMigrate{upErr: errors.New("database locked")}}).Up()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_UP_FAILED")
}

func TestMigratorDown(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Down())
	require.NoError(t, (&Migrator{m: &mockMigrate{downErr: migrate.ErrNoChange}}).Down())

	err := (&Migrator{m: &mockMigrate{downErr: errors.New("constraint violation")}}).Down()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_DOWN_FAILED")
}

func TestMigratorVersion(t *testing.T) {
	version, dirty, err := (&Migrator{m: &mockMigrate{versionVal: 1}}).Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	version, dirty, err = (&Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Version()
	require.NoError(t, err, "nil version means no migrations applied yet")
	assert.Zero(t, version)
	assert.False(t, dirty)

	_, _, err = (&Migrator{m: &mockMigrate{versionErr: errors.New("boom")}}).Version()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
}

func TestMigratorClose(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Close())

	err := (&Migrator{m: &mockMigrate{closeSourceErr: errors.New("source busy")}}).Close()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")

	err = (&Migrator{m: &mockMigrate{closeDBErr: errors.New("db busy")}}).Close()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
}

func TestMigrationsFSEmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err, "should read embedded migrations directory")
	require.NotEmpty(t, entries)

	pattern := regexp.MustCompile(`^\d{3}_\w+\.(up|down)\.sql$`)
	names := make(map[string]bool)
	for _, entry := range entries {
		names[entry.Name()] = true
		assert.True(t, pattern.MatchString(entry.Name()),
			"file %s should match pattern NNN_name.(up|down).sql", entry.Name())
	}
	assert.True(t, names["001_create_blobs.up.sql"])
	assert.True(t, names["001_create_blobs.down.sql"])
}
