// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/lorekeep/lorekeep/internal/chronicle"
	"github.com/lorekeep/lorekeep/internal/config"
	"github.com/lorekeep/lorekeep/internal/logging"
	"github.com/lorekeep/lorekeep/internal/state"
	"github.com/lorekeep/lorekeep/internal/storage"
	"github.com/lorekeep/lorekeep/internal/xdg"
)

// Deps contains injectable dependencies for command wiring. Nil fields
// use their default implementations.
type Deps struct {
	// BackendFactory creates a storage backend from config.
	// Default: newBackend
	BackendFactory func(ctx context.Context, cfg *config.Config) (storage.Backend, error)
}

func (d *Deps) backendFactory() func(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	if d != nil && d.BackendFactory != nil {
		return d.BackendFactory
	}
	return newBackend
}

// app bundles the wired runtime: config, logging, storage, the state
// store, and the typed repository on top.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend storage.Backend
	adapter *storage.Adapter
	store   *state.Store
	repo    *chronicle.Repository
}

// newApp loads config from flags and builds the full stack. The store
// has completed its initial load when newApp returns.
func newApp(ctx context.Context, flags *pflag.FlagSet, deps *Deps) (*app, error) {
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	logger := logging.Setup("lorekeep", version, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel), os.Stderr)
	slog.SetDefault(logger)

	backend, err := deps.backendFactory()(ctx, cfg)
	if err != nil {
		return nil, err
	}

	adapter := storage.NewAdapter(backend, logger)
	store, err := state.New(ctx, state.Config{
		Adapter: adapter,
		Key:     cfg.StateKey,
		Initial: chronicle.InitialState(),
		Logger:  logger,
	})
	if err != nil {
		backend.Close() //nolint:errcheck
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		adapter: adapter,
		store:   store,
		repo:    chronicle.NewRepository(store, chronicle.WithLogger(logger)),
	}, nil
}

// Close releases the storage backend.
func (a *app) Close() error {
	return a.backend.Close()
}

// newBackend constructs the backend named by cfg.Backend.
func newBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	case config.BackendFile:
		dir := filepath.Join(cfg.DataDir, "state")
		if err := xdg.EnsureDir(dir); err != nil {
			return nil, err
		}
		return storage.NewFileBackend(dir)
	case config.BackendPostgres:
		return storage.NewPostgresBackend(ctx, cfg.DatabaseURL)
	default:
		return nil, oops.Code("CONFIG_INVALID").Errorf("unknown backend %q", cfg.Backend)
	}
}
