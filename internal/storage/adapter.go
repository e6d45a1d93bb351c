// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
)

// SaveRecorder receives the outcome of every save attempt.
// Wired to prometheus counters in serve mode; nil disables recording.
type SaveRecorder interface {
	RecordSave(success bool)
}

// Adapter serializes values to JSON blobs in a Backend. It is the only
// layer that sees backend errors: every failure is logged and reported
// as a false/nil result, never an error value.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
	metrics SaveRecorder
}

// NewAdapter creates a persistence adapter over backend.
// If logger is nil, slog.Default() is used.
func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{backend: backend, logger: logger}
}

// SetMetrics attaches a save recorder. Safe to leave unset.
func (a *Adapter) SetMetrics(m SaveRecorder) {
	a.metrics = m
}

// validKey reports whether key may be used against the backend.
func validKey(key string) bool {
	return strings.TrimSpace(key) != ""
}

// Save serializes value and writes it under key.
// Returns false on invalid key, serialization failure, or backend
// failure; the backend is never touched with an invalid key.
func (a *Adapter) Save(ctx context.Context, key string, value any) bool {
	ok := a.save(ctx, key, value)
	if a.metrics != nil {
		a.metrics.RecordSave(ok)
	}
	return ok
}

func (a *Adapter) save(ctx context.Context, key string, value any) bool {
	if !validKey(key) {
		a.logger.Warn("save rejected: invalid key", "key", key)
		return false
	}

	data, err := json.Marshal(value)
	if err != nil {
		a.logger.Error("save failed: value not serializable", "key", key, "error", err)
		return false
	}

	if err := a.backend.Put(ctx, key, data); err != nil {
		a.logger.Error("save failed: backend write error", "key", key, "error", err)
		return false
	}
	return true
}

// Load reads and deserializes the blob stored under key.
// Returns nil for an invalid key, a missing key, an empty or
// whitespace-only blob, or malformed content. The distinction between
// "nothing stored" and "stored but unparsable" is visible only in logs.
func (a *Adapter) Load(ctx context.Context, key string) any {
	if !validKey(key) {
		a.logger.Warn("load rejected: invalid key", "key", key)
		return nil
	}

	data, err := a.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		a.logger.Debug("load: nothing stored", "key", key)
		return nil
	}
	if err != nil {
		a.logger.Error("load failed: backend read error", "key", key, "error", err)
		return nil
	}

	if strings.TrimSpace(string(data)) == "" {
		a.logger.Warn("load: stored blob is empty", "key", key)
		return nil
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		a.logger.Error("load failed: stored blob is malformed", "key", key, "error", err)
		return nil
	}
	return value
}

// Remove deletes the blob stored under key. Failures are logged.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if !validKey(key) {
		a.logger.Warn("remove rejected: invalid key", "key", key)
		return
	}
	if err := a.backend.Delete(ctx, key); err != nil {
		a.logger.Error("remove failed", "key", key, "error", err)
	}
}

// ClearAll deletes every blob in the backend. Failures are logged.
func (a *Adapter) ClearAll(ctx context.Context) {
	if err := a.backend.Clear(ctx); err != nil {
		a.logger.Error("clear failed", "error", err)
	}
}
