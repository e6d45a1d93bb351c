// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package storage provides key-value blob storage backends and the
// persistence adapter layered on top of them.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Get when the key has no stored value.
var ErrNotFound = errors.New("key not found")

// Backend stores opaque blobs under string keys.
type Backend interface {
	// Get retrieves the blob stored under key.
	// Returns ErrNotFound if the key has no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any existing value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the value stored under key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all stored values.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
