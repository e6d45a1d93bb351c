// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(ctx, "k", []byte("v1")))
	data, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	require.NoError(t, b.Put(ctx, "k", []byte("v2")))
	data, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackendDefensiveCopies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	original := []byte("stable")
	require.NoError(t, b.Put(ctx, "k", original))
	original[0] = 'X'

	data, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "stable", string(data))

	// Mutating the returned slice must not affect the stored blob.
	data[0] = 'Y'
	again, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "stable", string(again))
}

func TestMemoryBackendClear(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	require.NoError(t, b.Put(ctx, "one", []byte("1")))
	require.NoError(t, b.Put(ctx, "two", []byte("2")))
	assert.Equal(t, 2, b.Len())

	require.NoError(t, b.Clear(ctx))
	assert.Zero(t, b.Len())
}

func TestMemoryBackendConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = b.Put(ctx, "shared", []byte("v"))
				_, _ = b.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	data, err := b.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "v", string(data))
}
