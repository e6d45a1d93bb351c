// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package observability

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecorders(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSave(true)
	m.RecordSave(false)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SavesTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SaveFailuresTotal))

	m.RecordValidationFailure()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationFailuresTotal))

	m.RecordNotification()
	m.RecordNotification()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.NotificationsTotal))
}

func startServer(t *testing.T, ready ReadinessChecker) *Server {
	t.Helper()
	srv := NewServer("127.0.0.1:0", ready)
	_, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))
	})
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test URL on loopback
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServerEndpoints(t *testing.T) {
	var ready atomic.Bool
	srv := startServer(t, ready.Load)
	base := "http://" + srv.Addr()

	status, body := get(t, base+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)

	status, body = get(t, base+"/healthz/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not ready\n", body)

	ready.Store(true)
	status, _ = get(t, base+"/healthz/readiness")
	assert.Equal(t, http.StatusOK, status)

	srv.Metrics().RecordSave(true)
	status, body = get(t, base+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "lorekeep_saves_total 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestServerReadinessWithoutChecker(t *testing.T) {
	srv := startServer(t, nil)

	status, _ := get(t, "http://"+srv.Addr()+"/healthz/readiness")
	assert.Equal(t, http.StatusOK, status)
}

func TestServerDoubleStart(t *testing.T) {
	srv := startServer(t, nil)

	_, err := srv.Start()
	assert.Error(t, err)
}

func TestServerStopIdempotent(t *testing.T) {
	srv := NewServer("127.0.0.1:0", nil)
	errCh, err := srv.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx))

	// Graceful shutdown closes the error channel without an error.
	select {
	case err, ok := <-errCh:
		assert.False(t, ok, "unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("error channel not closed after stop")
	}
}

func TestServerBadAddress(t *testing.T) {
	srv := NewServer("256.0.0.1:-1", nil)
	_, err := srv.Start()
	require.Error(t, err)

	// A failed start leaves the server stoppable and restartable.
	assert.NoError(t, srv.Stop(context.Background()))
}
