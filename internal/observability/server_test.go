// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package observability_test

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugboard/plugboard/internal/observability"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	var ready atomic.Bool
	srv := observability.NewServer("127.0.0.1:0", ready.Load)

	errCh, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))
		for range errCh {
		}
	})

	base := "http://" + srv.Addr()

	code, body := get(t, base+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	code, _ = get(t, base+"/healthz/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, code, "not ready before the first load pass")

	ready.Store(true)
	code, _ = get(t, base+"/healthz/readiness")
	assert.Equal(t, http.StatusOK, code)

	srv.Metrics().PluginsLoaded.Inc()
	srv.Metrics().PluginsRegistered.Set(3)
	srv.Metrics().LoadFailures.WithLabelValues("missing_descriptor").Inc()

	code, body = get(t, base+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "plugboard_plugins_loaded_total 1")
	assert.Contains(t, body, "plugboard_plugins_registered 3")
	assert.Contains(t, body, `plugboard_plugin_load_failures_total{reason="missing_descriptor"} 1`)
}

func TestServer_DoubleStartFails(t *testing.T) {
	srv := observability.NewServer("127.0.0.1:0", nil)

	errCh, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))
		for range errCh {
		}
	})

	_, err = srv.Start()
	assert.Error(t, err)
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	srv := observability.NewServer("127.0.0.1:0", nil)
	assert.NoError(t, srv.Stop(context.Background()))
}
