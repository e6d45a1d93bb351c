// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package script

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/pkg/errutil"
)

func writeScript(t *testing.T, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hook.lua")
	require.NoError(t, os.WriteFile(path, []byte(code), 0o600))
	return path
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLoad(t *testing.T) {
	path := writeScript(t, `
function on_change(event)
end
`)
	h, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "hook.lua", h.name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.lua"), nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SCRIPT_LOAD_FAILED")
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeScript(t, `function on_change( broken`)
	_, err := Load(context.Background(), path, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SCRIPT_LOAD_FAILED")
}

func TestSubscriberInvokesHandler(t *testing.T) {
	// The handler sees the snapshot as a JSON string on event.state and
	// raises when the expected key is absent.
	path := writeScript(t, `
function on_change(event)
	if not string.find(event.state, "quests", 1, true) then
		error("snapshot missing quests")
	end
end
`)
	logger, buf := captureLogger()
	h, err := Load(context.Background(), path, logger)
	require.NoError(t, err)

	sub := h.Subscriber(context.Background())

	sub(map[string]any{"quests": []any{}})
	assert.Empty(t, buf.String())

	sub(map[string]any{"notes": []any{}})
	assert.Contains(t, buf.String(), "hook script failed")
	assert.Contains(t, buf.String(), "snapshot missing quests")
}

func TestSubscriberWithoutHandler(t *testing.T) {
	path := writeScript(t, `local greeting = "hello"`)
	logger, buf := captureLogger()
	h, err := Load(context.Background(), path, logger)
	require.NoError(t, err)

	// No on_change handler is fine; the change is simply ignored.
	h.Subscriber(context.Background())(map[string]any{"quests": []any{}})
	assert.Empty(t, buf.String())
}

func TestSubscriberSwallowsScriptErrors(t *testing.T) {
	path := writeScript(t, `
function on_change(event)
	error("always fails")
end
`)
	logger, buf := captureLogger()
	h, err := Load(context.Background(), path, logger)
	require.NoError(t, err)

	// The callback never panics or returns an error to the caller.
	h.Subscriber(context.Background())(map[string]any{})
	assert.Contains(t, buf.String(), "always fails")
}

func TestSandboxBlocksUnsafeLibraries(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "os", code: `local d = os.date()`},
		{name: "io", code: `io.write("x")`},
		{name: "dofile", code: `dofile("/etc/passwd")`},
		{name: "loadfile", code: `loadfile("/etc/passwd")`},
		{name: "loadstring", code: `loadstring("return 1")`},
		{name: "load", code: `load("return 1")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, tt.code)
			_, err := Load(context.Background(), path, nil)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "SCRIPT_LOAD_FAILED")
		})
	}
}

func TestSandboxAllowsSafeLibraries(t *testing.T) {
	path := writeScript(t, `
local t = {3, 1, 2}
table.sort(t)
local s = string.format("%d-%d", t[1], math.max(t[2], t[3]))
assert(s == "1-3")
`)
	_, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
}
