// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package script runs user-supplied Lua hooks against state changes.
// Scripts execute in a sandboxed interpreter with no filesystem or
// process access, so a hook can react to campaign changes without
// being able to damage the host.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// safeLibrary is a Lua library safe to load in a sandboxed state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// Safe: base, table, string, math. Blocked: os, io, debug, package.
func defaultSafeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// unsafeBaseFunctions lists base library functions that must be blocked.
// They allow loading arbitrary code from the filesystem.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load"}

// Hook holds a validated Lua script and runs its on_change handler for
// each state change. Every invocation gets a fresh interpreter state,
// so a misbehaving script cannot poison later runs.
type Hook struct {
	name   string
	code   string
	logger *slog.Logger
}

// Load reads and syntax-checks a Lua hook script.
func Load(ctx context.Context, path string, logger *slog.Logger) (*Hook, error) {
	if logger == nil {
		logger = slog.Default()
	}

	code, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.Code("SCRIPT_LOAD_FAILED").With("path", path).Wrapf(err, "failed to read hook script")
	}

	L, err := newSandboxedState(ctx)
	if err != nil {
		return nil, err
	}
	defer L.Close()

	if err := L.DoString(string(code)); err != nil {
		return nil, oops.Code("SCRIPT_LOAD_FAILED").With("path", path).Hint("syntax error").Wrap(err)
	}

	return &Hook{
		name:   filepath.Base(path),
		code:   string(code),
		logger: logger,
	}, nil
}

// Subscriber returns a state-change callback suitable for
// state.Store.Subscribe. Script errors are logged and swallowed; a
// hook failure never affects the mutation that triggered it.
func (h *Hook) Subscriber(ctx context.Context) func(map[string]any) {
	return func(snapshot map[string]any) {
		if err := h.run(ctx, snapshot); err != nil {
			h.logger.Error("hook script failed",
				"script", h.name,
				"error", err)
		}
	}
}

// run executes on_change(event) against a fresh sandboxed state. The
// event table carries the snapshot as a JSON string; scripts decode
// what they need with string functions or pass it on verbatim.
func (h *Hook) run(ctx context.Context, snapshot map[string]any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return oops.Code("SCRIPT_RUN_FAILED").Wrapf(err, "failed to encode snapshot")
	}

	L, err := newSandboxedState(ctx)
	if err != nil {
		return err
	}
	defer L.Close()
	L.SetContext(ctx)

	if err := L.DoString(h.code); err != nil {
		return oops.Code("SCRIPT_RUN_FAILED").With("script", h.name).Wrap(err)
	}

	onChange := L.GetGlobal("on_change")
	if onChange.Type() == lua.LTNil {
		h.logger.Debug("hook script defines no on_change handler", "script", h.name)
		return nil
	}

	event := L.NewTable()
	event.RawSetString("state", lua.LString(data))

	if err := L.CallByParam(lua.P{
		Fn:      onChange,
		NRet:    0,
		Protect: true,
	}, event); err != nil {
		return oops.Code("SCRIPT_RUN_FAILED").With("script", h.name).Wrapf(err, "on_change failed")
	}
	return nil
}

// newSandboxedState creates a Lua state with only safe libraries.
func newSandboxedState(_ context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	for _, lib := range defaultSafeLibraries() {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("failed to open library %s: %w", lib.name, err)
		}
	}

	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}

	return L, nil
}
