// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/chronicle"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"serve", "export", "import", "validate", "list", "reset"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{
		"config", "data-dir", "backend", "database-url", "state-key",
		"log-level", "log-format", "hook-script", "observability-addr",
	} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestListEmptyCollection(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, "list", "quests", "--backend", "memory")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestListUnknownCollection(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, "list", "spells", "--backend", "memory")
	assert.ErrorIs(t, err, chronicle.ErrInvalidArgument)
}

func TestListBadFilter(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, "list", "quests", "--backend", "memory", "--where", "name =")
	assert.ErrorIs(t, err, chronicle.ErrInvalidArgument)
}

func TestValidateStoredState(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, "validate", "--backend", "memory")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestExportImportValidateFiles(t *testing.T) {
	isolateEnv(t)
	dataDir := t.TempDir()
	snapshot := filepath.Join(t.TempDir(), "campaign.json")

	_, err := runCommand(t, "export",
		"--backend", "file", "--data-dir", dataDir, "-o", snapshot)
	require.NoError(t, err)

	out, err := runCommand(t, "validate", snapshot)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = runCommand(t, "import", snapshot,
		"--backend", "file", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "import complete")
}

func TestExportWritesDocument(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, "export", "--backend", "memory")
	require.NoError(t, err)

	var doc chronicle.ExportDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, chronicle.ExportVersion, doc.Version)
	assert.Contains(t, doc.State, "quests")
}

func TestImportRejectsIncompatibleVersion(t *testing.T) {
	isolateEnv(t)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewBufferString(`{"version":"2.0.0","exportedAt":"2026-01-02T03:04:05Z","state":{}}`))
	cmd.SetArgs([]string{"import", "-", "--backend", "memory"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, chronicle.ErrInvalidArgument)
}

func TestResetCommand(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, "reset", "--backend", "memory", "--clear-storage")
	require.NoError(t, err)
	assert.Contains(t, out, "campaign reset")
}
