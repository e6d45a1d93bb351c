// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the lorekeep CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lorekeep",
		Short: "Lorekeep - campaign record keeping for tabletop RPGs",
		Long: `Lorekeep tracks the quests, notes, items, locations, characters,
guild ledgers, and factions of a tabletop RPG campaign in a single
validated state tree with pluggable persistence.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().String("data-dir", "", "data directory (default: XDG data dir)")
	cmd.PersistentFlags().String("backend", "", "storage backend: memory, file, or postgres")
	cmd.PersistentFlags().String("database-url", "", "postgres connection URL")
	cmd.PersistentFlags().String("state-key", "", "storage key for the campaign tree")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "log format: text or json")
	cmd.PersistentFlags().String("hook-script", "", "Lua script run on every state change")
	cmd.PersistentFlags().String("observability-addr", "", "metrics/health listen address")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewResetCmd())

	return cmd
}
