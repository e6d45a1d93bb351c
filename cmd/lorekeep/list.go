// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"encoding/json"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/chronicle"
)

// NewListCmd creates the list subcommand.
func NewListCmd() *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List the records of a collection",
		Long: `Print the records of a collection as pretty-printed JSON.
Collections: ` + strings.Join(chronicle.CollectionNames(), ", ") + `.

The --where flag filters records with a boolean expression over
record fields, e.g.:

  lorekeep list quests --where 'status = "ongoing" and type != "side"'
  lorekeep list factions --where 'influence >= 50 or name ~ "Iron*"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd.Flags(), nil)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			records, err := a.repo.FilterCollection(args[0], where)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return oops.Code("LIST_FAILED").Wrap(err)
			}
			cmd.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "filter expression")
	return cmd
}

// NewResetCmd creates the reset subcommand.
func NewResetCmd() *cobra.Command {
	var clearStorage bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the campaign to its initial empty state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd.Flags(), nil)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			a.store.Reset(cmd.Context(), clearStorage)
			cmd.Println("campaign reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearStorage, "clear-storage", false, "also remove persisted blobs")
	return cmd
}
