// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"io"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export subcommand.
func NewExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a versioned snapshot of the campaign",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd.Flags(), nil)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return oops.Code("EXPORT_FAILED").With("path", output).Wrap(err)
				}
				defer f.Close() //nolint:errcheck
				w = f
			}

			return a.repo.Export(w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// NewImportCmd creates the import subcommand.
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the campaign from an exported snapshot",
		Long: `Replace the whole campaign state with a previously exported snapshot.
The snapshot must carry a compatible format version and pass full
schema validation; a rejected import leaves the current state intact.
Pass "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd.Flags(), nil)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return oops.Code("IMPORT_FAILED").With("path", args[0]).Wrap(err)
				}
				defer f.Close() //nolint:errcheck
				r = f
			}

			if err := a.repo.Import(cmd.Context(), r); err != nil {
				return err
			}
			cmd.Println("import complete")
			return nil
		},
	}
}
