// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"encoding/json"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/chronicle"
	"github.com/lorekeep/lorekeep/internal/schema"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate the stored campaign or an export file",
		Long: `Without arguments, validate the currently stored campaign state
against the schema. With a file argument, validate an exported
snapshot without touching the stored state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return validateExportFile(cmd, args[0])
			}

			a, err := newApp(cmd.Context(), cmd.Flags(), nil)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			issues := schema.ValidateState(a.store.Snapshot(), chronicle.StateSchema())
			return reportIssues(cmd, issues)
		},
	}
}

func validateExportFile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oops.Code("VALIDATE_FAILED").With("path", path).Wrap(err)
	}

	// Structural check against the generated JSON Schema first, then
	// the domain-level state validation.
	if err := schema.ValidateExport(data); err != nil {
		return err
	}

	var doc chronicle.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return oops.Code("VALIDATE_FAILED").With("path", path).Wrapf(err, "parsing export document")
	}

	issues := schema.ValidateState(doc.State, chronicle.StateSchema())
	return reportIssues(cmd, issues)
}

func reportIssues(cmd *cobra.Command, issues []string) error {
	if len(issues) == 0 {
		cmd.Println("valid")
		return nil
	}
	for _, issue := range issues {
		cmd.Println(issue)
	}
	return oops.Code("VALIDATE_FAILED").Errorf("%d validation issue(s)", len(issues))
}
