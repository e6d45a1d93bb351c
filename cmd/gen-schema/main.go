// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Command gen-schema generates the export document JSON Schema file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lorekeep/lorekeep/internal/chronicle" // registers the export target
	"github.com/lorekeep/lorekeep/internal/schema"
)

func main() {
	data, err := schema.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join("schemas", "export.schema.json")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
