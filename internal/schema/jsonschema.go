// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaID is the canonical identifier of the export document schema.
const SchemaID = "https://lorekeep.dev/schemas/export.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jschema.Schema
	compileErr     error
)

// exportTarget is set by the chronicle package at init time to avoid an
// import cycle; it is the struct reflected into the export schema.
var exportTarget any

// RegisterExportTarget declares the struct the export schema is
// generated from. Must be called before Generate or ValidateExport.
func RegisterExportTarget(v any) {
	exportTarget = v
}

// Generate reflects the registered export document type into a JSON
// Schema, pretty-printed for the artifact file.
func Generate() ([]byte, error) {
	if exportTarget == nil {
		return nil, fmt.Errorf("no export target registered")
	}

	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(exportTarget)
	s.ID = jsonschema.ID(SchemaID)
	s.Title = "Lorekeep Export Document"
	s.Description = "Schema for exported campaign snapshots"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// ValidateExport validates a raw export document against the compiled
// JSON Schema. Used by the CLI as a structural pre-check before the
// state-level validation in ValidateState.
func ValidateExport(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("export document is empty")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema compiles the generated schema once and caches it.
func getCompiledSchema() (*jschema.Schema, error) {
	compileOnce.Do(func() {
		schemaBytes, err := Generate()
		if err != nil {
			compileErr = err
			return
		}

		var schemaData any
		if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
			compileErr = fmt.Errorf("failed to parse schema JSON: %w", err)
			return
		}

		c := jschema.NewCompiler()
		if err := c.AddResource("export.schema.json", schemaData); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}

		compiledSchema, compileErr = c.Compile("export.schema.json")
	})
	return compiledSchema, compileErr
}
