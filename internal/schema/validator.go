// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package schema validates state trees against declarative schema
// descriptions and maintains the canonical JSON Schema artifact.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Schema is a declarative description of one value in the state tree.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Enum       []any              `json:"enum,omitempty"`
	Minimum    *float64           `json:"minimum,omitempty"`
	Maximum    *float64           `json:"maximum,omitempty"`
	Format     string             `json:"format,omitempty"`
}

// StateSchema describes a state tree, keyed by top-level state key.
type StateSchema map[string]*Schema

// Float is a convenience constructor for Minimum/Maximum bounds.
func Float(v float64) *float64 {
	return &v
}

// ValidateState checks state against schema and returns every violation
// as a human-readable, path-prefixed message. An empty result means the
// state is valid. Validation is exhaustive: it never stops at the first
// error. Keys present in state but absent from the schema are ignored.
func ValidateState(state map[string]any, schema StateSchema) []string {
	keys := make([]string, 0, len(schema))
	for key := range schema {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []string
	for _, key := range keys {
		value, ok := state[key]
		if !ok {
			errs = append(errs, "Missing required state key: "+key)
			continue
		}
		for _, msg := range validateValue(value, schema[key]) {
			errs = append(errs, key+": "+msg)
		}
	}
	return errs
}

// validateValue checks a single value against its schema, returning
// messages without the caller's path prefix.
func validateValue(value any, s *Schema) []string {
	if s == nil {
		return nil
	}

	var errs []string
	switch s.Type {
	case "array":
		errs = append(errs, validateArray(value, s)...)
	case "object":
		errs = append(errs, validateObject(value, s)...)
	case "string":
		errs = append(errs, validateString(value, s)...)
	case "number", "integer":
		errs = append(errs, validateNumber(value, s)...)
	case "boolean":
		if _, ok := value.(bool); !ok {
			errs = append(errs, "must be a boolean")
		}
	}

	if len(s.Enum) > 0 && !enumContains(s.Enum, value) {
		errs = append(errs, "must be one of "+enumList(s.Enum))
	}
	return errs
}

func validateArray(value any, s *Schema) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{"must be an array"}
	}
	if s.Items == nil {
		return nil
	}
	var errs []string
	for i, item := range items {
		for _, msg := range validateValue(item, s.Items) {
			errs = append(errs, fmt.Sprintf("Item %d: %s", i, msg))
		}
	}
	return errs
}

func validateObject(value any, s *Schema) []string {
	obj, ok := value.(map[string]any)
	if !ok {
		return []string{"must be an object"}
	}

	var errs []string
	for _, name := range s.Required {
		if _, present := obj[name]; !present {
			errs = append(errs, "Missing required property: "+name)
		}
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propValue, present := obj[name]
		// Absent and null optional properties are not validated.
		if !present || propValue == nil {
			continue
		}
		for _, msg := range validateValue(propValue, s.Properties[name]) {
			errs = append(errs, name+": "+msg)
		}
	}
	return errs
}

func validateString(value any, s *Schema) []string {
	str, ok := value.(string)
	if !ok {
		return []string{"must be a string"}
	}
	if s.Format == "date-time" {
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return []string{"must be a valid date-time"}
		}
	}
	return nil
}

func validateNumber(value any, s *Schema) []string {
	num, ok := asFloat(value)
	if !ok {
		return []string{"must be a number"}
	}
	var errs []string
	if s.Minimum != nil && num < *s.Minimum {
		errs = append(errs, fmt.Sprintf("must be >= %v", *s.Minimum))
	}
	if s.Maximum != nil && num > *s.Maximum {
		errs = append(errs, fmt.Sprintf("must be <= %v", *s.Maximum))
	}
	return errs
}

// asFloat normalizes the numeric types a state tree can carry.
// Trees that went through a JSON round trip only hold float64, but
// freshly constructed trees may still carry Go integer types.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func enumContains(enum []any, value any) bool {
	for _, allowed := range enum {
		if equalScalar(allowed, value) {
			return true
		}
	}
	return false
}

// equalScalar compares enum members with numeric normalization so that
// an int enum matches a float64 decoded from JSON.
func equalScalar(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return a == b
}

func enumList(enum []any) string {
	parts := make([]string, len(enum))
	for i, v := range enum {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
