// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package chronicle defines the campaign entities and the typed
// repository CRUD surface over the state store.
package chronicle

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// MaxNameLength bounds entity names and titles.
const MaxNameLength = 200

// Entity is the base shape shared by all collection members.
// IDs are ULIDs (timestamp plus random suffix), generated at creation
// and never reassigned. UpdatedAt >= CreatedAt always holds.
type Entity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEntity creates a base entity with a fresh ID and timestamps.
func NewEntity() Entity {
	now := time.Now().UTC()
	return Entity{
		ID:        ulid.Make().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EntityID returns the entity's ID.
func (e Entity) EntityID() string {
	return e.ID
}

// touch stamps UpdatedAt, keeping it monotonically non-decreasing.
func (e *Entity) touch() {
	now := time.Now().UTC()
	if now.Before(e.UpdatedAt) {
		return
	}
	e.UpdatedAt = now
}

// validateBase checks the invariants every entity shares.
func (e *Entity) validateBase() error {
	if e.ID == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if _, err := ulid.Parse(e.ID); err != nil {
		return &ValidationError{Field: "id", Message: "must be a valid ULID"}
	}
	if e.CreatedAt.IsZero() {
		return &ValidationError{Field: "createdAt", Message: "cannot be zero"}
	}
	if e.UpdatedAt.Before(e.CreatedAt) {
		return &ValidationError{Field: "updatedAt", Message: "cannot precede createdAt"}
	}
	return nil
}

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validateName checks a required name or title field.
func validateName(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "cannot be empty"}
	}
	if len(value) > MaxNameLength {
		return &ValidationError{Field: field, Message: fmt.Sprintf("exceeds maximum length of %d", MaxNameLength)}
	}
	return nil
}

// addID appends id to list if absent. Set semantics over an ordered
// sequence: adding twice is a no-op, order of first insertion wins.
func addID(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

// removeID filters id out of list by value.
func removeID(list []string, id string) []string {
	out := list[:0]
	for _, existing := range list {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// containsID reports whether list holds id.
func containsID(list []string, id string) bool {
	for _, existing := range list {
		if existing == id {
			return true
		}
	}
	return false
}
