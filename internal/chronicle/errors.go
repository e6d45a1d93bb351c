// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"errors"

	"github.com/samber/oops"
)

// Sentinel errors for the repository error taxonomy. Raised wrapped in
// oops errors carrying codes and context; match with errors.Is.
var (
	// ErrInvalidArgument flags a bad id, entity, or update request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound flags an id absent from its collection.
	ErrNotFound = errors.New("not found")

	// ErrValidationFailed flags a schema check failure on save or
	// import. The full path-prefixed error list travels in the oops
	// context under "errors".
	ErrValidationFailed = errors.New("validation failed")
)

// Error codes attached to repository errors.
const (
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
)

func invalidArgumentf(format string, args ...any) error {
	return oops.Code(CodeInvalidArgument).Wrapf(ErrInvalidArgument, format, args...)
}

func notFoundf(kind, id string) error {
	return oops.Code(CodeNotFound).
		With("kind", kind).
		With("id", id).
		Wrapf(ErrNotFound, "%s %s", kind, id)
}

func validationFailed(errs []string) error {
	return oops.Code(CodeValidationFailed).
		With("errors", errs).
		Wrapf(ErrValidationFailed, "state failed schema validation with %d error(s)", len(errs))
}

// ValidationIssues extracts the path-prefixed error list from a
// validation failure, or nil for other errors. UI collaborators use it
// to surface the individual messages.
func ValidationIssues(err error) []string {
	if !errors.Is(err, ErrValidationFailed) {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	issues, _ := oopsErr.Context()["errors"].([]string)
	return issues
}
