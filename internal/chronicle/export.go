// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"

	"github.com/lorekeep/lorekeep/internal/schema"
)

// ExportVersion is the document format version written by Export.
// Import accepts any document whose version satisfies
// importConstraint.
const ExportVersion = "1.0.0"

const importConstraint = "^1"

func init() {
	schema.RegisterExportTarget(&ExportDocument{})
}

// ExportDocument is the portable snapshot format for a whole campaign.
type ExportDocument struct {
	Version    string         `json:"version" jsonschema:"required,description=Export format version"`
	ExportedAt time.Time      `json:"exportedAt" jsonschema:"required,description=Timestamp of the export"`
	State      map[string]any `json:"state" jsonschema:"required,description=Complete campaign state tree"`
}

// Export writes a pretty-printed snapshot of the current tree to w.
func (r *Repository) Export(w io.Writer) error {
	doc := ExportDocument{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		State:      r.store.Snapshot(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return oops.Code("EXPORT_FAILED").Wrapf(err, "failed to encode export document")
	}
	return nil
}

// Import replaces the whole tree with the snapshot read from rd. The
// document version must satisfy the import constraint and the embedded
// state must pass full schema validation; a rejected import leaves the
// current tree untouched.
func (r *Repository) Import(ctx context.Context, rd io.Reader) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return oops.Code("IMPORT_FAILED").Wrapf(err, "failed to read import document")
	}

	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return invalidArgumentf("import document is not valid JSON: %s", err)
	}
	if doc.Version == "" {
		return invalidArgumentf("import document has no version")
	}

	v, err := semver.NewVersion(doc.Version)
	if err != nil {
		return invalidArgumentf("import document version %q is not a semantic version", doc.Version)
	}
	c, err := semver.NewConstraint(importConstraint)
	if err != nil {
		return oops.Code("IMPORT_FAILED").Wrapf(err, "invalid import constraint")
	}
	if !c.Check(v) {
		return invalidArgumentf("import document version %s is not compatible with %s", doc.Version, importConstraint)
	}

	if doc.State == nil {
		return invalidArgumentf("import document has no state")
	}
	if issues := schema.ValidateState(doc.State, r.schema); len(issues) > 0 {
		if r.metrics != nil {
			r.metrics.RecordValidationFailure()
		}
		r.logger.Warn("import rejected by schema validation", "issues", len(issues))
		return validationFailed(issues)
	}

	if err := r.store.Replace(ctx, doc.State, true); err != nil {
		return invalidArgumentf("%s", err)
	}
	r.logger.Info("campaign imported", "version", doc.Version)
	return nil
}
