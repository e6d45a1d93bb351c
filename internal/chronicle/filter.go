// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"github.com/lorekeep/lorekeep/internal/query"
)

// FilterCollection returns the records of a named collection matching
// the filter expression. An empty filter returns the whole collection.
func (r *Repository) FilterCollection(name, filter string) ([]map[string]any, error) {
	records, err := r.RawCollection(name)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return records, nil
	}

	ev, err := query.Compile(filter)
	if err != nil {
		return nil, invalidArgumentf("invalid filter: %s", err)
	}

	matched := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		if ev.Matches(rec) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}
