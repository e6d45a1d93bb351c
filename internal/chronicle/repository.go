// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/lorekeep/lorekeep/internal/schema"
	"github.com/lorekeep/lorekeep/internal/state"
)

// ValidationRecorder receives a tick per rejected mutation.
type ValidationRecorder interface {
	RecordValidationFailure()
}

// Repository is the typed CRUD surface over a state store holding the
// campaign tree. Every mutation is schema-validated against a preview
// of the resulting tree before it is applied, so a validation failure
// leaves both memory and storage untouched.
type Repository struct {
	store   *state.Store
	schema  schema.StateSchema
	logger  *slog.Logger
	metrics ValidationRecorder
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// WithMetrics attaches a validation-failure recorder.
func WithMetrics(m ValidationRecorder) Option {
	return func(r *Repository) { r.metrics = m }
}

// NewRepository creates a repository over store. The store is expected
// to hold the tree shape produced by InitialState.
func NewRepository(store *state.Store, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		schema: StateSchema(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store exposes the underlying state store for subscription wiring.
func (r *Repository) Store() *state.Store {
	return r.store
}

// SetMetrics attaches a validation-failure recorder after construction.
func (r *Repository) SetMetrics(m ValidationRecorder) {
	r.metrics = m
}

// colRef addresses a collection array in the tree, either a top-level
// key or one level down inside a sub-record (the guild ledger).
type colRef struct {
	top string
	sub string
}

// Collection names accepted by RawCollection and the CLI list command.
var collectionRefs = map[string]colRef{
	"quests":           {top: KeyQuests},
	"notes":            {top: KeyNotes},
	"items":            {top: KeyItems},
	"locations":        {top: KeyLocations},
	"players":          {top: KeyPlayers},
	"factions":         {top: KeyFactions},
	"guild-activities": {top: KeyGuild, sub: keyActivities},
	"guild-resources":  {top: KeyGuild, sub: keyResources},
}

// CollectionNames lists the addressable collections.
func CollectionNames() []string {
	names := make([]string, 0, len(collectionRefs))
	for name := range collectionRefs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RawCollection returns the named collection as raw entity maps, in
// storage order. Unknown names yield an InvalidArgument error.
func (r *Repository) RawCollection(name string) ([]map[string]any, error) {
	ref, ok := collectionRefs[name]
	if !ok {
		return nil, invalidArgumentf("unknown collection %q", name)
	}
	raw := r.rawCollection(ref)
	out := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// rawCollection reads a collection array from the live tree.
func (r *Repository) rawCollection(ref colRef) []any {
	tree := r.store.Tree()
	value := tree[ref.top]
	if ref.sub != "" {
		sub, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value = sub[ref.sub]
	}
	arr, _ := value.([]any)
	return arr
}

// partialFor builds the store update partial that replaces the
// collection array addressed by ref.
func (r *Repository) partialFor(ref colRef, arr []any) map[string]any {
	if ref.sub == "" {
		return map[string]any{ref.top: arr}
	}
	return map[string]any{ref.top: map[string]any{ref.sub: arr}}
}

// commit validates the candidate tree a partial update would produce,
// then applies it. Rejection leaves the store untouched.
func (r *Repository) commit(ctx context.Context, partial map[string]any) error {
	candidate, err := r.store.Preview(partial)
	if err != nil {
		return invalidArgumentf("%s", err)
	}
	if issues := schema.ValidateState(candidate, r.schema); len(issues) > 0 {
		if r.metrics != nil {
			r.metrics.RecordValidationFailure()
		}
		r.logger.Warn("mutation rejected by schema validation", "issues", len(issues))
		return validationFailed(issues)
	}
	r.store.Update(ctx, partial, true)
	return nil
}

// record is satisfied by every entity via the embedded Entity.
type record interface {
	EntityID() string
}

// decodeSlice converts raw collection entries into typed entities.
func decodeSlice[T any](raw []any) ([]*T, error) {
	if raw == nil {
		return []*T{}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("collection not serializable: %w", err)
	}
	var out []*T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("collection shape mismatch: %w", err)
	}
	if out == nil {
		out = []*T{}
	}
	return out, nil
}

// encodeItems converts typed entities back into raw collection entries.
func encodeItems[T any](items []*T) ([]any, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("entities not serializable: %w", err)
	}
	var out []any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

// toMap converts one entity into its raw tree form.
func toMap(item any) (map[string]any, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("entity not serializable: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// addEntity appends a validated entity to its collection.
func addEntity[T record](ctx context.Context, r *Repository, ref colRef, item *T) error {
	entry, err := toMap(item)
	if err != nil {
		return invalidArgumentf("%s", err)
	}
	raw := slices.Clone(r.rawCollection(ref))
	raw = append(raw, entry)
	return r.commit(ctx, r.partialFor(ref, raw))
}

// getEntity finds an entity by id with a linear scan.
func getEntity[T record](r *Repository, ref colRef, kind, id string) (*T, error) {
	if id == "" {
		return nil, invalidArgumentf("%s id cannot be empty", kind)
	}
	items, err := decodeSlice[T](r.rawCollection(ref))
	if err != nil {
		return nil, invalidArgumentf("%s", err)
	}
	for _, item := range items {
		if (*item).EntityID() == id {
			return item, nil
		}
	}
	return nil, notFoundf(kind, id)
}

// listEntities decodes the full collection.
func listEntities[T record](r *Repository, ref colRef) ([]*T, error) {
	items, err := decodeSlice[T](r.rawCollection(ref))
	if err != nil {
		return nil, invalidArgumentf("%s", err)
	}
	return items, nil
}

// replaceEntity swaps the stored entity with the given one, matched by
// id, and commits the collection.
func replaceEntity[T record](ctx context.Context, r *Repository, ref colRef, kind string, item *T) error {
	items, err := decodeSlice[T](r.rawCollection(ref))
	if err != nil {
		return invalidArgumentf("%s", err)
	}
	found := false
	for i := range items {
		if (*items[i]).EntityID() == (*item).EntityID() {
			items[i] = item
			found = true
			break
		}
	}
	if !found {
		return notFoundf(kind, (*item).EntityID())
	}
	arr, err := encodeItems(items)
	if err != nil {
		return invalidArgumentf("%s", err)
	}
	return r.commit(ctx, r.partialFor(ref, arr))
}

// deleteEntity filters the entity out of its collection. NotFound if
// the collection length is unchanged after filtering.
func deleteEntity(ctx context.Context, r *Repository, ref colRef, kind, id string) error {
	if id == "" {
		return invalidArgumentf("%s id cannot be empty", kind)
	}
	raw := r.rawCollection(ref)
	filtered := make([]any, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if ok && m["id"] == id {
			continue
		}
		filtered = append(filtered, entry)
	}
	if len(filtered) == len(raw) {
		return notFoundf(kind, id)
	}
	return r.commit(ctx, r.partialFor(ref, filtered))
}

// modifyEntity fetches an entity, applies fn to it, re-validates, and
// commits the result. fn works on a private copy: an error from fn or
// from validation leaves the store untouched.
func modifyEntity[T record](ctx context.Context, r *Repository, ref colRef, kind, id string, validate func(*T) error, fn func(*T) error) (*T, error) {
	item, err := getEntity[T](r, ref, kind, id)
	if err != nil {
		return nil, err
	}
	if err := fn(item); err != nil {
		return nil, invalidArgumentf("%s", err)
	}
	if err := validate(item); err != nil {
		return nil, invalidArgumentf("%s", err)
	}
	if err := replaceEntity(ctx, r, ref, kind, item); err != nil {
		return nil, err
	}
	return item, nil
}
