// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

// Package state provides an observable, persisted container for a
// single JSON-serializable state tree.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/lorekeep/lorekeep/internal/storage"
)

// ErrWaitCancelled is returned by WaitReady when the context expires
// before the store finishes loading.
var ErrWaitCancelled = errors.New("cancelled waiting for store readiness")

// NotificationRecorder receives a tick per subscriber notification round.
type NotificationRecorder interface {
	RecordNotification()
}

// Config describes a Store.
type Config struct {
	// Adapter persists the tree. Required.
	Adapter *storage.Adapter

	// Key is the blob key this store reads and writes. One canonical
	// key per store instance. Required.
	Key string

	// Initial is the default state tree. Its top-level keys are fixed
	// for the store's lifetime: updates targeting other keys are
	// dropped. Required.
	Initial map[string]any

	// ExtraKeys lists top-level keys that may be created at runtime
	// even though they are absent from Initial.
	ExtraKeys []string

	// SkipLoad starts from Initial without consulting the adapter.
	SkipLoad bool

	Logger  *slog.Logger
	Metrics NotificationRecorder
}

type subscriber struct {
	id int
	fn func(map[string]any)
}

// Store holds one state tree, notifies subscribers of changes, and
// persists the tree through a storage.Adapter. All operations are
// synchronous and run to completion before returning.
type Store struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	key     string
	initial map[string]any
	tree    map[string]any
	extra   map[string]struct{}
	subs    []subscriber
	nextSub int
	ready   chan struct{}
	logger  *slog.Logger
	metrics NotificationRecorder
}

// New creates a Store and resolves its load lifecycle before returning:
// a persisted blob, if present, is folded onto a copy of the defaults;
// otherwise the defaults are persisted immediately. The channel from
// Ready is closed once that resolution completes, so it is already
// closed when New returns.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Adapter == nil {
		return nil, errors.New("state: adapter is required")
	}
	if cfg.Key == "" {
		return nil, errors.New("state: blob key is required")
	}
	if cfg.Initial == nil {
		return nil, errors.New("state: initial state is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	initial, err := cloneTree(cfg.Initial)
	if err != nil {
		return nil, fmt.Errorf("state: initial state is not JSON-serializable: %w", err)
	}

	s := &Store{
		adapter: cfg.Adapter,
		key:     cfg.Key,
		initial: initial,
		extra:   make(map[string]struct{}, len(cfg.ExtraKeys)),
		ready:   make(chan struct{}),
		logger:  logger,
		metrics: cfg.Metrics,
	}
	for _, key := range cfg.ExtraKeys {
		s.extra[key] = struct{}{}
	}

	s.load(ctx, cfg.SkipLoad)
	close(s.ready)
	return s, nil
}

// load resolves the initial tree from persisted state or defaults.
func (s *Store) load(ctx context.Context, skip bool) {
	tree, err := cloneTree(s.initial)
	if err != nil {
		// initial already survived a round trip in New
		tree = map[string]any{}
	}

	if skip {
		s.tree = tree
		return
	}

	persisted, ok := s.adapter.Load(ctx, s.key).(map[string]any)
	if !ok || len(persisted) == 0 {
		s.tree = tree
		if !s.adapter.Save(ctx, s.key, s.tree) {
			s.logger.Warn("failed to persist initial state", "key", s.key)
		}
		return
	}

	// Fold persisted keys onto the defaults with the Update merge
	// policy, so a blob predating a new default key still receives
	// that key's default value.
	for _, key := range sortedKeys(persisted) {
		current, exists := tree[key]
		if !exists && !s.allowedExtra(key) {
			s.logger.Warn("ignoring unknown key in persisted state", "key", key)
			continue
		}
		tree[key] = mergeValue(current, persisted[key])
	}
	s.tree = tree
}

// Ready returns a channel closed exactly once, when the load lifecycle
// has resolved.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// SetMetrics attaches a notification recorder after construction.
func (s *Store) SetMetrics(m NotificationRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

// WaitReady blocks until the store is ready or ctx expires, returning
// ErrWaitCancelled in the latter case.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrWaitCancelled, ctx.Err())
	}
}

// Tree returns the live state tree. Callers must treat it as
// read-only; mutation-safe copies come from Snapshot or Subscribe.
func (s *Store) Tree() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Snapshot returns a deep-cloned copy of the state tree.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, err := cloneTree(s.tree)
	if err != nil {
		s.logger.Error("failed to clone state tree", "error", err)
		return nil
	}
	return snapshot
}

// Subscribe registers fn to be called synchronously, in subscription
// order, once per Update that changes the tree. Each call receives its
// own deep-cloned snapshot. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(map[string]any)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Update applies a partial update to the tree. Per top-level key:
// unknown keys are dropped with a warning; array values replace the
// existing array wholesale; non-nil plain objects shallow-merge one
// level; everything else replaces outright. If no key actually changes
// the tree, no notification and no write occur. Returns whether the
// tree changed.
func (s *Store) Update(ctx context.Context, partial map[string]any, persist bool) bool {
	if len(partial) == 0 {
		return false
	}

	normalized, err := cloneTree(partial)
	if err != nil {
		s.logger.Warn("update dropped: partial state is not JSON-serializable", "error", err)
		return false
	}

	s.mu.Lock()
	next := make(map[string]any, len(s.tree))
	for key, value := range s.tree {
		next[key] = value
	}

	changed := false
	for _, key := range sortedKeys(normalized) {
		current, exists := next[key]
		if !exists && !s.allowedExtra(key) {
			s.logger.Warn("update dropped for unknown state key", "key", key)
			continue
		}
		merged := mergeValue(current, normalized[key])
		if !reflect.DeepEqual(current, merged) {
			next[key] = merged
			changed = true
		}
	}

	if !changed {
		s.mu.Unlock()
		return false
	}

	s.tree = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.notify(subs)

	if persist {
		if !s.adapter.Save(ctx, s.key, next) {
			// In-memory state and the persisted blob may now diverge;
			// the applied mutation stands.
			s.logger.Error("state write failed", "key", s.key)
		}
	}
	return true
}

// Preview returns a deep-cloned candidate tree with partial applied
// under the Update merge policy, without mutating the store. Callers
// use it to validate a mutation before committing it.
func (s *Store) Preview(partial map[string]any) (map[string]any, error) {
	normalized, err := cloneTree(partial)
	if err != nil {
		return nil, fmt.Errorf("partial state is not JSON-serializable: %w", err)
	}

	s.mu.RLock()
	candidate, err := cloneTree(s.tree)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	for _, key := range sortedKeys(normalized) {
		current, exists := candidate[key]
		if !exists && !s.allowedExtra(key) {
			continue
		}
		candidate[key] = mergeValue(current, normalized[key])
	}
	return candidate, nil
}

// Replace swaps the entire tree for the given one, bypassing the
// per-key merge policy. Keys must match the store's fixed key set.
// Used by full-snapshot import; subscribers are notified.
func (s *Store) Replace(ctx context.Context, tree map[string]any, persist bool) error {
	next, err := cloneTree(tree)
	if err != nil {
		return fmt.Errorf("replacement state is not JSON-serializable: %w", err)
	}

	s.mu.Lock()
	for key := range next {
		if _, exists := s.initial[key]; !exists && !s.allowedExtra(key) {
			s.mu.Unlock()
			return fmt.Errorf("replacement state has unknown key %q", key)
		}
	}
	s.tree = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.notify(subs)

	if persist {
		if !s.adapter.Save(ctx, s.key, next) {
			s.logger.Error("state write failed", "key", s.key)
		}
	}
	return nil
}

// Reset restores the tree to the initial defaults. The persisted blob
// is either removed entirely or overwritten with the defaults, then
// subscribers are notified.
func (s *Store) Reset(ctx context.Context, clearStorage bool) {
	tree, err := cloneTree(s.initial)
	if err != nil {
		s.logger.Error("failed to clone initial state", "error", err)
		return
	}

	s.mu.Lock()
	s.tree = tree
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if clearStorage {
		s.adapter.Remove(ctx, s.key)
	} else if !s.adapter.Save(ctx, s.key, tree) {
		s.logger.Error("failed to persist reset state", "key", s.key)
	}

	s.notify(subs)
}

// notify calls each subscriber with its own snapshot. A panicking
// subscriber is logged and must not prevent later subscribers from
// being notified.
func (s *Store) notify(subs []subscriber) {
	if len(subs) == 0 {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordNotification()
	}
	for _, sub := range subs {
		snapshot := s.Snapshot()
		if snapshot == nil {
			return
		}
		s.safeNotify(sub, snapshot)
	}
}

func (s *Store) safeNotify(sub subscriber, snapshot map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("state subscriber panicked", "subscriber", sub.id, "panic", r)
		}
	}()
	sub.fn(snapshot)
}

func (s *Store) allowedExtra(key string) bool {
	_, ok := s.extra[key]
	return ok
}

// mergeValue applies the per-key merge policy: arrays replace, plain
// objects shallow-merge one level, primitives and nil replace.
func mergeValue(current, incoming any) any {
	incomingObj, isObj := incoming.(map[string]any)
	if !isObj {
		return incoming
	}
	currentObj, ok := current.(map[string]any)
	if !ok {
		return incoming
	}

	merged := make(map[string]any, len(currentObj)+len(incomingObj))
	for k, v := range currentObj {
		merged[k] = v
	}
	for k, v := range incomingObj {
		merged[k] = v
	}
	return merged
}

// cloneTree deep-clones via a JSON round trip. Values that do not
// survive the round trip are not supported by the state tree.
func cloneTree(tree map[string]any) (map[string]any, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
