package store

import (
	"context"
	"fmt"
	"sync"

	"storefront-admin/backend"
)

// Status of the most recent fetch.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Snapshot[T any] struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
	Items  []T    `json:"items"`
}

// Resource caches one backend collection. Only the owner mutates it; readers
// always get copies.
type Resource[T any] struct {
	mu     sync.RWMutex
	name   string
	clone  func(T) T
	items  []T
	status Status
	err    string
}

// NewResource creates an idle cache. clone may be nil for value types
// without nested slices.
func NewResource[T any](name string, clone func(T) T) *Resource[T] {
	return &Resource[T]{name: name, clone: clone, status: StatusIdle}
}

// Load replaces the cached collection in full on success. On failure the
// previous items stay readable and the status becomes failed.
func (r *Resource[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	r.mu.Lock()
	r.status = StatusLoading
	r.mu.Unlock()

	items, err := fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.status = StatusFailed
		r.err = fmt.Sprintf("Failed to fetch %s: %s", r.name, backend.Message(err))
		return err
	}
	if items == nil {
		items = []T{}
	}
	r.items = items
	r.status = StatusSucceeded
	r.err = ""
	return nil
}

func (r *Resource[T]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyItems()
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot[T]{Status: r.status, Error: r.err, Items: r.copyItems()}
}

func (r *Resource[T]) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Loaded reports whether at least one fetch has succeeded since the last reset.
func (r *Resource[T]) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items != nil
}

func (r *Resource[T]) Find(match func(T) bool) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if match(item) {
			return r.copyOne(item), true
		}
	}
	var zero T
	return zero, false
}

// Update applies fn to the first matching item in place. It returns false,
// leaving the collection untouched, when nothing matches.
func (r *Resource[T]) Update(match func(T) bool, fn func(*T)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if match(r.items[i]) {
			fn(&r.items[i])
			return true
		}
	}
	return false
}

func (r *Resource[T]) Replace(match func(T) bool, item T) bool {
	return r.Update(match, func(existing *T) { *existing = item })
}

func (r *Resource[T]) Append(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

func (r *Resource[T]) Remove(match func(T) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0:0]
	for _, item := range r.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	if r.items != nil {
		r.items = kept
	}
}

func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	r.status = StatusIdle
	r.err = ""
}

func (r *Resource[T]) copyItems() []T {
	out := make([]T, len(r.items))
	for i, item := range r.items {
		out[i] = r.copyOne(item)
	}
	return out
}

func (r *Resource[T]) copyOne(item T) T {
	if r.clone != nil {
		return r.clone(item)
	}
	return item
}
