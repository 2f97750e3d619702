package store

import (
	"context"
	"fmt"
	"sync"

	"storefront-admin/backend"
)

type ValueSnapshot[T any] struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
	Value  *T     `json:"value"`
}

// Value caches a single backend document such as the settings profile.
type Value[T any] struct {
	mu     sync.RWMutex
	name   string
	value  *T
	status Status
	err    string
}

func NewValue[T any](name string) *Value[T] {
	return &Value[T]{name: name, status: StatusIdle}
}

func (v *Value[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	v.mu.Lock()
	v.status = StatusLoading
	v.mu.Unlock()

	value, err := fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.status = StatusFailed
		v.err = fmt.Sprintf("Failed to fetch %s: %s", v.name, backend.Message(err))
		return err
	}
	v.value = &value
	v.status = StatusSucceeded
	v.err = ""
	return nil
}

func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = &value
}

func (v *Value[T]) Modify(fn func(*T)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.value == nil {
		return false
	}
	fn(v.value)
	return true
}

func (v *Value[T]) Get() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.value == nil {
		var zero T
		return zero, false
	}
	return *v.value, true
}

func (v *Value[T]) Snapshot() ValueSnapshot[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	snap := ValueSnapshot[T]{Status: v.status, Error: v.err}
	if v.value != nil {
		copied := *v.value
		snap.Value = &copied
	}
	return snap
}

func (v *Value[T]) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = nil
	v.status = StatusIdle
	v.err = ""
}
