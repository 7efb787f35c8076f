package services

import (
	"context"
	"sync"
	"time"

	apperrors "lumen/internal/errors"
	"lumen/internal/poller"
)

// Snapshot is the renderable state of a polled view.
type Snapshot[T any] struct {
	Data      T            `json:"data"`
	Loaded    bool         `json:"loaded"`
	State     poller.State `json:"state"`
	Error     string       `json:"error,omitempty"`
	UpdatedAt time.Time    `json:"updated_at,omitempty"`
}

// view holds the latest value of a poller.
type view[T any] struct {
	mu        sync.RWMutex
	data      T
	loaded    bool
	updatedAt time.Time
	poller    *poller.Poller[T]
}

// init builds the poller. A rejected token halts it; onHalt, when non-nil,
// runs after that.
func (v *view[T]) init(name string, interval time.Duration, fetch func(context.Context) (T, error), transform func(T) T, onError, onHalt func(error)) {
	apply := func(next T) {
		v.mu.Lock()
		defer v.mu.Unlock()
		if transform != nil {
			next = transform(next)
		}
		v.data = next
		v.loaded = true
		v.updatedAt = time.Now()
	}
	opts := []poller.Option[T]{poller.WithHaltOn[T](isUnauthorized, onHalt)}
	if onError != nil {
		opts = append(opts, poller.WithErrorHook[T](onError))
	}
	v.poller = poller.New(name, interval, fetch, apply, opts...)
}

// Mount starts polling: one fetch now, then one per interval.
func (v *view[T]) Mount(ctx context.Context) { v.poller.Start(ctx) }

// Unmount stops polling. No update lands after it returns.
func (v *view[T]) Unmount() { v.poller.Stop() }

// Reset stops polling and forgets the held data, so the next Mount starts
// from an unloaded view.
func (v *view[T]) Reset() {
	v.poller.Stop()

	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.data = zero
	v.loaded = false
	v.updatedAt = time.Time{}
}

// Refresh fetches again without waiting for the next tick.
func (v *view[T]) Refresh() { v.poller.Refresh() }

// Snapshot returns the latest data and the poller's state.
func (v *view[T]) Snapshot() Snapshot[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Snapshot[T]{
		Data:      v.data,
		Loaded:    v.loaded,
		State:     v.poller.State(),
		Error:     apperrors.Message(v.poller.Err()),
		UpdatedAt: v.updatedAt,
	}
}

// update mutates the held data in place, for optimistic local edits.
func (v *view[T]) update(fn func(T) T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = fn(v.data)
}
