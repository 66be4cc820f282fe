// Package store holds the client-side state containers, one per data domain.
// Each container owns its slice exclusively; actions apply one atomic
// multi-field update and mirror the change to the backend best-effort. The
// sync layer reads slices and writes back only during initial load.
package store

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
)

// Container is an observable state holder. Update applies a full transition
// and notifies subscribers with the resulting state, so a subscriber never
// observes a partially applied action.
type Container[S any] struct {
	mu     sync.Mutex
	state  S
	subs   []func(S)
	loaded atomic.Bool
}

func NewContainer[S any](initial S) *Container[S] {
	return &Container[S]{state: initial}
}

// Get returns the current state. Callers must treat slices and maps inside
// it as read-only; actions replace them instead of mutating in place.
func (c *Container[S]) Get() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update atomically applies fn and notifies subscribers with the new state.
// Subscribers run outside the lock.
func (c *Container[S]) Update(fn func(S) S) {
	c.mu.Lock()
	next := fn(c.state)
	c.state = next
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
}

// Replace swaps the whole state. Used by hydration and initial load.
func (c *Container[S]) Replace(state S) {
	c.Update(func(S) S { return state })
}

// Subscribe registers fn to run after every state change.
func (c *Container[S]) Subscribe(fn func(S)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Loaded reports whether initial load finished. Push subscribers check it so
// hydration and reconciliation never trigger sync traffic.
func (c *Container[S]) Loaded() bool {
	return c.loaded.Load()
}

func (c *Container[S]) MarkLoaded() {
	c.loaded.Store(true)
}

// persistOn saves a snapshot of every state change under the given key. The
// view function picks the persisted subset, which is how stores keep bulky
// or remote-authoritative fields (ledger history) out of local storage.
func persistOn[S, P any](ctx context.Context, c *Container[S], snaps *localdb.Snapshots, key string, view func(S) P, log logging.Logger) {
	c.Subscribe(func(state S) {
		if err := snaps.Save(ctx, key, view(state)); err != nil {
			log.Error(ctx, "snapshot save failed", "key", key, "error", err)
		}
	})
}
