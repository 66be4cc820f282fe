// Package syncx is the client/cloud synchronization layer: a trailing-edge
// debouncer with flush, a bounded-backoff retry policy for initial-load
// reads, and the cloud-wins-unless-empty reconciler.
package syncx

import (
	"sync"
	"time"
)

// Debounced collapses repeated Call invocations within the delay window into
// a single trailing execution of the most recently supplied closure.
//
// Every not-yet-fired call is tracked in a process-wide set so FlushAll can
// drain all pending work at once (the page-unload analogue: nothing queued is
// lost on shutdown).
type Debounced struct {
	mu      sync.Mutex
	delay   time.Duration
	pending func()
	timer   *time.Timer
}

// NewDebounced returns a debouncer with the given trailing delay.
func NewDebounced(delay time.Duration) *Debounced {
	return &Debounced{delay: delay}
}

// Call schedules fn after the delay. A call while one is already pending
// resets the timer and replaces the stored closure, so only the latest
// arguments ever run.
//
// Registration happens before the timer is armed and under the same lock
// that clears it on fire, so pendingSet tracks pending work exactly.
func (d *Debounced) Call(fn func()) {
	d.mu.Lock()
	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	register(d)
	d.timer = time.AfterFunc(d.delay, d.fire)
	d.mu.Unlock()
}

func (d *Debounced) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.timer = nil
	deregister(d)
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush runs the pending closure immediately, if any, and cancels the timer.
func (d *Debounced) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	deregister(d)
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel discards the pending closure without running it.
func (d *Debounced) Cancel() {
	d.mu.Lock()
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	deregister(d)
	d.mu.Unlock()
}

var (
	pendingMu  sync.Mutex
	pendingSet = make(map[*Debounced]struct{})
)

func register(d *Debounced) {
	pendingMu.Lock()
	pendingSet[d] = struct{}{}
	pendingMu.Unlock()
}

func deregister(d *Debounced) {
	pendingMu.Lock()
	delete(pendingSet, d)
	pendingMu.Unlock()
}

// FlushAll flushes every debouncer with pending work. Called on shutdown so
// no queued push is lost.
func FlushAll() {
	pendingMu.Lock()
	list := make([]*Debounced, 0, len(pendingSet))
	for d := range pendingSet {
		list = append(list, d)
	}
	pendingMu.Unlock()

	for _, d := range list {
		d.Flush()
	}
}
