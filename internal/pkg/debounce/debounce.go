// Package debounce delays a rapidly changing value until it has stopped
// changing for a quiet period. Only the latest value is ever delivered.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by search inputs.
const DefaultDelay = 500 * time.Millisecond

// Debouncer holds a single pending timer. Every Push cancels the pending
// timer and starts a new one; values pushed in between are dropped.
type Debouncer[T any] struct {
	delay    time.Duration
	onSettle func(T)

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	pending    T
	hasPending bool
	settled    T
	stopped    bool

	// settleMu serialises deliveries and lets Stop wait for one in flight.
	settleMu sync.Mutex
}

// New returns a Debouncer that calls onSettle with the latest value once
// delay has passed without a Push. onSettle may be nil. It runs on the
// timer goroutine and must not call Stop or Flush.
func New[T any](delay time.Duration, onSettle func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{
		delay:    delay,
		onSettle: onSettle,
	}
}

// Push records v as the pending value and restarts the quiet period.
// Pushes after Stop are ignored.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.generation++
	d.pending = v
	d.hasPending = true

	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.generation
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush settles the pending value now instead of waiting for the timer.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped || !d.hasPending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.mu.Unlock()

	d.fire(gen)
}

// Value returns the last settled value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

// Stop cancels the pending timer. Once Stop returns no further onSettle call
// will start, and any call that was already running has finished.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.hasPending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.settleMu.Lock()
	//nolint:staticcheck // empty critical section waits for an in-flight delivery
	d.settleMu.Unlock()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.settleMu.Lock()
	defer d.settleMu.Unlock()

	d.mu.Lock()
	// A timer that lost the race with a newer Push or with Stop must not deliver.
	if d.stopped || gen != d.generation || !d.hasPending {
		d.mu.Unlock()
		return
	}
	d.settled = d.pending
	d.hasPending = false
	v := d.settled
	d.mu.Unlock()

	if d.onSettle != nil {
		d.onSettle(v)
	}
}
