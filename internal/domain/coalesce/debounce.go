package coalesce

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
)

// Debouncer delays fn until wait has passed with no further calls.
// Only the most recent argument is delivered. Cancel and Flush wait for an
// in-flight call to return, so nothing fires after Cancel returns.
type Debouncer[T any] struct {
	// run is held across fn and taken before mu
	run   sync.Mutex
	mu    sync.Mutex
	clock clock.Clock
	wait  time.Duration
	fn    func(T)

	timer    clock.Timer
	gen      uint64
	pending  bool
	arg      T
	deadline time.Time
}

// NewDebouncer creates a debouncer for fn
func NewDebouncer[T any](c clock.Clock, wait time.Duration, fn func(T)) *Debouncer[T] {
	if c == nil {
		c = clock.System{}
	}
	return &Debouncer[T]{clock: c, wait: wait, fn: fn}
}

// Call records arg and restarts the quiet-period timer
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.arg = arg
	d.pending = true
	d.deadline = d.clock.Now().Add(d.wait)
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	arg := d.take()
	d.mu.Unlock()

	d.fn(arg)
}

// Cancel drops the pending call. It reports whether one was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.run.Lock()
	defer d.run.Unlock()
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending {
		return false
	}
	d.take()
	return true
}

// Flush runs the pending call now. It reports whether one was pending.
func (d *Debouncer[T]) Flush() bool {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	arg := d.take()
	d.mu.Unlock()

	d.fn(arg)
	return true
}

// Pending reports whether a call is waiting to fire
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Deadline returns when the pending call will fire, or the zero time
func (d *Debouncer[T]) Deadline() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return time.Time{}
	}
	return d.deadline
}

// take clears pending state and returns the stored argument. Must hold d.mu.
func (d *Debouncer[T]) take() T {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	arg := d.arg
	d.arg = zero
	d.pending = false
	d.deadline = time.Time{}
	d.gen++
	return arg
}
