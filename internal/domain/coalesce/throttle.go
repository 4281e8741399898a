package coalesce

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
)

// Throttler runs fn at most once per wait. The first call in an idle period
// fires immediately; calls inside the window are collapsed into a single
// trailing call at the window boundary carrying the latest argument.
// Calls to fn never overlap, and none starts after Cancel returns.
type Throttler[T any] struct {
	// run is held across fn and taken before mu
	run   sync.Mutex
	mu    sync.Mutex
	clock clock.Clock
	wait  time.Duration
	fn    func(T)

	lastFire time.Time
	fired    bool
	timer    clock.Timer
	gen      uint64
	pending  bool
	arg      T
}

// NewThrottler creates a throttler for fn
func NewThrottler[T any](c clock.Clock, wait time.Duration, fn func(T)) *Throttler[T] {
	if c == nil {
		c = clock.System{}
	}
	return &Throttler[T]{clock: c, wait: wait, fn: fn}
}

// Call runs fn now if the window is open, otherwise defers it to the
// trailing edge of the current window.
func (t *Throttler[T]) Call(arg T) {
	t.run.Lock()
	defer t.run.Unlock()

	t.mu.Lock()
	now := t.clock.Now()

	if !t.pending && (!t.fired || now.Sub(t.lastFire) >= t.wait) {
		t.fired = true
		t.lastFire = now
		t.mu.Unlock()
		t.fn(arg)
		return
	}

	t.arg = arg
	if !t.pending {
		t.pending = true
		t.gen++
		gen := t.gen
		delay := t.lastFire.Add(t.wait).Sub(now)
		if delay < 0 {
			delay = 0
		}
		t.timer = t.clock.AfterFunc(delay, func() { t.fire(gen) })
	}
	t.mu.Unlock()
}

func (t *Throttler[T]) fire(gen uint64) {
	t.run.Lock()
	defer t.run.Unlock()

	t.mu.Lock()
	if !t.pending || gen != t.gen {
		t.mu.Unlock()
		return
	}
	arg := t.take()
	t.fired = true
	t.lastFire = t.clock.Now()
	t.mu.Unlock()

	t.fn(arg)
}

// Cancel drops the trailing call. It reports whether one was pending.
func (t *Throttler[T]) Cancel() bool {
	t.run.Lock()
	defer t.run.Unlock()
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.pending {
		return false
	}
	t.take()
	return true
}

// Flush runs the trailing call now and starts a new window
func (t *Throttler[T]) Flush() bool {
	t.run.Lock()
	defer t.run.Unlock()

	t.mu.Lock()
	if !t.pending {
		t.mu.Unlock()
		return false
	}
	arg := t.take()
	t.fired = true
	t.lastFire = t.clock.Now()
	t.mu.Unlock()

	t.fn(arg)
	return true
}

// Pending reports whether a trailing call is scheduled
func (t *Throttler[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Must hold t.mu.
func (t *Throttler[T]) take() T {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	var zero T
	arg := t.arg
	t.arg = zero
	t.pending = false
	t.gen++
	return arg
}
