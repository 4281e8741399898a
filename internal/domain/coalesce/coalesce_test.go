package coalesce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDebouncerFiresAfterQuietPeriod(t *testing.T) {
	c := clock.NewManual(epoch)
	var got []int
	d := NewDebouncer(c, 500*time.Millisecond, func(v int) { got = append(got, v) })

	d.Call(1)
	c.Advance(300 * time.Millisecond)
	d.Call(2)
	c.Advance(300 * time.Millisecond)
	d.Call(3)
	assert.Empty(t, got)
	assert.True(t, d.Pending())
	assert.Equal(t, epoch.Add(1100*time.Millisecond), d.Deadline())

	c.Advance(499 * time.Millisecond)
	assert.Empty(t, got)

	c.Advance(time.Millisecond)
	assert.Equal(t, []int{3}, got)
	assert.False(t, d.Pending())
	assert.True(t, d.Deadline().IsZero())
}

func TestDebouncerCancel(t *testing.T) {
	c := clock.NewManual(epoch)
	calls := 0
	d := NewDebouncer(c, 500*time.Millisecond, func(string) { calls++ })

	assert.False(t, d.Cancel())

	d.Call("a")
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	c.Advance(time.Second)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Pending())
}

func TestDebouncerFlush(t *testing.T) {
	c := clock.NewManual(epoch)
	var got []string
	d := NewDebouncer(c, 500*time.Millisecond, func(v string) { got = append(got, v) })

	assert.False(t, d.Flush())

	d.Call("a")
	d.Call("b")
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"b"}, got)

	c.Advance(time.Second)
	assert.Equal(t, []string{"b"}, got, "flushed call must not fire again")
}

func TestThrottlerLeadingAndTrailing(t *testing.T) {
	c := clock.NewManual(epoch)
	var got []int
	th := NewThrottler(c, 1500*time.Millisecond, func(v int) { got = append(got, v) })

	th.Call(1)
	assert.Equal(t, []int{1}, got, "idle call fires on the leading edge")

	c.Advance(200 * time.Millisecond)
	th.Call(2)
	c.Advance(200 * time.Millisecond)
	th.Call(3)
	assert.Equal(t, []int{1}, got)
	assert.True(t, th.Pending())

	c.Advance(1100 * time.Millisecond)
	assert.Equal(t, []int{1, 3}, got, "mid-window calls collapse to the latest at the boundary")
	assert.False(t, th.Pending())

	// the trailing fire opened a new window
	th.Call(4)
	assert.Equal(t, []int{1, 3}, got)
	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, []int{1, 3, 4}, got)
}

func TestThrottlerIdleAfterWindow(t *testing.T) {
	c := clock.NewManual(epoch)
	var got []int
	th := NewThrottler(c, time.Second, func(v int) { got = append(got, v) })

	th.Call(1)
	c.Advance(2 * time.Second)
	th.Call(2)
	assert.Equal(t, []int{1, 2}, got)
}

func TestThrottlerCancelAndFlush(t *testing.T) {
	c := clock.NewManual(epoch)
	var got []int
	th := NewThrottler(c, time.Second, func(v int) { got = append(got, v) })

	th.Call(1)
	th.Call(2)
	assert.True(t, th.Cancel())
	c.Advance(2 * time.Second)
	assert.Equal(t, []int{1}, got)

	th.Call(3)
	th.Call(4)
	assert.True(t, th.Flush())
	assert.Equal(t, []int{1, 3, 4}, got)
	assert.False(t, th.Flush())

	c.Advance(2 * time.Second)
	assert.Equal(t, []int{1, 3, 4}, got)
}

func TestDebouncerCancelWaitsForInFlightCall(t *testing.T) {
	c := clock.NewManual(epoch)
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	d := NewDebouncer(c, 500*time.Millisecond, func(int) {
		close(entered)
		<-release
		finished.Store(true)
	})

	d.Call(1)
	go c.Advance(time.Second)
	<-entered

	var returned atomic.Bool
	cancelled := make(chan bool, 1)
	go func() {
		ok := d.Cancel()
		returned.Store(true)
		cancelled <- ok
	}()
	assert.Never(t, returned.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	select {
	case ok := <-cancelled:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Cancel did not return")
	}
	assert.True(t, finished.Load(), "Cancel returned while the call was still running")
}

func TestThrottlerCallsNeverOverlap(t *testing.T) {
	c := clock.NewManual(epoch)
	entered := make(chan int, 2)
	release := make(chan struct{})
	var running atomic.Int32
	var overlapped atomic.Bool
	th := NewThrottler(c, time.Second, func(v int) {
		if running.Add(1) > 1 {
			overlapped.Store(true)
		}
		entered <- v
		if v == 2 {
			<-release
		}
		running.Add(-1)
	})

	th.Call(1)
	assert.Equal(t, 1, <-entered)
	th.Call(2)
	go c.Advance(time.Second)
	assert.Equal(t, 2, <-entered)

	var returned atomic.Bool
	flushed := make(chan bool, 1)
	go func() {
		ok := th.Flush()
		returned.Store(true)
		flushed <- ok
	}()
	assert.Never(t, returned.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	assert.False(t, <-flushed)
	assert.False(t, overlapped.Load())
}
