/*
Package store is the single authoritative container for desktop session
state.

A Store composes the window manager, the playback machine and the desktop
preferences. Every operation is a synchronous transition: the state change
completes, subscribers are notified with the new snapshot, and only then is
the affected slice mirrored into the cache. Mirroring is best effort; cache
failures are logged and never fail the transition.

Window geometry updates and notes scrolling go through debounced writes,
canvas snapshots through a throttled one, and the high-frequency playback
time is sampled. Everything else is written immediately.

Transitions are serialized. Listeners run on the caller's goroutine and may
read State, but must not start another transition synchronously.
*/
package store
