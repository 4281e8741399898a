// Package coalesce bounds how often expensive side effects run.
//
// A Debouncer runs its function once a quiet period has elapsed since the
// last call. A Throttler runs at most once per window, deferring calls that
// arrive mid-window to the window boundary so the latest argument is never
// dropped. Both are driven by a clock.Clock and expose Cancel and Flush so
// owners can discard or force the pending call when state is superseded.
package coalesce
