/*
Package cache mirrors session state into a durable key/value backend.

Every key lives under one namespace prefix and every value is wrapped in an
envelope:

	{"value": <T>, "timestamp": <unix ms>, "expiresAt": <unix ms, optional>}

Reads never fail. An expired or undecodable entry is evicted and the caller's
default is returned; corruption is logged, not surfaced. Writes report a
WriteResult instead of an error: on quota exhaustion the cache sweeps expired
entries once and retries exactly once, then drops the write.

Large image snapshots are re-encoded as JPEG before they are written when
they exceed the configured threshold; payloads still above the ceiling after
compression are written and flagged Oversized.

The slice caches (Music, Paint, Notes, Kalimba, Windows, Preferences) give
each application a typed view over its keys, including the debounced and
throttled write paths.
*/
package cache
