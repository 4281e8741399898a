/*
Package playback implements the persistent audio session.

The Machine owns the track list and transport state and exposes the transport
operations as synchronous transitions:

	stopped --play--> playing <--pause/play--> paused
	   ^                 |                       |
	   +----stop/dismiss-+-----------------------+

Tracks with a blank URL are declared but not yet playable. Navigation only
ever lands on playable tracks and resyncs to the first playable track when
the current index is not one. The index helpers in navigation.go are the
single place that rule lives.

Two read-only projections, Full and Mini, derive what each player surface
shows from one PlaybackSession. Plan derives the commands a real media
element must apply to match the session.
*/
package playback
