// Package types provides shared data structures for the DeskOS session core.
//
// This package defines the state shapes exchanged between the store, its
// domain managers, the persistence layer and the API surface.
//
// Core Types:
//   - Window: Managed application window with geometry and z-order
//   - Track: Playlist entry; playable only when its URL is non-blank
//   - PlaybackSession: Persistent audio session state
//   - DesktopState: Complete observable state of the store
//
// Request Types:
//   - PositionRequest, SizeRequest: Window geometry updates
//   - TracksRequest, VolumeRequest, TimeRequest: Playback inputs
//   - WSMessage: WebSocket communication
//
// Example Usage:
//
//	win := types.Window{
//	    ID:       types.AppNotes,
//	    Title:    "Notes",
//	    Position: types.Position{X: 180, Y: 90},
//	    Size:     types.Size{Width: 500, Height: 450},
//	}
package types
