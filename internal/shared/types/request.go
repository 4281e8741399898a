package types

// PositionRequest carries a window position update
type PositionRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// SizeRequest carries a window size update
type SizeRequest struct {
	Width  int `json:"width" binding:"required,min=1"`
	Height int `json:"height" binding:"required,min=1"`
}

// TracksRequest replaces the playlist
type TracksRequest struct {
	Tracks []Track `json:"tracks"`
}

// VolumeRequest sets the playback volume
type VolumeRequest struct {
	Volume *int `json:"volume" binding:"required"`
}

// TimeRequest carries a driver-reported time or duration in seconds
type TimeRequest struct {
	Seconds *float64 `json:"seconds" binding:"required"`
}

// ToggleRequest carries a boolean flag
type ToggleRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// ZoomRequest sets the UI zoom percentage
type ZoomRequest struct {
	Zoom int `json:"zoom" binding:"required,min=50,max=200"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string        `json:"type"`
	Message   string        `json:"message,omitempty"`
	State     *DesktopState `json:"state,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"`
}
