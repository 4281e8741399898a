package types

// Theme is the desktop color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DesktopState is the complete observable state of the store
type DesktopState struct {
	Theme         Theme `json:"theme"`
	ReduceMotion  bool  `json:"reduceMotion"`
	UIZoom        int   `json:"uiZoom"`
	ShowHelpModal bool  `json:"showHelpModal"`

	Windows         map[AppID]Window `json:"windows"`
	ActiveWindowID  *AppID           `json:"activeWindowId"`
	MaxZIndex       int              `json:"maxZIndex"`
	MobileActiveApp *AppID           `json:"mobileActiveApp"`

	Music PlaybackSession `json:"music"`
}

// Clone returns a deep copy of the state
func (s DesktopState) Clone() DesktopState {
	out := s
	out.Windows = make(map[AppID]Window, len(s.Windows))
	for id, w := range s.Windows {
		out.Windows[id] = w.Clone()
	}
	if s.ActiveWindowID != nil {
		id := *s.ActiveWindowID
		out.ActiveWindowID = &id
	}
	if s.MobileActiveApp != nil {
		id := *s.MobileActiveApp
		out.MobileActiveApp = &id
	}
	out.Music = s.Music.Clone()
	return out
}

// CacheStats summarises the durable cache
type CacheStats struct {
	TotalItems int            `json:"totalItems"`
	TotalSize  int64          `json:"totalSize"`
	ItemsByKey map[string]int `json:"itemsByKey"`
}
