package store

import (
	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// OpenWindow opens and raises a window
func (s *Store) OpenWindow(id types.AppID) error {
	return s.apply("open", func() error { return s.windows.Open(id) }, s.persistWindows)
}

// CloseWindow closes a window, leaving its geometry intact
func (s *Store) CloseWindow(id types.AppID) error {
	return s.apply("close", func() error { return s.windows.Close(id) }, s.persistWindows)
}

// MinimizeWindow hides a window and clears focus
func (s *Store) MinimizeWindow(id types.AppID) error {
	return s.apply("minimize", func() error { return s.windows.Minimize(id) }, s.persistWindows)
}

// FocusWindow raises a window and restores it if minimized
func (s *Store) FocusWindow(id types.AppID) error {
	return s.apply("focus", func() error { return s.windows.Focus(id) }, s.persistWindows)
}

// ToggleFullscreen enters or leaves fullscreen for a window
func (s *Store) ToggleFullscreen(id types.AppID) error {
	return s.apply("toggle_fullscreen", func() error { return s.windows.ToggleFullscreen(id) }, s.persistWindows)
}

// UpdatePosition moves a window. The write is debounced.
func (s *Store) UpdatePosition(id types.AppID, pos types.Position) error {
	return s.apply("update_position", func() error { return s.windows.UpdatePosition(id, pos) }, s.persistWindowsDebounced)
}

// UpdateSize resizes a window. The write is debounced.
func (s *Store) UpdateSize(id types.AppID, size types.Size) error {
	return s.apply("update_size", func() error { return s.windows.UpdateSize(id, size) }, s.persistWindowsDebounced)
}

// OpenMobileApp shows a single application pane
func (s *Store) OpenMobileApp(id types.AppID) error {
	return s.apply("open_mobile", func() error { return s.windows.OpenMobile(id) }, s.persistWindows)
}

// CloseMobileApp returns to the mobile home screen
func (s *Store) CloseMobileApp() {
	_ = s.apply("close_mobile", func() error {
		s.windows.CloseMobile()
		return nil
	}, nil)
}
