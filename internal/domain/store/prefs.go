package store

import "github.com/GriffinCanCode/DeskOS/internal/shared/types"

// ToggleTheme switches between light and dark
func (s *Store) ToggleTheme() {
	_ = s.apply("toggle_theme", func() error {
		if s.prefs.theme == types.ThemeDark {
			s.prefs.theme = types.ThemeLight
		} else {
			s.prefs.theme = types.ThemeDark
		}
		return nil
	}, s.persistTheme)
}

// ToggleReduceMotion flips the reduced motion preference
func (s *Store) ToggleReduceMotion() {
	_ = s.apply("toggle_reduce_motion", func() error {
		s.prefs.reduceMotion = !s.prefs.reduceMotion
		return nil
	}, nil)
}

// SetUIZoom sets the zoom percentage
func (s *Store) SetUIZoom(zoom int) {
	_ = s.apply("set_ui_zoom", func() error {
		s.prefs.uiZoom = zoom
		return nil
	}, nil)
}

// SetShowHelpModal shows or hides the help modal
func (s *Store) SetShowHelpModal(show bool) {
	_ = s.apply("show_help_modal", func() error {
		s.prefs.showHelp = show
		return nil
	}, nil)
}
