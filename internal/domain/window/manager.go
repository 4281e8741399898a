package window

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// ErrUnknownWindow is returned for an id outside the closed application set
var ErrUnknownWindow = errors.New("unknown window id")

// Layout is a snapshot of window state
type Layout struct {
	Windows         map[types.AppID]types.Window
	ActiveWindowID  *types.AppID
	MaxZIndex       int
	MobileActiveApp *types.AppID
}

// Manager owns window lifecycle and z-order.
// Not safe for concurrent use.
type Manager struct {
	windows map[types.AppID]types.Window
	active  *types.AppID
	maxZ    int
	mobile  *types.AppID
}

// NewManager creates a manager with the default windows, Finder focused
func NewManager() *Manager {
	finder := types.AppFinder
	return &Manager{
		windows: DefaultWindows(),
		active:  &finder,
		maxZ:    1,
	}
}

func (m *Manager) lookup(id types.AppID) (types.Window, error) {
	w, ok := m.windows[id]
	if !ok {
		return types.Window{}, fmt.Errorf("%w: %q", ErrUnknownWindow, id)
	}
	return w, nil
}

// raise puts w on top and makes it active. Must be called with a known id.
func (m *Manager) raise(w *types.Window) {
	m.maxZ++
	w.ZIndex = m.maxZ
	w.IsMinimized = false
	id := w.ID
	m.active = &id
}

// Open shows a window on top and focuses it
func (m *Manager) Open(id types.AppID) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	w.IsOpen = true
	m.raise(&w)
	m.windows[id] = w
	return nil
}

// Close hides a window. Geometry and minimized flag are kept.
func (m *Manager) Close(id types.AppID) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	w.IsOpen = false
	m.windows[id] = w
	return nil
}

// Minimize hides a window to the dock and clears focus
func (m *Manager) Minimize(id types.AppID) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	w.IsMinimized = true
	m.windows[id] = w
	m.active = nil
	return nil
}

// Focus restores and raises a window
func (m *Manager) Focus(id types.AppID) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.raise(&w)
	m.windows[id] = w
	return nil
}

// ToggleFullscreen enters fullscreen saving the current geometry, or exits
// restoring it. The saved geometry is consumed on exit.
func (m *Manager) ToggleFullscreen(id types.AppID) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}

	if w.IsFullscreen {
		if w.SavedPos != nil {
			w.Position = *w.SavedPos
		}
		if w.SavedSize != nil {
			w.Size = *w.SavedSize
		}
		w.SavedPos = nil
		w.SavedSize = nil
		w.IsFullscreen = false
	} else {
		pos, size := w.Position, w.Size
		w.SavedPos = &pos
		w.SavedSize = &size
		w.IsFullscreen = true
	}

	m.windows[id] = w
	return nil
}

// UpdatePosition moves a window
func (m *Manager) UpdatePosition(id types.AppID, pos types.Position) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	w.Position = pos
	m.windows[id] = w
	return nil
}

// UpdateSize resizes a window
func (m *Manager) UpdateSize(id types.AppID, size types.Size) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	w.Size = size
	m.windows[id] = w
	return nil
}

// OpenMobile opens a window and makes it the single visible pane
func (m *Manager) OpenMobile(id types.AppID) error {
	if err := m.Open(id); err != nil {
		return err
	}
	m.mobile = &id
	return nil
}

// CloseMobile leaves single-pane mode. Window flags are untouched.
func (m *Manager) CloseMobile() {
	m.mobile = nil
}

// Get returns a copy of one window
func (m *Manager) Get(id types.AppID) (types.Window, error) {
	w, err := m.lookup(id)
	if err != nil {
		return types.Window{}, err
	}
	return w.Clone(), nil
}

// Windows returns a deep copy of the window map
func (m *Manager) Windows() map[types.AppID]types.Window {
	out := make(map[types.AppID]types.Window, len(m.windows))
	for id, w := range m.windows {
		out[id] = w.Clone()
	}
	return out
}

// Snapshot returns a deep copy of the layout
func (m *Manager) Snapshot() Layout {
	l := Layout{
		Windows:   m.Windows(),
		MaxZIndex: m.maxZ,
	}
	if m.active != nil {
		id := *m.active
		l.ActiveWindowID = &id
	}
	if m.mobile != nil {
		id := *m.mobile
		l.MobileActiveApp = &id
	}
	return l
}

// Restore merges persisted windows over the defaults. Unknown ids are
// dropped, identity fields come from the defaults, and stacking order is
// preserved with the z counter resuming above it. Focus goes to the topmost
// visible window, if any.
func (m *Manager) Restore(saved map[types.AppID]types.Window) {
	m.windows = DefaultWindows()
	m.maxZ = 0
	m.active = nil
	m.mobile = nil

	for id, w := range saved {
		base, ok := m.windows[id]
		if !ok {
			continue
		}
		w = w.Clone()
		w.ID = base.ID
		w.Title = base.Title
		if w.IsFullscreen && (w.SavedPos == nil || w.SavedSize == nil) {
			pos, size := w.Position, w.Size
			w.SavedPos, w.SavedSize = &pos, &size
		}
		if !w.IsFullscreen {
			w.SavedPos, w.SavedSize = nil, nil
		}
		if w.ZIndex < 0 {
			w.ZIndex = 0
		}
		m.windows[id] = w
	}

	m.compact()

	var top *types.Window
	for _, id := range types.AppIDs {
		w := m.windows[id]
		if w.Visible() && (top == nil || w.ZIndex > top.ZIndex) {
			top = &w
		}
	}
	if top != nil {
		id := top.ID
		m.active = &id
	}
}

// compact renumbers stacked windows 1..n keeping their relative order, so
// persisted ties cannot produce two topmost windows.
func (m *Manager) compact() {
	stacked := lo.Filter(types.AppIDs, func(id types.AppID, _ int) bool {
		return m.windows[id].ZIndex > 0
	})
	sort.SliceStable(stacked, func(i, j int) bool {
		return m.windows[stacked[i]].ZIndex < m.windows[stacked[j]].ZIndex
	})

	for i, id := range stacked {
		w := m.windows[id]
		w.ZIndex = i + 1
		m.windows[id] = w
	}
	m.maxZ = len(stacked)
}

// Topmost returns the open window with the highest zIndex
func (m *Manager) Topmost() (types.AppID, bool) {
	var (
		best  types.AppID
		bestZ = -1
	)
	for _, id := range types.AppIDs {
		w := m.windows[id]
		if w.IsOpen && w.ZIndex > bestZ {
			best, bestZ = id, w.ZIndex
		}
	}
	return best, bestZ >= 0
}
