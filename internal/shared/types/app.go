package types

// AppID identifies one of the fixed desktop applications.
type AppID string

const (
	AppFinder    AppID = "finder"
	AppGallery   AppID = "gallery"
	AppMail      AppID = "mail"
	AppMusic     AppID = "music"
	AppVideo     AppID = "video"
	AppPaint     AppID = "paint"
	AppNotes     AppID = "notes"
	AppBookshelf AppID = "bookshelf"
	AppLinkedIn  AppID = "linkedin"
	AppTwitter   AppID = "twitter"
	AppSubstack  AppID = "substack"
	AppKalimba   AppID = "kalimba"
)

// AppIDs lists every known application in desktop order.
var AppIDs = []AppID{
	AppFinder,
	AppGallery,
	AppMail,
	AppMusic,
	AppVideo,
	AppPaint,
	AppNotes,
	AppBookshelf,
	AppLinkedIn,
	AppTwitter,
	AppSubstack,
	AppKalimba,
}

// IsKnown reports whether id belongs to the closed set of applications.
func (id AppID) IsKnown() bool {
	for _, known := range AppIDs {
		if known == id {
			return true
		}
	}
	return false
}

// String returns the identifier as a string
func (id AppID) String() string { return string(id) }

// Position represents window position on screen
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size represents window dimensions
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window represents the managed state of one application window
type Window struct {
	ID           AppID     `json:"id"`
	Title        string    `json:"title"`
	IsOpen       bool      `json:"isOpen"`
	IsMinimized  bool      `json:"isMinimized"`
	IsFullscreen bool      `json:"isFullscreen"`
	ZIndex       int       `json:"zIndex"`
	Position     Position  `json:"position"`
	Size         Size      `json:"size"`
	SavedPos     *Position `json:"savedPosition,omitempty"`
	SavedSize    *Size     `json:"savedSize,omitempty"`
}

// Clone returns a deep copy of the window
func (w Window) Clone() Window {
	out := w
	if w.SavedPos != nil {
		pos := *w.SavedPos
		out.SavedPos = &pos
	}
	if w.SavedSize != nil {
		size := *w.SavedSize
		out.SavedSize = &size
	}
	return out
}

// Visible reports whether the window should be rendered on the desktop.
func (w Window) Visible() bool {
	return w.IsOpen && !w.IsMinimized
}
