package window

import "github.com/GriffinCanCode/DeskOS/internal/shared/types"

type preset struct {
	title string
	pos   types.Position
	size  types.Size
}

var defaults = map[types.AppID]preset{
	types.AppFinder:    {"Finder", types.Position{X: 100, Y: 50}, types.Size{Width: 800, Height: 500}},
	types.AppGallery:   {"My Portfolio", types.Position{X: 80, Y: 40}, types.Size{Width: 900, Height: 550}},
	types.AppMail:      {"Mail", types.Position{X: 150, Y: 80}, types.Size{Width: 600, Height: 500}},
	types.AppMusic:     {"Music Player", types.Position{X: 200, Y: 100}, types.Size{Width: 350, Height: 500}},
	types.AppVideo:     {"Video Player", types.Position{X: 250, Y: 120}, types.Size{Width: 700, Height: 450}},
	types.AppPaint:     {"Paint", types.Position{X: 300, Y: 150}, types.Size{Width: 600, Height: 500}},
	types.AppNotes:     {"Notes", types.Position{X: 180, Y: 90}, types.Size{Width: 500, Height: 450}},
	types.AppBookshelf: {"AI Resources", types.Position{X: 220, Y: 110}, types.Size{Width: 700, Height: 550}},
	types.AppLinkedIn:  {"LinkedIn", types.Position{X: 350, Y: 80}, types.Size{Width: 400, Height: 520}},
	// link-out panels render without chrome and carry no geometry
	types.AppTwitter:  {title: "X"},
	types.AppSubstack: {title: "Substack"},
	types.AppKalimba:  {"Kalimba", types.Position{X: 200, Y: 100}, types.Size{Width: 600, Height: 700}},
}

// DefaultWindows returns the initial window map. Finder starts open on top.
func DefaultWindows() map[types.AppID]types.Window {
	out := make(map[types.AppID]types.Window, len(types.AppIDs))
	for _, id := range types.AppIDs {
		d := defaults[id]
		out[id] = types.Window{
			ID:       id,
			Title:    d.title,
			Position: d.pos,
			Size:     d.size,
		}
	}

	finder := out[types.AppFinder]
	finder.IsOpen = true
	finder.ZIndex = 1
	out[types.AppFinder] = finder
	return out
}
