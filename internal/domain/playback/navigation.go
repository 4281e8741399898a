package playback

import (
	"github.com/samber/lo"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// ValidIndices returns the indices of playable tracks in order
func ValidIndices(tracks []types.Track) []int {
	return lo.FilterMap(tracks, func(t types.Track, i int) (int, bool) {
		return i, t.Playable()
	})
}

// FirstValidIndex returns the first playable index
func FirstValidIndex(tracks []types.Track) (int, bool) {
	_, i, ok := lo.FindIndexOf(tracks, types.Track.Playable)
	return i, ok
}

// NearestValidIndex returns current if it is playable, otherwise the next
// playable index after it, wrapping around the list.
func NearestValidIndex(tracks []types.Track, current int) (int, bool) {
	n := len(tracks)
	if n == 0 {
		return 0, false
	}
	if current < 0 || current >= n {
		current = 0
	}
	for step := 0; step < n; step++ {
		i := (current + step) % n
		if tracks[i].Playable() {
			return i, true
		}
	}
	return 0, false
}
