package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

func kinds(cmds []Command) []CommandKind {
	out := make([]CommandKind, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Kind)
	}
	return out
}

func TestPlanInSync(t *testing.T) {
	s := playingSession()
	el := Element{Source: "/b.mp3", Paused: false, CurrentTime: 25.3, Volume: 0.8}

	assert.Empty(t, Plan(el, s, 0))
}

func TestPlanTrackChange(t *testing.T) {
	s := playingSession()
	el := Element{Source: "/a.mp3", Paused: false, CurrentTime: 180, Volume: 0.8}
	s.CurrentTime = 0

	cmds := Plan(el, s, 0)
	assert.Equal(t, []CommandKind{CmdSetSource, CmdPlay}, kinds(cmds))
	assert.Equal(t, "/b.mp3", cmds[0].Source)
}

func TestPlanSeekThreshold(t *testing.T) {
	s := playingSession()

	small := Element{Source: "/b.mp3", CurrentTime: 24.6, Volume: 0.8}
	assert.Empty(t, Plan(small, s, 0.5))

	large := Element{Source: "/b.mp3", CurrentTime: 10, Volume: 0.8}
	cmds := Plan(large, s, 0.5)
	assert.Equal(t, []CommandKind{CmdSeek}, kinds(cmds))
	assert.Equal(t, 25.0, cmds[0].Seconds)
}

func TestPlanPauseAndVolume(t *testing.T) {
	s := playingSession()
	s.PlayState = types.PlayPaused
	s.Volume = 30

	cmds := Plan(Element{Source: "/b.mp3", CurrentTime: 25, Volume: 0.8}, s, 0)
	assert.Equal(t, []CommandKind{CmdSetVolume, CmdPause}, kinds(cmds))
	assert.InDelta(t, 0.3, cmds[0].Volume, 1e-9)
}

func TestPlanStopRewinds(t *testing.T) {
	s := playingSession()
	s.PlayState = types.PlayStopped
	s.CurrentTime = 0

	cmds := Plan(Element{Source: "/b.mp3", CurrentTime: 90, Volume: 0.8}, s, 0)
	assert.Equal(t, []CommandKind{CmdSeek, CmdPause}, kinds(cmds))
	assert.Equal(t, 0.0, cmds[0].Seconds)
}

func TestPlanBlankTrackClearsSource(t *testing.T) {
	s := playingSession()
	s.Tracks[1].URL = ""

	cmds := Plan(Element{Source: "/b.mp3", Volume: 0.8}, s, 0)
	assert.Equal(t, []CommandKind{CmdPause, CmdClearSource}, kinds(cmds))
	assert.Equal(t, "", Driver(s).URL)
}

func TestPlanResumeAfterReload(t *testing.T) {
	s := playingSession()
	s.PlayState = types.PlayPaused
	s.CurrentTime = 42

	cmds := Plan(Element{Paused: true, Volume: 0.8}, s, 0)
	assert.Equal(t, []CommandKind{CmdSetSource, CmdSeek}, kinds(cmds))
	assert.Equal(t, 42.0, cmds[1].Seconds)
}
