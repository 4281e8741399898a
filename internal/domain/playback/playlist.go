package playback

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/DeskOS/internal/shared/types"
)

// Playlist is the on-disk track list
//
//	[[tracks]]
//	id = 1
//	title = "Lyn - No More What If"
//	duration = 300.0
//	url = "/assets/lyn_-_no_more_what_if.mp3"
type Playlist struct {
	Tracks []types.Track `toml:"tracks"`
}

// ParsePlaylist decodes a TOML playlist
func ParsePlaylist(data []byte) ([]types.Track, error) {
	var p Playlist
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}

	for i, t := range p.Tracks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("parse playlist: track %d has no title", i)
		}
		if t.Duration < 0 {
			return nil, fmt.Errorf("parse playlist: track %d has negative duration", i)
		}
	}
	return p.Tracks, nil
}

// LoadPlaylist reads a TOML playlist file
func LoadPlaylist(path string) ([]types.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return ParsePlaylist(data)
}

// EncodePlaylist renders tracks as TOML
func EncodePlaylist(tracks []types.Track) ([]byte, error) {
	return toml.Marshal(Playlist{Tracks: tracks})
}
