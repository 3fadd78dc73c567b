package media

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProbe indicates the external track inspector could not produce a
// snapshot for a file (missing, unreadable, or unparseable).
var ErrProbe = errors.New("probe error")

// TrackType identifies one of the four probed track categories.
type TrackType string

const (
	TypeGeneral TrackType = "general"
	TypeVideo   TrackType = "video"
	TypeAudio   TrackType = "audio"
	TypeText    TrackType = "text"
)

// ParseTrackType maps user-facing type names onto probe categories.
// "subtitle" is an alias for the underlying "text" category.
func ParseTrackType(name string) (TrackType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "general":
		return TypeGeneral, nil
	case "video":
		return TypeVideo, nil
	case "audio":
		return TypeAudio, nil
	case "text", "subtitle":
		return TypeText, nil
	default:
		return "", fmt.Errorf("unknown track type %q", name)
	}
}

// Track is an immutable record of one track's probed attributes. The numeric
// detail fields are carried as the probe reported them (strings) and are
// display-only; the flag logic reads only TrackID, Language, Title, Forced,
// and Default.
type Track struct {
	TrackID      *int64    `json:"track_id"`
	Type         TrackType `json:"track_type"`
	Codec        string    `json:"codec,omitempty"`
	Language     string    `json:"language"`
	Title        string    `json:"title"`
	Forced       bool      `json:"forced"`
	Default      bool      `json:"default"`
	Duration     string    `json:"duration,omitempty"`
	FileSize     string    `json:"file_size,omitempty"`
	BitRate      string    `json:"bit_rate,omitempty"`
	Width        string    `json:"width,omitempty"`
	Height       string    `json:"height,omitempty"`
	FrameRate    string    `json:"frame_rate,omitempty"`
	Channels     string    `json:"channels,omitempty"`
	SamplingRate string    `json:"sampling_rate,omitempty"`
}

// HasTrackID reports whether the probe assigned this track an identifier
// usable for mutation. Tracks without one are display-only.
func (t Track) HasTrackID() bool {
	return t.TrackID != nil
}

// Snapshot is the four-way grouping of tracks produced by inspecting one
// file at one point in time.
type Snapshot struct {
	General []Track `json:"general"`
	Video   []Track `json:"video"`
	Audio   []Track `json:"audio"`
	Text    []Track `json:"text"`
}

// TracksOf returns the track group for the given type.
func (s Snapshot) TracksOf(t TrackType) []Track {
	switch t {
	case TypeGeneral:
		return s.General
	case TypeVideo:
		return s.Video
	case TypeAudio:
		return s.Audio
	case TypeText:
		return s.Text
	default:
		return nil
	}
}

// Append adds a track to the group matching its type. Tracks with an
// unrecognized type are dropped.
func (s *Snapshot) Append(track Track) {
	switch track.Type {
	case TypeGeneral:
		s.General = append(s.General, track)
	case TypeVideo:
		s.Video = append(s.Video, track)
	case TypeAudio:
		s.Audio = append(s.Audio, track)
	case TypeText:
		s.Text = append(s.Text, track)
	}
}

// TrackCount returns the total number of tracks across all groups.
func (s Snapshot) TrackCount() int {
	return len(s.General) + len(s.Video) + len(s.Audio) + len(s.Text)
}
