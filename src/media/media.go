package media

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Type discriminates between the two kinds of playable media.
type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
)

// Valid reports whether t is one of the known media types.
func (t Type) Valid() bool {
	return t == TypeImage || t == TypeVideo
}

// TrimWindow confines video playback to a sub-range of the clip.
//
// EndTime is resolved lazily once the clip's duration is known and remains
// nil until then. Whenever both bounds are resolved, StartTime < EndTime.
type TrimWindow struct {
	Enabled   bool     `json:"enabled"`
	StartTime float64  `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
}

// Valid reports whether the window bounds are usable.
func (tw TrimWindow) Valid() bool {
	if tw.StartTime < 0 {
		return false
	}
	return tw.EndTime == nil || tw.StartTime < *tw.EndTime
}

const (
	MinPlaybackRate = 0.25
	MaxPlaybackRate = 2.0
)

// Settings holds the per-item playback configuration.
type Settings struct {
	Volume       float64    `json:"volume"`
	PlaybackRate float64    `json:"playbackRate"`
	Trim         TrimWindow `json:"trim"`
}

// DefaultSettings returns the configuration applied to newly imported items.
func DefaultSettings() Settings {
	return Settings{Volume: 1, PlaybackRate: 1}
}

// Clamp forces volume and playback rate into their permitted ranges.
func (s *Settings) Clamp() {
	s.Volume = min(max(s.Volume, 0), 1)
	s.PlaybackRate = min(max(s.PlaybackRate, MinPlaybackRate), MaxPlaybackRate)
}

// Item is a single imported image or video clip.
//
// PlayableRef and Thumbnail are session-local; they are derived from the
// user-supplied source file and do not survive a restart, which is why they
// are excluded from serialization.
type Item struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     Type      `json:"type"`
	MimeType string    `json:"mimetype"`
	Size     int64     `json:"size"`
	AddedAt  time.Time `json:"addedAt"`
	Settings Settings  `json:"settings"`

	PlayableRef string `json:"-"`
	Thumbnail   string `json:"-"`
}

// Playable reports whether the item still carries a mountable source
// reference. Items restored from a snapshot are not playable until the user
// re-supplies the source file.
func (it *Item) Playable() bool {
	return it.PlayableRef != ""
}

// TrimActive reports whether playback of this item is confined by a trim
// window. Trim is meaningful for video only.
func (it *Item) TrimActive() bool {
	return it.Type == TypeVideo && it.Settings.Trim.Enabled
}

func (it *Item) String() string {
	return fmt.Sprintf("%s %q (%s)", it.Type, it.Name, humanize.Bytes(uint64(it.Size)))
}
