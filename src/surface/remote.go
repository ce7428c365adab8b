// Package surface provides the production display collaborator: the engine
// mounts elements on it and every resulting display command is broadcast to
// the widget over the event stream. The widget executes the commands against
// its real media elements and reports element events back through the API.
package surface

import (
	"wallplay/src/engine"
	"wallplay/src/media"
	"wallplay/src/util"
)

// Display command actions.
const (
	ActionMount = "mount"
	ActionClear = "clear"
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionSeek  = "seek"
	ActionHalt  = "halt"
)

// Command is one display instruction for the widget.
type Command struct {
	Action       string     `json:"action"`
	MediaID      string     `json:"mediaId,omitempty"`
	Ref          string     `json:"ref,omitempty"`
	Type         media.Type `json:"type,omitempty"`
	Volume       float64    `json:"volume,omitempty"`
	PlaybackRate float64    `json:"playbackRate,omitempty"`
	Seconds      float64    `json:"seconds,omitempty"`
}

// Remote broadcasts display commands to its listeners.
type Remote struct {
	util.Emitter
}

// NewRemote creates a remote display surface.
func NewRemote() *Remote {
	return &Remote{}
}

// Mount implements the engine.Surface interface.
func (rs *Remote) Mount(item *media.Item) (engine.Element, error) {
	rs.Emit(Command{
		Action:       ActionMount,
		MediaID:      item.ID,
		Ref:          item.PlayableRef,
		Type:         item.Type,
		Volume:       item.Settings.Volume,
		PlaybackRate: item.Settings.PlaybackRate,
	})
	return &remoteElement{surface: rs, mediaID: item.ID}, nil
}

// Clear implements the engine.Surface interface.
func (rs *Remote) Clear() {
	rs.Emit(Command{Action: ActionClear})
}

type remoteElement struct {
	surface *Remote
	mediaID string
}

func (el *remoteElement) Play() error {
	el.surface.Emit(Command{Action: ActionPlay, MediaID: el.mediaID})
	return nil
}

func (el *remoteElement) Pause() {
	el.surface.Emit(Command{Action: ActionPause, MediaID: el.mediaID})
}

func (el *remoteElement) Seek(seconds float64) {
	el.surface.Emit(Command{Action: ActionSeek, MediaID: el.mediaID, Seconds: seconds})
}

func (el *remoteElement) Halt() {
	el.surface.Emit(Command{Action: ActionHalt, MediaID: el.mediaID})
}
