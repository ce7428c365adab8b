// Package engine implements the media library, playlist and playback state
// machine of the wallpaper widget. A single Engine instance is constructed
// per widget session; UI collaborators drive it through its exported
// operations and re-render from state snapshots on every emitted event.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wallplay/src/media"
	"wallplay/src/playlist"
	"wallplay/src/selection"
	"wallplay/src/util"
)

const (
	// DefaultImageDuration is how long an image item is shown before the
	// playlist advances.
	DefaultImageDuration = 5 * time.Second

	// advanceGuardRelease bounds how long a second advance trigger is
	// dropped after one was accepted. The window gives the freshly mounted
	// element's own events time to settle.
	advanceGuardRelease = 200 * time.Millisecond

	// errorAdvanceDelay schedules the recovery advance after a playback
	// failure. It must exceed the guard window or the recovery itself gets
	// dropped.
	errorAdvanceDelay = 300 * time.Millisecond
)

// HighlightSource tells the UI which panel is driving playback.
type HighlightSource string

const (
	SourceNone     HighlightSource = ""
	SourceLibrary  HighlightSource = "library"
	SourcePlaylist HighlightSource = "playlist"
)

// Highlight points at the media the UI should mark as currently playing.
type Highlight struct {
	MediaID string          `json:"mediaId,omitempty"`
	Source  HighlightSource `json:"source,omitempty"`
}

// Engine holds all mutable core state. All operations leave the state fully
// consistent before returning; timers and element events are the only
// asynchronous boundaries.
type Engine struct {
	util.Emitter

	lock      sync.Mutex
	store     *media.Store
	selection *selection.Tracker
	playlist  *playlist.Playlist
	surface   Surface

	state      PlayState
	loopSingle bool
	current    *media.Item
	element    Element
	highlight  Highlight

	// At most one advance timer exists at a time. It doubles as the image
	// display timer and the delayed error-recovery advance.
	advanceTimer *time.Timer
	advancing    bool
	failStreak   int

	imageDuration time.Duration
	guardRelease  time.Duration
}

// New creates an engine rendering to the specified surface.
func New(surface Surface) *Engine {
	return &Engine{
		store:         media.NewStore(),
		selection:     selection.NewTracker(),
		playlist:      playlist.New(),
		surface:       surface,
		state:         StateIdle,
		imageDuration: DefaultImageDuration,
		guardRelease:  advanceGuardRelease,
	}
}

// SetImageDuration overrides how long image items are displayed.
func (e *Engine) SetImageDuration(d time.Duration) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if d > 0 {
		e.imageDuration = d
	}
}

func (e *Engine) notify(message, severity string) {
	e.Emit(NotificationEvent{Message: message, Severity: severity})
}

// AddMedia inserts a fully formed media item into the library. An id is
// generated when the import collaborator did not supply one.
func (e *Engine) AddMedia(item *media.Item) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	if item.Settings == (media.Settings{}) {
		item.Settings = media.DefaultSettings()
	}
	item.Settings.Clamp()

	e.store.Add(item)
	log.Infof("Imported %v", item)
	e.Emit(LibraryEvent{})
	e.notify(fmt.Sprintf("Imported %q", item.Name), SeverityInfo)
}

// MediaItems returns the library contents in gallery order.
func (e *Engine) MediaItems() []*media.Item {
	return e.store.Items()
}

// FindMedia looks up a single library item, nil if unknown.
func (e *Engine) FindMedia(id string) *media.Item {
	return e.store.Find(id)
}

// MediaUpdate is a partial settings edit; nil fields are left untouched.
type MediaUpdate struct {
	Name         *string
	Volume       *float64
	PlaybackRate *float64
	Trim         *media.TrimWindow
}

// UpdateMedia applies a settings edit to a library item. Values outside
// their permitted ranges are clamped, invalid trim windows are dropped.
// It reports whether the item exists.
func (e *Engine) UpdateMedia(id string, upd MediaUpdate) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	item := e.store.Find(id)
	if item == nil {
		return false
	}
	if upd.Name != nil && *upd.Name != "" {
		item.Name = *upd.Name
	}
	if upd.Volume != nil {
		item.Settings.Volume = *upd.Volume
	}
	if upd.PlaybackRate != nil {
		item.Settings.PlaybackRate = *upd.PlaybackRate
	}
	item.Settings.Clamp()
	if upd.Trim != nil {
		if upd.Trim.Valid() {
			item.Settings.Trim = *upd.Trim
		} else {
			log.Warnf("Ignoring invalid trim window for %q: %+v", item.Name, *upd.Trim)
			e.notify("Invalid trim window was ignored", SeverityWarning)
		}
	}
	e.Emit(LibraryEvent{})
	return true
}

// DeleteMedia removes an item from the library, releases its playable
// reference and cascades into the selection and every playlist occurrence.
// When a cascaded removal hits the live cursor, playback recovers onto a
// neighboring entry exactly once after the whole cascade.
func (e *Engine) DeleteMedia(id string) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	item := e.store.Find(id)
	if item == nil {
		return false
	}
	name := item.Name

	e.selection.Remove(id)
	removed, cursorHit := e.playlist.CascadeDelete(id)
	e.store.Remove(id)

	playingPlaylist := e.state == StatePlaylist
	if e.current != nil && e.current.ID == id && !playingPlaylist {
		// Single-item or paused playback of the deleted media. A pause
		// keeps its playlist position, everything else resets fully.
		wasPaused := e.state == StatePaused
		e.stopPlayback(!wasPaused)
		if wasPaused {
			e.surface.Clear()
			e.setHighlight("", SourceNone)
		}
	}

	if removed > 0 {
		e.Emit(PlaylistEvent{})
	}
	e.Emit(LibraryEvent{})
	e.notify(fmt.Sprintf("Removed %q", name), SeverityInfo)

	if playingPlaylist && cursorHit {
		if e.playlist.Len() == 0 {
			e.stopPlayback(true)
		} else {
			e.playByIndex(e.playlist.Cursor())
		}
	}
	return true
}

// SelectAdd marks a library item as selected.
func (e *Engine) SelectAdd(id string) {
	e.selection.Add(id)
	e.Emit(LibraryEvent{})
}

// SelectRemove unmarks a library item.
func (e *Engine) SelectRemove(id string) {
	e.selection.Remove(id)
	e.Emit(LibraryEvent{})
}

// SelectToggle flips the selection state of a library item.
func (e *Engine) SelectToggle(id string) {
	e.selection.Toggle(id)
	e.Emit(LibraryEvent{})
}

// SelectClear empties the selection.
func (e *Engine) SelectClear() {
	e.selection.Clear()
	e.Emit(LibraryEvent{})
}

// SelectRange marks every item between fromID and toID in gallery order.
// Unresolvable anchors make this a no-op.
func (e *Engine) SelectRange(fromID, toID string) {
	e.selection.SelectRange(fromID, toID, e.store.IDs())
	e.Emit(LibraryEvent{})
}

// SelectedIDs returns the selected ids in gallery order.
func (e *Engine) SelectedIDs() []string {
	return e.selection.IDs(e.store.IDs())
}

// AddToPlaylist inserts the id at the specified index, -1 appends. Unknown
// media ids are rejected with a notification.
func (e *Engine) AddToPlaylist(id string, index int) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.addToPlaylist(id, index)
}

func (e *Engine) addToPlaylist(id string, index int) bool {
	if e.store.Find(id) == nil {
		log.Warnf("Refusing to enqueue unknown media %q", id)
		e.notify("Media is no longer in the library", SeverityWarning)
		return false
	}
	e.playlist.Insert(id, index, e.state == StatePlaylist)
	e.Emit(PlaylistEvent{})
	return true
}

// AddAllToPlaylist inserts the ids consecutively starting at index,
// preserving their order. Unknown ids are skipped. It returns the number of
// entries added.
func (e *Engine) AddAllToPlaylist(ids []string, index int) int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.addAllToPlaylist(ids, index)
}

func (e *Engine) addAllToPlaylist(ids []string, index int) int {
	known := make([]string, 0, len(ids))
	for _, id := range ids {
		if e.store.Find(id) != nil {
			known = append(known, id)
		}
	}
	if len(known) == 0 {
		return 0
	}
	e.playlist.InsertAll(known, index, e.state == StatePlaylist)
	e.Emit(PlaylistEvent{})
	return len(known)
}

// RemoveFromPlaylist deletes the entry at the specified index. Removing the
// entry under a playing cursor transitions onto whatever now occupies that
// position, or stops when the playlist ran empty.
func (e *Engine) RemoveFromPlaylist(index int) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	cursorHit, ok := e.playlist.RemoveAt(index)
	if !ok {
		return false
	}
	e.Emit(PlaylistEvent{})
	if cursorHit && e.state == StatePlaylist {
		if e.playlist.Len() == 0 {
			e.stopPlayback(true)
		} else {
			e.playByIndex(e.playlist.Cursor())
		}
	}
	return true
}

// MoveInPlaylist moves the entry at fromIndex so it ends up at toIndex.
func (e *Engine) MoveInPlaylist(fromIndex, toIndex int) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	if !e.playlist.Reorder(fromIndex, toIndex) {
		return false
	}
	e.Emit(PlaylistEvent{})
	return true
}

// ClearPlaylist stops playback and empties the sequence.
func (e *Engine) ClearPlaylist() {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.stopPlayback(true)
	e.playlist.Clear()
	e.Emit(PlaylistEvent{})
}

// PlaylistItems returns the id sequence.
func (e *Engine) PlaylistItems() []string {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.playlist.Items()
}

// SetShuffle switches between random and sequential advance.
func (e *Engine) SetShuffle(enabled bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.playlist.SetShuffle(enabled)
	e.Emit(PlaylistEvent{})
}

// Status is the playback state snapshot the UI renders its controls from.
type Status struct {
	State     PlayState `json:"state"`
	Current   int       `json:"current"`
	Shuffle   bool      `json:"shuffle"`
	Highlight Highlight `json:"highlight"`
	MediaID   string    `json:"mediaId,omitempty"`
}

// Status returns the current playback state snapshot.
func (e *Engine) Status() Status {
	e.lock.Lock()
	defer e.lock.Unlock()

	st := Status{
		State:     e.state,
		Current:   e.playlist.Cursor(),
		Shuffle:   e.playlist.Shuffle(),
		Highlight: e.highlight,
	}
	if e.current != nil {
		st.MediaID = e.current.ID
	}
	return st
}

// Snapshot is the persisted state shape. Playable references and thumbnails
// are session-local and deliberately absent.
type Snapshot struct {
	Media    []media.Item     `json:"media"`
	Playlist PlaylistSnapshot `json:"playlist"`
}

// PlaylistSnapshot is the persisted playlist shape.
type PlaylistSnapshot struct {
	Items   []string `json:"items"`
	Shuffle bool     `json:"shuffle"`
}

// Snapshot assembles the persistable state.
func (e *Engine) Snapshot() Snapshot {
	e.lock.Lock()
	defer e.lock.Unlock()

	items := e.store.Items()
	snap := Snapshot{
		Media: make([]media.Item, len(items)),
		Playlist: PlaylistSnapshot{
			Items:   e.playlist.Items(),
			Shuffle: e.playlist.Shuffle(),
		},
	}
	for i, item := range items {
		snap.Media[i] = *item
	}
	return snap
}

// Restore loads a snapshot into an engine that has not started playback.
// Restored items carry no playable reference until the user re-supplies the
// source files.
func (e *Engine) Restore(snap Snapshot) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for i := range snap.Media {
		item := snap.Media[i]
		item.PlayableRef = ""
		item.Thumbnail = ""
		item.Settings.Clamp()
		if item.ID == "" || !item.Type.Valid() {
			log.Warnf("Skipping malformed media record %q in snapshot", item.ID)
			continue
		}
		e.store.Add(&item)
	}
	e.playlist.Restore(snap.Playlist.Items, snap.Playlist.Shuffle)
	log.Infof("Restored %d media, %d playlist entries", e.store.Len(), e.playlist.Len())
	e.Emit(LibraryEvent{})
	e.Emit(PlaylistEvent{})
}
