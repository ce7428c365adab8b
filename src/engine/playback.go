package engine

import (
	"time"

	log "github.com/sirupsen/logrus"

	"wallplay/src/media"
)

// PlayState is the playback state machine's current mode.
type PlayState string

const (
	// StateIdle: nothing mounted, cursor may be armed or -1.
	StateIdle PlayState = "idle"
	// StateSingle: one item playing outside playlist context, optionally
	// looping. The playlist cursor is left undisturbed.
	StateSingle PlayState = "playing-single"
	// StatePlaylist: the cursor is valid and drives auto-advance.
	StatePlaylist PlayState = "playing-playlist"
	// StatePaused: playlist playback suspended, position retained.
	StatePaused PlayState = "paused"
)

func (e *Engine) setState(state PlayState) {
	if e.state == state {
		return
	}
	e.state = state
	e.Emit(PlayStateEvent{State: state})
}

func (e *Engine) setHighlight(mediaID string, source HighlightSource) {
	hl := Highlight{MediaID: mediaID, Source: source}
	if e.highlight == hl {
		return
	}
	e.highlight = hl
	e.Emit(HighlightEvent{Highlight: hl})
}

func (e *Engine) cancelAdvanceTimer() {
	if e.advanceTimer != nil {
		e.advanceTimer.Stop()
		e.advanceTimer = nil
	}
}

// SelectMedia starts playback of a single library item. With loop enabled
// the item repeats until stopped. Without it, an item that occurs in the
// playlist snaps playback to its position there; otherwise it plays once to
// completion with no auto-advance.
func (e *Engine) SelectMedia(id string, loop bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	item := e.store.Find(id)
	if item == nil {
		e.notify("Media is no longer in the library", SeverityWarning)
		return
	}

	// Halt whatever is playing but keep the playlist position.
	e.stopPlayback(false)

	if !loop {
		if index := e.playlist.IndexOf(id); index >= 0 {
			e.playByIndex(index)
			return
		}
	}

	e.loopSingle = loop
	e.current = item
	e.setState(StateSingle)
	e.setHighlight(id, SourceLibrary)
	e.mountCurrent()
}

// PlayPlaylist starts or resumes playlist playback at the cursor, arming it
// first when invalid.
func (e *Engine) PlayPlaylist() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.playPlaylist()
}

// TogglePlaylist is the play/pause control: it pauses when the playlist is
// playing and plays otherwise.
func (e *Engine) TogglePlaylist() {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.state == StatePlaylist {
		e.pausePlaylist()
		return
	}
	e.playPlaylist()
}

func (e *Engine) playPlaylist() {
	if e.playlist.Len() == 0 {
		e.notify("The playlist is empty", SeverityInfo)
		return
	}

	// Resume from pause without remounting.
	if e.state == StatePaused && e.element != nil && e.playlist.Cursor() >= 0 {
		if err := e.element.Play(); err == nil {
			e.setState(StatePlaylist)
			if e.current != nil && e.current.Type == media.TypeImage {
				e.advanceTimer = time.AfterFunc(e.imageDuration, e.onAdvanceTimer)
			}
			return
		}
	}

	index := e.playlist.Cursor()
	if index < 0 || index >= e.playlist.Len() {
		if e.playlist.Shuffle() {
			index = e.playlist.NextIndex()
		} else {
			index = 0
		}
	}
	e.playByIndex(index)
}

// PausePlaylist suspends playlist playback, retaining the position.
func (e *Engine) PausePlaylist() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.pausePlaylist()
}

func (e *Engine) pausePlaylist() {
	if e.state != StatePlaylist {
		return
	}
	e.cancelAdvanceTimer()
	if e.element != nil {
		e.element.Pause()
	}
	e.setState(StatePaused)
}

// StopPlaylist halts playback. With resetIndex the cursor is dropped and the
// display cleared; without it the playlist position survives, which is how
// single-item playback takes over without disturbing it.
func (e *Engine) StopPlaylist(resetIndex bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.stopPlayback(resetIndex)
}

func (e *Engine) stopPlayback(resetIndex bool) {
	e.cancelAdvanceTimer()
	if e.element != nil {
		e.element.Halt()
		e.element = nil
	}
	e.current = nil
	e.loopSingle = false
	if resetIndex {
		e.playlist.SetCursor(-1)
		e.surface.Clear()
		e.setHighlight("", SourceNone)
		e.Emit(PlaylistEvent{})
	}
	e.setState(StateIdle)
}

// PlayByIndex starts playlist playback at the specified index.
func (e *Engine) PlayByIndex(index int) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.playByIndex(index)
}

func (e *Engine) playByIndex(index int) {
	if e.playlist.Len() == 0 {
		e.stopPlayback(true)
		return
	}
	if index < 0 || index >= e.playlist.Len() {
		index = 0
	}

	// Resolve the entry, healing dangling ids whose media no longer exists
	// in the library instead of failing outright.
	var item *media.Item
	for {
		id := e.playlist.At(index)
		if item = e.store.Find(id); item != nil {
			break
		}
		log.Warnf("Dropping dangling playlist entry %q at %d", id, index)
		e.playlist.RemoveAt(index)
		e.Emit(PlaylistEvent{})
		e.notify("Removed missing media from the playlist", SeverityWarning)
		if e.playlist.Len() == 0 {
			e.stopPlayback(true)
			return
		}
		if index >= e.playlist.Len() {
			index = 0
		}
	}

	e.cancelAdvanceTimer()
	if e.element != nil {
		e.element.Halt()
		e.element = nil
	}
	e.playlist.SetCursor(index)
	e.loopSingle = false
	e.current = item
	e.setState(StatePlaylist)
	e.setHighlight(item.ID, SourcePlaylist)
	e.Emit(PlaylistEvent{})
	e.mountCurrent()
}

// mountCurrent clears the display and mounts e.current, wiring the per-item
// advance trigger: a timer for images, trim seek for trimmed video. Mount or
// play failures are treated as an end-of-item signal.
func (e *Engine) mountCurrent() {
	e.surface.Clear()
	element, err := e.surface.Mount(e.current)
	if err == nil {
		err = element.Play()
		if err != nil {
			element.Halt()
		}
	}
	if err != nil {
		log.Errorf("Could not start %v: %v", e.current, err)
		e.handlePlaybackFailure()
		return
	}

	e.failStreak = 0
	e.element = element
	if e.current.TrimActive() {
		element.Seek(e.current.Settings.Trim.StartTime)
	}
	if e.current.Type == media.TypeImage && e.state == StatePlaylist {
		e.advanceTimer = time.AfterFunc(e.imageDuration, e.onAdvanceTimer)
	}
}

// handlePlaybackFailure advances past a bad clip in playlist context and
// stops otherwise. A full lap of consecutive failures stops playback so a
// playlist of unplayable items does not cycle forever.
func (e *Engine) handlePlaybackFailure() {
	e.element = nil
	if e.state != StatePlaylist {
		e.stopPlayback(true)
		e.notify("Media could not be played", SeverityError)
		return
	}
	e.failStreak++
	if e.failStreak >= e.playlist.Len() {
		e.failStreak = 0
		e.stopPlayback(true)
		e.notify("Playback stopped, no playable media in the playlist", SeverityError)
		return
	}
	e.advanceTimer = time.AfterFunc(errorAdvanceDelay, e.onAdvanceTimer)
}

// onAdvanceTimer fires for both the image display timer and scheduled error
// recovery.
func (e *Engine) onAdvanceTimer() {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.state != StatePlaylist {
		return
	}
	e.advanceToNext(-1, false)
}

// AdvanceToNext skips to the next item per the shuffle/sequential policy.
func (e *Engine) AdvanceToNext() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.advanceToNext(-1, false)
}

// advanceToNext performs one guarded transition. A second call while one is
// in flight is dropped; a trim-boundary watch and a natural end event firing
// near-simultaneously must not advance twice. The guard is released after a
// bounded delay rather than synchronously so the new element's own events
// settle first.
func (e *Engine) advanceToNext(explicit int, hasExplicit bool) {
	if e.advancing {
		log.Debugf("Dropping re-entrant advance")
		return
	}
	e.advancing = true
	time.AfterFunc(e.guardRelease, func() {
		e.lock.Lock()
		e.advancing = false
		e.lock.Unlock()
	})

	e.cancelAdvanceTimer()
	index := explicit
	if !hasExplicit {
		index = e.playlist.NextIndex()
	}
	if index < 0 {
		e.stopPlayback(true)
		return
	}
	e.playByIndex(index)
}

// OnMediaEnded is the element's natural end-of-playback trigger.
func (e *Engine) OnMediaEnded() {
	e.lock.Lock()
	defer e.lock.Unlock()

	switch e.state {
	case StatePlaylist:
		e.advanceToNext(-1, false)
	case StateSingle:
		if e.loopSingle && e.element != nil {
			start := 0.0
			if e.current != nil && e.current.TrimActive() {
				start = e.current.Settings.Trim.StartTime
			}
			e.element.Seek(start)
			if err := e.element.Play(); err != nil {
				log.Errorf("Could not restart %v: %v", e.current, err)
				e.handlePlaybackFailure()
			}
			return
		}
		// One-shot playback ran to completion.
		e.stopPlayback(true)
	}
}

// OnMediaError is the element's decode/playback failure trigger. The item is
// treated as ended so playlist playback survives individual bad clips.
func (e *Engine) OnMediaError() {
	e.lock.Lock()
	defer e.lock.Unlock()

	log.Errorf("Playback failure reported for %v", e.current)
	if e.element != nil {
		e.element.Halt()
		e.element = nil
	}
	e.handlePlaybackFailure()
}

// OnMediaPosition is the element's playback position trigger, in seconds.
// It enforces the trim window: positions before the window snap forward,
// reaching the end bound advances, restarts or pauses depending on context.
func (e *Engine) OnMediaPosition(seconds float64) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.element == nil || e.current == nil || !e.current.TrimActive() {
		return
	}
	trim := e.current.Settings.Trim
	if seconds < trim.StartTime {
		// Seek-back guard.
		e.element.Seek(trim.StartTime)
		return
	}
	if trim.EndTime == nil || seconds < *trim.EndTime {
		return
	}

	switch {
	case e.state == StatePlaylist:
		e.advanceToNext(-1, false)
	case e.state == StateSingle && e.loopSingle:
		e.element.Seek(trim.StartTime)
		if err := e.element.Play(); err != nil {
			log.Errorf("Could not restart %v: %v", e.current, err)
			e.handlePlaybackFailure()
		}
	default:
		e.element.Pause()
	}
}
