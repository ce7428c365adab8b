package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// DropKind discriminates the three drag payload shapes.
type DropKind string

const (
	// DropSingle is a plain id dragged from the library.
	DropSingle DropKind = "single"
	// DropMulti is a list of ids, inserted consecutively in payload order.
	DropMulti DropKind = "multi"
	// DropReorder is a playlist-internal move: an id plus its originating
	// index.
	DropReorder DropKind = "reorder"
)

// DropPayload is the parsed content of a drag-and-drop operation.
type DropPayload struct {
	Kind      DropKind `json:"type"`
	ID        string   `json:"id,omitempty"`
	IDs       []string `json:"ids,omitempty"`
	FromIndex int      `json:"fromIndex"`
}

// ErrMalformedDrop marks drag data the engine does not recognize. Such drops
// are ignored without any state change.
var ErrMalformedDrop = errors.New("malformed drop payload")

// ParseDropPayload interprets raw drag data. A bare id string is accepted as
// a single-id payload for drags originating outside the structured UI.
func ParseDropPayload(data []byte) (DropPayload, error) {
	var payload DropPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		var id string
		if json.Unmarshal(data, &id) == nil && id != "" {
			return DropPayload{Kind: DropSingle, ID: id}, nil
		}
		return DropPayload{}, fmt.Errorf("%w: %v", ErrMalformedDrop, err)
	}

	switch payload.Kind {
	case DropSingle:
		if payload.ID == "" {
			return DropPayload{}, fmt.Errorf("%w: single drop without id", ErrMalformedDrop)
		}
	case DropMulti:
		if len(payload.IDs) == 0 {
			return DropPayload{}, fmt.Errorf("%w: multi drop without ids", ErrMalformedDrop)
		}
	case DropReorder:
		if payload.ID == "" {
			return DropPayload{}, fmt.Errorf("%w: reorder drop without id", ErrMalformedDrop)
		}
	default:
		return DropPayload{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedDrop, payload.Kind)
	}
	return payload, nil
}

// DropTarget locates where a payload was released. Index -1 is the
// playlist's empty background; otherwise the pointer's vertical half on the
// target entry decides before/after.
type DropTarget struct {
	Index  int  `json:"index"`
	Bottom bool `json:"bottom"`
}

// insertIndex translates the target into a splice position, -1 for append.
func (t DropTarget) insertIndex(length int) int {
	if t.Index < 0 || t.Index >= length {
		return -1
	}
	index := t.Index
	if t.Bottom {
		index++
	}
	return index
}

// HandleDrop translates a drop into playlist operations. It reports whether
// any state changed; malformed or stale payloads are ignored.
func (e *Engine) HandleDrop(payload DropPayload, target DropTarget) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	index := target.insertIndex(e.playlist.Len())
	switch payload.Kind {
	case DropSingle:
		return e.addToPlaylist(payload.ID, index)

	case DropMulti:
		return e.addAllToPlaylist(payload.IDs, index) > 0

	case DropReorder:
		from := payload.FromIndex
		if e.playlist.At(from) != payload.ID {
			log.Warnf("Ignoring stale reorder drop of %q from %d", payload.ID, from)
			return false
		}
		to := index
		if to < 0 {
			to = e.playlist.Len() - 1
		} else if to > from {
			to--
		}
		if !e.playlist.Reorder(from, to) {
			return false
		}
		e.Emit(PlaylistEvent{})
		return true
	}
	return false
}
