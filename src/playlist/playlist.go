// Package playlist implements the ordered media sequence and the
// index-adjustment rules that keep the playback cursor pointed at the same
// logical entry while the sequence is mutated underneath it.
package playlist

import (
	"math/rand"
	"time"
)

// Playlist is a mutable ordered sequence of media ids. The same id may occur
// any number of times.
//
// The cursor is -1 when nothing is selected for playback, otherwise a valid
// index into the sequence. Every mutation below re-establishes that
// invariant before returning.
//
// Playlist performs no synchronization of its own; the engine serializes all
// access.
type Playlist struct {
	items   []string
	cursor  int
	shuffle bool
	rng     *rand.Rand
}

// New creates an empty playlist.
func New() *Playlist {
	return &Playlist{
		cursor: -1,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Items returns a copy of the id sequence.
func (pl *Playlist) Items() []string {
	items := make([]string, len(pl.items))
	copy(items, pl.items)
	return items
}

// Len returns the number of entries.
func (pl *Playlist) Len() int {
	return len(pl.items)
}

// At returns the id at the specified index, or "" if out of range.
func (pl *Playlist) At(index int) string {
	if index < 0 || index >= len(pl.items) {
		return ""
	}
	return pl.items[index]
}

// IndexOf returns the first index holding the specified id, or -1.
func (pl *Playlist) IndexOf(id string) int {
	for i, item := range pl.items {
		if item == id {
			return i
		}
	}
	return -1
}

// Cursor returns the current playback index, -1 if none.
func (pl *Playlist) Cursor() int {
	return pl.cursor
}

// SetCursor moves the cursor. Out-of-range values reset it to -1.
func (pl *Playlist) SetCursor(index int) {
	if index < 0 || index >= len(pl.items) {
		pl.cursor = -1
		return
	}
	pl.cursor = index
}

// Shuffle reports whether random item selection is enabled.
func (pl *Playlist) Shuffle() bool {
	return pl.shuffle
}

// SetShuffle enables or disables random item selection.
func (pl *Playlist) SetShuffle(enabled bool) {
	pl.shuffle = enabled
}

// Insert splices the id in at the specified index. An index of -1 or one
// past the end appends. It returns the index the id ended up at.
//
// When playback is active and the insertion point is at or before the
// cursor, the cursor shifts up by one so it keeps referencing the item that
// was playing. Inserting into an empty playlist arms the cursor at 0
// regardless of playing state.
func (pl *Playlist) Insert(id string, index int, playing bool) int {
	wasEmpty := len(pl.items) == 0
	if index < 0 || index >= len(pl.items) {
		index = len(pl.items)
		pl.items = append(pl.items, id)
	} else {
		pl.items = append(pl.items[:index], append([]string{id}, pl.items[index:]...)...)
	}

	if playing && pl.cursor >= 0 && index <= pl.cursor {
		pl.cursor++
	}
	if wasEmpty {
		pl.cursor = 0
	}
	return index
}

// InsertAll inserts the ids consecutively starting at the specified index,
// preserving their order. An index of -1 appends.
func (pl *Playlist) InsertAll(ids []string, index int, playing bool) {
	for _, id := range ids {
		at := pl.Insert(id, index, playing)
		index = at + 1
	}
}

// RemoveAt deletes the entry at the specified index. It reports whether the
// removed entry was the one under the cursor, and whether anything was
// removed at all.
//
// Removal strictly before the cursor shifts the cursor down by one. Removal
// at the cursor leaves the cursor on the entry that slid into its place,
// wrapping to 0 when the cursor would point past the new end. The caller
// decides whether that warrants restarting playback.
func (pl *Playlist) RemoveAt(index int) (cursorHit, ok bool) {
	if index < 0 || index >= len(pl.items) {
		return false, false
	}
	cursorHit = index == pl.cursor
	pl.items = append(pl.items[:index], pl.items[index+1:]...)

	switch {
	case len(pl.items) == 0:
		pl.cursor = -1
	case index < pl.cursor:
		pl.cursor--
	case cursorHit && pl.cursor >= len(pl.items):
		pl.cursor = 0
	}
	return cursorHit, true
}

// Reorder moves the entry at fromIndex so that it ends up at toIndex.
// Invalid or equal indices make this a no-op.
//
// The cursor keeps referencing the same logical entry: moving the cursorred
// entry moves the cursor to toIndex, and a move that crosses the cursor
// shifts it by one in the opposite direction. This holds whether or not
// playback is active.
func (pl *Playlist) Reorder(fromIndex, toIndex int) bool {
	n := len(pl.items)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n || fromIndex == toIndex {
		return false
	}

	id := pl.items[fromIndex]
	pl.items = append(pl.items[:fromIndex], pl.items[fromIndex+1:]...)
	pl.items = append(pl.items[:toIndex], append([]string{id}, pl.items[toIndex:]...)...)

	switch {
	case fromIndex == pl.cursor:
		pl.cursor = toIndex
	case fromIndex < pl.cursor && toIndex >= pl.cursor:
		pl.cursor--
	case fromIndex > pl.cursor && toIndex <= pl.cursor:
		pl.cursor++
	}
	return true
}

// Clear empties the sequence and resets the cursor.
func (pl *Playlist) Clear() {
	pl.items = nil
	pl.cursor = -1
}

// CascadeDelete removes every occurrence of the id, iterating from the end
// so earlier indices stay stable during removal. It returns the number of
// removed occurrences and whether one of them sat under the cursor, so that
// playback can recover onto a neighboring entry exactly once after the whole
// cascade.
func (pl *Playlist) CascadeDelete(id string) (removed int, cursorHit bool) {
	for i := len(pl.items) - 1; i >= 0; i-- {
		if pl.items[i] != id {
			continue
		}
		hit, _ := pl.RemoveAt(i)
		cursorHit = cursorHit || hit
		removed++
	}
	return removed, cursorHit
}

// NextIndex resolves the index an auto-advance should move to. It does not
// mutate the playlist.
//
// Sequential mode yields cursor+1; the caller wraps overflow. Shuffle mode
// draws uniformly at random and resamples until the draw differs from the
// cursor, except for single-entry playlists where 0 is accepted immediately.
func (pl *Playlist) NextIndex() int {
	n := len(pl.items)
	if n == 0 {
		return -1
	}
	if !pl.shuffle {
		return pl.cursor + 1
	}
	if n == 1 {
		return 0
	}
	for {
		index := pl.rng.Intn(n)
		if index != pl.cursor {
			return index
		}
	}
}

// Restore replaces the whole playlist state from a snapshot. The cursor is
// reset; playback never survives a restore.
func (pl *Playlist) Restore(items []string, shuffle bool) {
	pl.items = make([]string, len(items))
	copy(pl.items, items)
	pl.cursor = -1
	pl.shuffle = shuffle
}
