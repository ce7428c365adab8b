// Package selection tracks which library items are marked in the gallery
// view. It is independent of playback; entries are plain id references.
package selection

import "sync"

// Tracker holds the set of selected media ids and the most recently selected
// id, which anchors shift-range selection.
//
// All operations tolerate unknown ids; the UI issues selections optimistically
// and stale ids must never fault the engine.
type Tracker struct {
	lock     sync.Mutex
	selected map[string]struct{}
	last     string
}

// NewTracker creates an empty selection tracker.
func NewTracker() *Tracker {
	return &Tracker{selected: map[string]struct{}{}}
}

// Add marks the id as selected and makes it the range anchor.
func (tr *Tracker) Add(id string) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.selected[id] = struct{}{}
	tr.last = id
}

// Remove unmarks the id. Unknown ids are ignored.
func (tr *Tracker) Remove(id string) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	delete(tr.selected, id)
	if tr.last == id {
		tr.last = ""
	}
}

// Toggle flips the selection state of the id.
func (tr *Tracker) Toggle(id string) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if _, ok := tr.selected[id]; ok {
		delete(tr.selected, id)
		if tr.last == id {
			tr.last = ""
		}
		return
	}
	tr.selected[id] = struct{}{}
	tr.last = id
}

// Clear unmarks everything and resets the range anchor.
func (tr *Tracker) Clear() {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	tr.selected = map[string]struct{}{}
	tr.last = ""
}

// Has reports whether the id is selected.
func (tr *Tracker) Has(id string) bool {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	_, ok := tr.selected[id]
	return ok
}

// Last returns the range anchor id, or "" if there is none.
func (tr *Tracker) Last() string {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return tr.last
}

// IDs returns the selected ids in the order they appear in galleryOrder.
func (tr *Tracker) IDs(galleryOrder []string) []string {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	ids := make([]string, 0, len(tr.selected))
	for _, id := range galleryOrder {
		if _, ok := tr.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of selected ids.
func (tr *Tracker) Len() int {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return len(tr.selected)
}

// SelectRange marks every id between fromID and toID in galleryOrder,
// bounds inclusive. If either id cannot be resolved the call is a no-op.
func (tr *Tracker) SelectRange(fromID, toID string, galleryOrder []string) {
	from, to := -1, -1
	for i, id := range galleryOrder {
		if id == fromID {
			from = i
		}
		if id == toID {
			to = i
		}
	}
	if from == -1 || to == -1 {
		return
	}
	if from > to {
		from, to = to, from
	}

	tr.lock.Lock()
	defer tr.lock.Unlock()
	for _, id := range galleryOrder[from : to+1] {
		tr.selected[id] = struct{}{}
	}
	tr.last = toID
}
