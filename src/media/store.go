package media

import "sync"

// Store owns the mapping from media id to item records. Iteration order is
// insertion order, which is also the order the library gallery renders in.
//
// Id uniqueness is the caller's responsibility; the store does not validate
// it beyond replacing a previous record with the same id.
type Store struct {
	lock  sync.RWMutex
	order []string
	items map[string]*Item
}

// NewStore creates an empty media store.
func NewStore() *Store {
	return &Store{items: map[string]*Item{}}
}

// Add inserts a new item record.
func (st *Store) Add(item *Item) {
	st.lock.Lock()
	defer st.lock.Unlock()
	if _, ok := st.items[item.ID]; !ok {
		st.order = append(st.order, item.ID)
	}
	st.items[item.ID] = item
}

// Find returns the item with the specified id, or nil if no such item
// exists. It is called on every render and every playlist resolution.
func (st *Store) Find(id string) *Item {
	st.lock.RLock()
	defer st.lock.RUnlock()
	return st.items[id]
}

// Remove deletes the record and releases its playable reference. It reports
// whether a record existed.
//
// The playlist is not touched; deletion workflows must cascade into playlist
// removal themselves.
func (st *Store) Remove(id string) bool {
	st.lock.Lock()
	defer st.lock.Unlock()
	item, ok := st.items[id]
	if !ok {
		return false
	}
	item.PlayableRef = ""
	item.Thumbnail = ""
	delete(st.items, id)
	for i, oid := range st.order {
		if oid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored items.
func (st *Store) Len() int {
	st.lock.RLock()
	defer st.lock.RUnlock()
	return len(st.order)
}

// Items returns all items in gallery order.
func (st *Store) Items() []*Item {
	st.lock.RLock()
	defer st.lock.RUnlock()
	items := make([]*Item, len(st.order))
	for i, id := range st.order {
		items[i] = st.items[id]
	}
	return items
}

// IDs returns all item ids in gallery order.
func (st *Store) IDs() []string {
	st.lock.RLock()
	defer st.lock.RUnlock()
	ids := make([]string, len(st.order))
	copy(ids, st.order)
	return ids
}

// IndexOf returns the gallery position of the specified id, or -1.
func (st *Store) IndexOf(id string) int {
	st.lock.RLock()
	defer st.lock.RUnlock()
	for i, oid := range st.order {
		if oid == id {
			return i
		}
	}
	return -1
}
