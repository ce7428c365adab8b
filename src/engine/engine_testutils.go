package engine

import (
	"fmt"
	"sync"

	"wallplay/src/media"
)

// FakeSurface is a Surface double recording what the engine mounts.
type FakeSurface struct {
	lock    sync.Mutex
	mounted []string
	cleared int
	failing map[string]bool
	last    *FakeElement
}

func NewFakeSurface() *FakeSurface {
	return &FakeSurface{failing: map[string]bool{}}
}

// FailFor makes future mounts of the specified id fail.
func (s *FakeSurface) FailFor(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failing[id] = true
}

func (s *FakeSurface) Mount(item *media.Item) (Element, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.failing[item.ID] {
		return nil, fmt.Errorf("cannot decode %q", item.ID)
	}
	s.mounted = append(s.mounted, item.ID)
	s.last = &FakeElement{ID: item.ID}
	return s.last, nil
}

func (s *FakeSurface) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cleared++
}

// MountedIDs returns every id mounted so far, in order.
func (s *FakeSurface) MountedIDs() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	ids := make([]string, len(s.mounted))
	copy(ids, s.mounted)
	return ids
}

// MountCount returns how many elements were mounted so far.
func (s *FakeSurface) MountCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.mounted)
}

// LastElement returns the most recently mounted element, nil if none.
func (s *FakeSurface) LastElement() *FakeElement {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.last
}

// FakeElement records the playback commands issued to it.
type FakeElement struct {
	lock    sync.Mutex
	ID      string
	playing bool
	halted  bool
	seeks   []float64
}

func (el *FakeElement) Play() error {
	el.lock.Lock()
	defer el.lock.Unlock()
	el.playing = true
	return nil
}

func (el *FakeElement) Pause() {
	el.lock.Lock()
	defer el.lock.Unlock()
	el.playing = false
}

func (el *FakeElement) Seek(seconds float64) {
	el.lock.Lock()
	defer el.lock.Unlock()
	el.seeks = append(el.seeks, seconds)
}

func (el *FakeElement) Halt() {
	el.lock.Lock()
	defer el.lock.Unlock()
	el.playing = false
	el.halted = true
}

func (el *FakeElement) Playing() bool {
	el.lock.Lock()
	defer el.lock.Unlock()
	return el.playing
}

func (el *FakeElement) Halted() bool {
	el.lock.Lock()
	defer el.lock.Unlock()
	return el.halted
}

// Seeks returns the seek positions issued so far.
func (el *FakeElement) Seeks() []float64 {
	el.lock.Lock()
	defer el.lock.Unlock()
	seeks := make([]float64, len(el.seeks))
	copy(seeks, el.seeks)
	return seeks
}
