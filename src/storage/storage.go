// Package storage persists engine snapshots to a bbolt key-value store.
// Anything absent or malformed on disk degrades to "no saved state"; the
// store never blocks the engine with a hard failure on load.
package storage

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"wallplay/src/engine"
)

const (
	stateBucket = "state"

	mediaKey    = "media"
	playlistKey = "playlist"
)

// Store wraps the snapshot database.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the snapshot database at the specified path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open state database %q: %v", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not initialize state database: %v", err)
	}
	return &Store{db: db}, nil
}

func (st *Store) Close() error {
	return st.db.Close()
}

// Save persists a snapshot. Playable references and thumbnails are already
// excluded from the snapshot's serialized form.
func (st *Store) Save(snap engine.Snapshot) error {
	media, err := json.Marshal(snap.Media)
	if err != nil {
		return err
	}
	playlist, err := json.Marshal(snap.Playlist)
	if err != nil {
		return err
	}
	return st.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket))
		if err := b.Put([]byte(mediaKey), media); err != nil {
			return err
		}
		return b.Put([]byte(playlistKey), playlist)
	})
}

// Load reads the persisted snapshot. The bool result is false when no usable
// state exists; corrupt records are logged and treated as absent.
func (st *Store) Load() (engine.Snapshot, bool, error) {
	var snap engine.Snapshot
	found := false
	err := st.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket))
		media := b.Get([]byte(mediaKey))
		playlist := b.Get([]byte(playlistKey))
		if media == nil && playlist == nil {
			return nil
		}
		if media != nil {
			if err := json.Unmarshal(media, &snap.Media); err != nil {
				log.Warnf("Discarding corrupt media state: %v", err)
				snap = engine.Snapshot{}
				return nil
			}
		}
		if playlist != nil {
			if err := json.Unmarshal(playlist, &snap.Playlist); err != nil {
				log.Warnf("Discarding corrupt playlist state: %v", err)
				snap = engine.Snapshot{}
				return nil
			}
		}
		found = true
		return nil
	})
	if err != nil {
		return engine.Snapshot{}, false, err
	}
	return snap, found, nil
}
