package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// deckKey is the single slot the current deck is stored under.
const deckKey = "flashcards"

var deckBucket = []byte("decks")

// Store persists a deck snapshot under a key.
type Store interface {
	Save(key string, records []Record) error
	Load(key string) ([]Record, error)
	Clear(key string) error
	Close() error
}

// BoltStore keeps snapshots as JSON values in a bbolt file.
type BoltStore struct {
	db *bolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(deckBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Save overwrites the snapshot. An empty deck is not written, so the
// previous snapshot survives.
func (s *BoltStore) Save(key string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(deckBucket).Put([]byte(key), data)
	})
}

// Load returns the snapshot, or nil if none is stored.
func (s *BoltStore) Load(key string) ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(deckBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &records)
	})
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	return records, nil
}

func (s *BoltStore) Clear(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(deckBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
