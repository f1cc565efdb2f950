package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// boltOpenTimeout is the maximum time to wait for the bolt file lock.
	boltOpenTimeout = 5 * time.Second
)

var settledBucket = []byte("settled")

// BoltStore keeps settled keys in a bbolt database, one key per entry
// with the settlement time as value. Durability comes from bbolt's own
// transactional writes, so no temp-and-rename dance is needed.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a bolt store at the given path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), historyDirPerm); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := bolt.Open(path, historyFilePerm, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(settledBucket)

		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history db: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Contains reports whether a key was already settled.
func (s *BoltStore) Contains(key string) bool {
	var found bool

	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(settledBucket).Get([]byte(key)) != nil

		return nil
	})

	return found
}

// Add records a key with the current time as settlement timestamp.
func (s *BoltStore) Add(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		ts := time.Now().UTC().Format(time.RFC3339)

		return tx.Bucket(settledBucket).Put([]byte(key), []byte(ts))
	})
}

// Len returns the number of settled keys.
func (s *BoltStore) Len() int {
	count := 0

	_ = s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(settledBucket).Stats().KeyN

		return nil
	})

	return count
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
