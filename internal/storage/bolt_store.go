package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

const seenBucket = "seen_links"

// boltStore implements a write-through Store backed by BoltDB. It keeps the
// same record shape as the JSON store but commits every Add immediately, so
// Persist is a no-op.
type boltStore struct {
	db        *bolt.DB
	retention time.Duration
}

// openBolt initializes a BoltDB-backed Store and prunes aged records.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(seenBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{db: db, retention: opts.Retention}
	if err := store.prune(time.Now()); err != nil {
		db.Close()
		return nil, fmt.Errorf("prune seen records: %w", err)
	}
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) Has(link string) bool {
	var exists bool
	_ = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return nil
		}
		exists = bucket.Get([]byte(link)) != nil
		return nil
	})
	return exists
}

func (b *boltStore) Add(link, title string, now time.Time) bool {
	var added bool
	_ = b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}
		key := []byte(link)
		if bucket.Get(key) != nil {
			return nil
		}
		value, err := json.Marshal(seenEntry{
			Title:     title,
			Timestamp: now.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		if err := bucket.Put(key, value); err != nil {
			return err
		}
		added = true
		return nil
	})
	return added
}

func (b *boltStore) Records() []Record {
	var out []Record
	_ = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			rec, ok := decodeRecord(k, v)
			if !ok {
				return nil
			}
			out = append(out, rec)
			return nil
		})
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].FirstSeen.Before(out[j].FirstSeen)
	})
	return out
}

func (b *boltStore) Len() int {
	count := 0
	_ = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return nil
		}
		count = bucket.Stats().KeyN
		return nil
	})
	return count
}

// Persist is a no-op: every Add commits through to disk.
func (b *boltStore) Persist() error { return nil }

// prune drops records older than the retention window, and any record whose
// value no longer decodes.
func (b *boltStore) prune(now time.Time) error {
	cutoff := now.Add(-b.retention)
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(seenBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			rec, ok := decodeRecord(k, v)
			if !ok || !rec.FirstSeen.After(cutoff) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func decodeRecord(key, value []byte) (Record, bool) {
	var entry seenEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return Record{}, false
	}
	ts, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		return Record{}, false
	}
	return Record{Link: string(key), Title: entry.Title, FirstSeen: ts}, true
}
