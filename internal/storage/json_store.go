package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// seenEntry is the wire form of one record in the seen-log file.
type seenEntry struct {
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

// jsonStore keeps the full record set in memory and rewrites the backing JSON
// file wholesale on Persist.
type jsonStore struct {
	mu        sync.RWMutex
	path      string
	retention time.Duration
	entries   map[string]Record
}

// openJSON loads the seen-log from path, pruning aged records. A missing or
// malformed file yields an empty store.
func openJSON(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	s := &jsonStore{
		path:      path,
		retention: opts.Retention,
		entries:   make(map[string]Record),
	}
	s.load(time.Now())
	return s, nil
}

// load reads and prunes the backing file. Decode failures and unparsable
// timestamps leave the affected records out, never fail the caller.
func (s *jsonStore) load(now time.Time) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var decoded map[string]seenEntry
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return
	}

	cutoff := now.Add(-s.retention)
	for link, entry := range decoded {
		ts, err := time.Parse(time.RFC3339, entry.Timestamp)
		if err != nil {
			continue
		}
		if !ts.After(cutoff) {
			continue
		}
		s.entries[link] = Record{Link: link, Title: entry.Title, FirstSeen: ts}
	}
}

func (s *jsonStore) Close() error { return nil }

func (s *jsonStore) Has(link string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[link]
	return ok
}

func (s *jsonStore) Add(link, title string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[link]; ok {
		return false
	}
	s.entries[link] = Record{Link: link, Title: title, FirstSeen: now}
	return true
}

func (s *jsonStore) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.entries))
	for _, rec := range s.entries {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FirstSeen.Before(out[j].FirstSeen)
	})
	return out
}

func (s *jsonStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Persist rewrites the backing file atomically: the content is written to a
// temp file in the same directory and renamed over the previous state, so a
// failed persist leaves the old file intact.
func (s *jsonStore) Persist() error {
	s.mu.RLock()
	wire := make(map[string]seenEntry, len(s.entries))
	for link, rec := range s.entries {
		wire[link] = seenEntry{
			Title:     rec.Title,
			Timestamp: rec.FirstSeen.Format(time.RFC3339),
		}
	}
	s.mu.RUnlock()

	payload, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".seen-*.json")
	if err != nil {
		return fmt.Errorf("create temp seen log: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write seen log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp seen log: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace seen log: %w", err)
	}
	return nil
}
