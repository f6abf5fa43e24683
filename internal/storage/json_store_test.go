package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_links.json")
	opts := Options{Retention: 7 * 24 * time.Hour}

	store, err := NewStore("json", path, opts)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if !store.Add("https://apa.az/economy/a1", "First article", now) {
		t.Fatalf("expected first Add to report a new record")
	}
	if store.Add("https://apa.az/economy/a1", "First article", now.Add(time.Minute)) {
		t.Fatalf("expected second Add of same link to be a no-op")
	}
	if !store.Has("https://apa.az/economy/a1") {
		t.Fatalf("Has returned false for recorded link")
	}
	if err := store.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded, err := NewStore("json", path, opts)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	recs := reloaded.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after reload, got %d", len(recs))
	}
	if recs[0].Title != "First article" || !recs[0].FirstSeen.Equal(now) {
		t.Fatalf("unexpected record %+v", recs[0])
	}
}

func TestJSONStorePrunesOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_links.json")
	retention := 7 * 24 * time.Hour

	store, err := NewStore("json", path, Options{Retention: retention})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	store.Add("https://apa.az/economy/fresh", "fresh", now)
	store.Add("https://apa.az/economy/stale", "stale", now.Add(-retention-time.Hour))
	// Exactly at the boundary counts as aged out.
	store.Add("https://apa.az/economy/boundary", "boundary", now.Add(-retention))
	if err := store.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded, err := NewStore("json", path, Options{Retention: retention})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("expected only the fresh record to survive, got %d", reloaded.Len())
	}
	if !reloaded.Has("https://apa.az/economy/fresh") {
		t.Fatalf("fresh record missing after prune")
	}
}

func TestJSONStoreToleratesMissingAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore("json", filepath.Join(dir, "absent.json"), Options{})
	if err != nil {
		t.Fatalf("NewStore on missing file: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("missing file should yield empty store")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store, err = NewStore("json", corrupt, Options{})
	if err != nil {
		t.Fatalf("NewStore on corrupt file: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("corrupt file should yield empty store")
	}
}

func TestJSONStoreDropsUnparsableTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_links.json")
	raw := `{
  "https://apa.az/economy/ok": {"title": "ok", "timestamp": "2099-01-02T10:00:00Z"},
  "https://apa.az/economy/bad": {"title": "bad", "timestamp": "yesterday-ish"}
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	store, err := NewStore("json", path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Len() != 1 || !store.Has("https://apa.az/economy/ok") {
		t.Fatalf("expected only the parsable record to load, got %d", store.Len())
	}
}

func TestJSONStoreRecordsOrderedOldestFirst(t *testing.T) {
	store, err := NewStore("json", filepath.Join(t.TempDir(), "seen.json"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	base := time.Now().UTC()
	store.Add("l3", "third", base.Add(2*time.Minute))
	store.Add("l1", "first", base)
	store.Add("l2", "second", base.Add(time.Minute))

	recs := store.Records()
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Link != "l1" || recs[1].Link != "l2" || recs[2].Link != "l3" {
		t.Fatalf("records out of order: %+v", recs)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if store.Add("x", "y", time.Now()) {
		t.Fatalf("noop store should never record")
	}
	if err := store.Persist(); err != nil {
		t.Fatalf("noop store Persist: %v", err)
	}
}
