package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the durable seen-link record.

// Record is the persisted metadata for one previously observed link.
type Record struct {
	Link      string
	Title     string
	FirstSeen time.Time
}

// Store tracks previously observed article links across restarts.
type Store interface {
	Close() error
	// Has reports whether the link was already recorded.
	Has(link string) bool
	// Add records a link with its title snapshot. It returns true when the
	// link was newly recorded; adding a known link is a no-op.
	Add(link, title string, now time.Time) bool
	// Records returns surviving records ordered oldest first.
	Records() []Record
	Len() int
	// Persist writes the full store to its backing file. Backends that write
	// through on Add may treat this as a no-op.
	Persist() error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	Retention time.Duration
}

const defaultRetention = 7 * 24 * time.Hour

// NewStore creates the configured storage backend. Loading a missing or
// corrupt backing file yields an empty store, never an error.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "json":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("json storage requires a path")
		}
		return openJSON(path, opts)
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                         { return nil }
func (noopStore) Has(string) bool                      { return false }
func (noopStore) Add(string, string, time.Time) bool   { return false }
func (noopStore) Records() []Record                    { return nil }
func (noopStore) Len() int                             { return 0 }
func (noopStore) Persist() error                       { return nil }
