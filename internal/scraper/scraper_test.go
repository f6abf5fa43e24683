package scraper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/azfin-hq/azfinnews/internal/notify"
	"github.com/azfin-hq/azfinnews/internal/registry"
	"github.com/azfin-hq/azfinnews/internal/storage"
)

// fakeCrawler returns the same listing on every cycle.
type fakeCrawler struct {
	items []domain.Article
}

func (f *fakeCrawler) CrawlAll(_ context.Context, _ int) []domain.Article {
	return f.items
}

// countingStore wraps a real in-memory map and counts Persist calls.
type countingStore struct {
	mu       sync.Mutex
	seen     map[string]storage.Record
	persists int
}

func newCountingStore() *countingStore {
	return &countingStore{seen: make(map[string]storage.Record)}
}

func (s *countingStore) Close() error { return nil }

func (s *countingStore) Has(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[link]
	return ok
}

func (s *countingStore) Add(link, title string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[link]; ok {
		return false
	}
	s.seen[link] = storage.Record{Link: link, Title: title, FirstSeen: now}
	return true
}

func (s *countingStore) Records() []storage.Record { return nil }

func (s *countingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *countingStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persists++
	return nil
}

func fixtureItems(n int) []domain.Article {
	out := make([]domain.Article, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Article{
			Title:  fmt.Sprintf("headline %d", i),
			Link:   fmt.Sprintf("https://apa.az/economy/%d", i),
			Source: "APA.az",
		})
	}
	return out
}

func TestRunCycleRecordsNewArticlesOnceAndPersistsOnce(t *testing.T) {
	store := newCountingStore()
	reg := registry.New(nil)
	loop := NewLoop(&fakeCrawler{items: fixtureItems(5)}, store, reg, nil, "APA.az", time.Minute, 10, nil)

	newCount := loop.RunCycle(context.Background())
	if newCount != 5 {
		t.Fatalf("expected 5 new articles, got %d", newCount)
	}
	if store.Len() != 5 {
		t.Fatalf("expected 5 seen records, got %d", store.Len())
	}
	if store.persists != 1 {
		t.Fatalf("expected exactly 1 persist, got %d", store.persists)
	}
	if reg.Len() != 5 {
		t.Fatalf("expected registry length 5, got %d", reg.Len())
	}

	// A second cycle against identical content must be a no-op.
	newCount = loop.RunCycle(context.Background())
	if newCount != 0 {
		t.Fatalf("second cycle recorded %d new articles", newCount)
	}
	if store.persists != 1 {
		t.Fatalf("no-op cycle should not persist, got %d persists", store.persists)
	}
	if reg.Len() != 5 {
		t.Fatalf("registry grew on duplicate cycle: %d", reg.Len())
	}
}

func TestRunCycleResurfacesKnownArticlesAfterReplace(t *testing.T) {
	store := newCountingStore()
	reg := registry.New(nil)
	items := fixtureItems(3)
	loop := NewLoop(&fakeCrawler{items: items}, store, reg, nil, "APA.az", time.Minute, 10, nil)

	loop.RunCycle(context.Background())

	// The interactive session replaces the view with a different page.
	reg.Replace([]domain.Article{{Title: "other", Link: "https://apa.az/economy/other"}})

	loop.RunCycle(context.Background())
	if reg.Len() != 4 {
		t.Fatalf("known articles should be re-appended without duplicates, got %d", reg.Len())
	}
	links := make(map[string]bool)
	for _, a := range reg.Snapshot() {
		if links[a.Link] {
			t.Fatalf("duplicate link %q in registry", a.Link)
		}
		links[a.Link] = true
	}
}

func TestRunCycleNotifiesOnlyNewArticles(t *testing.T) {
	store := newCountingStore()
	reg := registry.New(nil)
	recorder := &recordingNotifier{}
	fanout := notify.NewFanout([]notify.Notifier{recorder})
	loop := NewLoop(&fakeCrawler{items: fixtureItems(2)}, store, reg, fanout, "APA.az", time.Minute, 10, nil)

	loop.RunCycle(context.Background())
	loop.RunCycle(context.Background())

	if recorder.count() != 2 {
		t.Fatalf("expected 2 notifications, got %d", recorder.count())
	}
}

func TestRunExitsOnCancelWithoutWaitingOutInterval(t *testing.T) {
	store := newCountingStore()
	reg := registry.New(nil)
	loop := NewLoop(&fakeCrawler{}, store, reg, nil, "APA.az", time.Hour, 10, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not observe cancellation promptly")
	}
}

// slowCrawler records when each cycle starts and takes longer than the poll
// interval to finish.
type slowCrawler struct {
	mu     sync.Mutex
	delay  time.Duration
	starts []time.Time
	second chan struct{}
}

func (c *slowCrawler) CrawlAll(_ context.Context, _ int) []domain.Article {
	c.mu.Lock()
	c.starts = append(c.starts, time.Now())
	n := len(c.starts)
	c.mu.Unlock()
	time.Sleep(c.delay)
	if n == 2 {
		close(c.second)
	}
	return nil
}

func TestRunWaitsFullIntervalAfterSlowCycle(t *testing.T) {
	crawler := &slowCrawler{delay: 80 * time.Millisecond, second: make(chan struct{})}
	interval := 40 * time.Millisecond
	loop := NewLoop(crawler, newCountingStore(), registry.New(nil), nil, "APA.az", interval, 10, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-crawler.second:
	case <-time.After(2 * time.Second):
		t.Fatalf("second cycle never started")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not exit after cancellation")
	}

	// The sleep is measured from the end of the cycle, so a cycle slower
	// than the interval still leaves a full interval before the next one.
	crawler.mu.Lock()
	gap := crawler.starts[1].Sub(crawler.starts[0])
	crawler.mu.Unlock()
	if want := crawler.delay + interval - 5*time.Millisecond; gap < want {
		t.Fatalf("second cycle started %v after the first; want at least %v", gap, want)
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) ID() string   { return "rec" }
func (r *recordingNotifier) Type() string { return "test" }

func (r *recordingNotifier) Notify(_ context.Context, evt notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
