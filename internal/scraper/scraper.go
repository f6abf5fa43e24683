package scraper

import (
	"context"
	"time"

	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/azfin-hq/azfinnews/internal/logger"
	"github.com/azfin-hq/azfinnews/internal/notify"
	"github.com/azfin-hq/azfinnews/internal/registry"
	"github.com/azfin-hq/azfinnews/internal/storage"
)

// PageCrawler is the slice of the crawler the poll loop depends on.
type PageCrawler interface {
	CrawlAll(ctx context.Context, maxPages int) []domain.Article
}

// Loop is the background poll task: crawl, dedup against the seen store,
// surface results in the shared registry, persist when something new landed,
// then sleep on an interruptible timer.
type Loop struct {
	crawler  PageCrawler
	store    storage.Store
	registry *registry.Registry
	fanout   *notify.Fanout
	source   string
	interval time.Duration
	maxPages int
	log      logger.Logger
	now      func() time.Time
}

// NewLoop wires the poll loop.
func NewLoop(crawler PageCrawler, store storage.Store, reg *registry.Registry, fanout *notify.Fanout, source string, interval time.Duration, maxPages int, log logger.Logger) *Loop {
	return &Loop{
		crawler:  crawler,
		store:    store,
		registry: reg,
		fanout:   fanout,
		source:   source,
		interval: interval,
		maxPages: maxPages,
		log:      logger.Ensure(log),
		now:      time.Now,
	}
}

// Run executes poll cycles until the context is cancelled. The sleep is a
// fixed delay measured from the end of each cycle, so a cycle that overruns
// the interval never triggers an immediate follow-up. Cancellation wakes the
// sleep immediately; an in-flight cycle always finishes.
func (l *Loop) Run(ctx context.Context) {
	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		l.RunCycle(ctx)

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(l.interval)

		select {
		case <-ctx.Done():
			l.log.InfoObj("scraper loop exiting", "reason", ctx.Err())
			return
		case <-timer.C:
		}
	}
}

// RunCycle performs one fetch-dedup-persist pass and returns the number of
// newly recorded articles. A cycle where every page came back empty is not an
// error, just zero new items.
func (l *Loop) RunCycle(ctx context.Context) int {
	start := l.now()
	found := l.crawler.CrawlAll(ctx, l.maxPages)

	newCount := 0
	for _, item := range found {
		if l.store.Has(item.Link) {
			// Known on disk but maybe not in the live view yet.
			l.registry.AppendIfAbsent(item)
			continue
		}

		l.store.Add(item.Link, item.Title, l.now())
		l.registry.AppendIfAbsent(item)
		newCount++

		if l.fanout != nil {
			if _, err := l.fanout.Notify(ctx, notify.NewEvent(l.source, item)); err != nil {
				l.log.WarnObj("notifier delivery failed", "notify_error", map[string]any{
					"link":  item.Link,
					"error": err.Error(),
				})
			}
		}
	}

	if newCount > 0 {
		if err := l.store.Persist(); err != nil {
			l.log.ErrorObj("seen log persist failed", "persist_error", err.Error())
		}
	} else {
		l.log.DebugObj("no new articles this cycle", "cycle_meta", map[string]any{
			"found":      len(found),
			"elapsed_ms": l.now().Sub(start).Milliseconds(),
		})
	}

	l.log.InfoObj("poll cycle completed", "cycle_meta", map[string]any{
		"found":      len(found),
		"new":        newCount,
		"elapsed_ms": l.now().Sub(start).Milliseconds(),
	})
	return newCount
}
