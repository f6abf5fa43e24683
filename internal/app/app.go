package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/azfin-hq/azfinnews/internal/config"
	"github.com/azfin-hq/azfinnews/internal/crawler"
	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/azfin-hq/azfinnews/internal/logger"
	"github.com/azfin-hq/azfinnews/internal/notify"
	"github.com/azfin-hq/azfinnews/internal/registry"
	"github.com/azfin-hq/azfinnews/internal/scraper"
	"github.com/azfin-hq/azfinnews/internal/session"
	"github.com/azfin-hq/azfinnews/internal/storage"
	"github.com/azfin-hq/azfinnews/pkg/apa"
	"github.com/azfin-hq/azfinnews/pkg/httpclient"
)

// Reader is the application runtime: the background poll loop plus the
// foreground interactive session, sharing one registry, one seen-log store,
// and one shutdown signal.
type Reader struct {
	cfg      *config.Config
	store    storage.Store
	registry *registry.Registry
	loop     *scraper.Loop
	crawler  *crawler.Crawler
	log      logger.Logger

	in  io.Reader
	out io.Writer
}

// NewReader builds the runtime from config: storage, HTTP client, extractors,
// notifier fanout, poll loop, and the registry seeded from the on-disk
// seen-log (oldest first, junk links dropped).
func NewReader(ctx context.Context, cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	store, err := storage.NewStore(cfg.StorageType, cfg.SeenLogPath, storage.Options{
		Retention: cfg.Retention,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("seen-log opened", "storage", map[string]any{
		"type":    cfg.StorageType,
		"path":    cfg.SeenLogPath,
		"entries": store.Len(),
	})

	client := httpclient.NewRestyClient(cfg.FetchTimeout)
	listing := apa.NewListingExtractor(cfg.SourceLabel, cfg.MinTitleLen, cfg.SkipLinkFragments)
	body := apa.NewBodyExtractor()
	crawl := crawler.New(client, listing, body, cfg.BaseURL, log)

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		// Notifier wiring is best-effort; the reader still works without it.
		log.ErrorObj("notifier setup failed, continuing with console only", "error", err)
		fanout = notify.NewFanout([]notify.Notifier{notify.NewConsole("console", nil)})
	}

	reg := registry.New(seedArticles(store, cfg))

	loop := scraper.NewLoop(crawl, store, reg, fanout, cfg.SourceLabel,
		cfg.ScrapeInterval, cfg.MaxPages, log)

	return &Reader{
		cfg:      cfg,
		store:    store,
		registry: reg,
		loop:     loop,
		crawler:  crawl,
		log:      log,
		in:       os.Stdin,
		out:      os.Stdout,
	}, nil
}

// SetIO overrides the interactive input/output streams. Used by tests.
func (r *Reader) SetIO(in io.Reader, out io.Writer) {
	r.in = in
	r.out = out
}

// Run starts the poll loop in the background and drives the interactive
// session in the foreground. Quitting the session (or an incoming signal)
// cancels the shared context; Run waits for the poller to finish its cycle
// before closing the store so no persist is left half-written.
func (r *Reader) Run(ctx context.Context) error {
	if r == nil || r.loop == nil {
		return fmt.Errorf("reader is not initialized")
	}
	defer r.closeStore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.loop.Run(ctx)
	}()

	sess := session.New(r.crawler, r.registry, cancel, r.in, r.out, r.log)
	sess.Run(ctx)

	<-done
	r.log.InfoObj("reader shut down", "reason", ctx.Err())
	return nil
}

// buildFanout loads the notifier config file and constructs every enabled
// notifier. With no config file, new articles are announced on the console
// only.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*notify.Fanout, error) {
	if strings.TrimSpace(cfg.NotifiersFile) == "" {
		return notify.NewFanout([]notify.Notifier{notify.NewConsole("console", nil)}), nil
	}

	notifierReg, err := notify.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}

	enabled := notifierReg.Enabled()
	if len(enabled) == 0 {
		log.WarnObj("no notifiers enabled", "notifiers_file", cfg.NotifiersFile)
		return notify.NewFanout(nil), nil
	}

	notifiers, err := notify.BuildAll(ctx, notify.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}
	log.InfoObj("notifiers ready", "notifiers", enabled)
	return notify.NewFanout(notifiers), nil
}

// seedArticles converts on-disk seen records into the initial listing,
// oldest first, skipping links that match the configured junk fragments.
func seedArticles(store storage.Store, cfg *config.Config) []domain.Article {
	records := store.Records()
	seed := make([]domain.Article, 0, len(records))
	for _, rec := range records {
		if junkLink(rec.Link, cfg.SkipLinkFragments) {
			continue
		}
		seed = append(seed, domain.Article{
			Title:  rec.Title,
			Link:   rec.Link,
			Source: cfg.SourceLabel,
		})
	}
	return seed
}

func junkLink(link string, fragments []string) bool {
	for _, frag := range fragments {
		if frag != "" && strings.Contains(link, frag) {
			return true
		}
	}
	return false
}

func (r *Reader) closeStore() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err)
	}
}
