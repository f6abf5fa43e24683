package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/azfin-hq/azfinnews/internal/logger"
	"github.com/azfin-hq/azfinnews/internal/registry"
	"github.com/azfin-hq/azfinnews/internal/ui"
)

// Browser is the slice of the crawler the interactive session depends on.
type Browser interface {
	CrawlPage(ctx context.Context, page int) []domain.Article
	FetchBody(ctx context.Context, link string) (string, error)
}

// Session drives the foreground command loop: a small state machine walking
// welcome -> listing -> reading while the poll loop runs in the background.
// Page navigation replaces the shared registry wholesale; `quit` fires the
// shutdown signal shared with the poller.
type Session struct {
	browser  Browser
	registry *registry.Registry
	stop     context.CancelFunc
	in       *bufio.Scanner
	lines    chan string
	out      io.Writer
	log      logger.Logger
	now      func() time.Time
}

// New wires an interactive session. stop is invoked exactly once, on quit.
func New(browser Browser, reg *registry.Registry, stop context.CancelFunc, in io.Reader, out io.Writer, log logger.Logger) *Session {
	return &Session{
		browser:  browser,
		registry: reg,
		stop:     stop,
		in:       bufio.NewScanner(in),
		out:      out,
		log:      logger.Ensure(log),
		now:      time.Now,
	}
}

// Run executes the command loop until quit, EOF on input, or context
// cancellation. It always fires the shutdown signal before returning so the
// poller never outlives the session.
//
// Input is pumped through a channel so an operator interrupt ends the session
// even while it is blocked waiting for a command.
func (s *Session) Run(ctx context.Context) {
	defer s.stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		for s.in.Scan() {
			select {
			case lines <- s.in.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	s.lines = lines

	s.showWelcome(ctx)
	page := 1

	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintln(s.out, ui.Listing(s.registry.Snapshot(), page, s.now()))
		line, ok := s.readLine(ctx, "Command> ")
		if !ok || ctx.Err() != nil {
			return
		}

		verb, arg := splitCommand(line)
		switch verb {
		case "":
			// Blank input just re-renders the listing.
		case "quit":
			fmt.Fprintln(s.out, ui.Err("Exiting..."))
			return
		case "home":
			s.showWelcome(ctx)
			page = 1
		case "help":
			fmt.Fprintln(s.out, ui.Help())
		case "list":
			fmt.Fprintln(s.out, ui.Warn("Loading the latest news (page 1)..."))
			if s.navigate(ctx, 1) {
				page = 1
			} else {
				fmt.Fprintln(s.out, ui.Warn("Could not load page 1; keeping the current view."))
			}
		case "turn":
			n, err := parseIndex(arg)
			if err != nil {
				fmt.Fprintln(s.out, ui.Err("Usage: turn <page_number>"))
				continue
			}
			fmt.Fprintln(s.out, ui.Warn(fmt.Sprintf("Turning to page %d...", n)))
			if s.navigate(ctx, n) {
				page = n
			} else {
				fmt.Fprintln(s.out, ui.Err("No articles found on that page."))
			}
		case "read":
			n, err := parseIndex(arg)
			if err != nil {
				fmt.Fprintln(s.out, ui.Err("Usage: read <n>"))
				continue
			}
			s.readArticle(ctx, n)
		default:
			fmt.Fprintln(s.out, ui.Warn("Unknown command"))
		}
	}
}

// navigate crawls one page and, on success, replaces the registry wholesale.
// An empty or failed crawl leaves the current view untouched.
func (s *Session) navigate(ctx context.Context, page int) bool {
	items := s.browser.CrawlPage(ctx, page)
	if len(items) == 0 {
		return false
	}
	s.registry.Replace(items)
	return true
}

// readArticle opens the n-th displayed article and blocks until the reader
// acknowledges, returning to the listing at the same page.
func (s *Session) readArticle(ctx context.Context, n int) {
	article, ok := s.registry.At(n)
	if !ok {
		fmt.Fprintln(s.out, ui.Err("Invalid index"))
		return
	}

	body, err := s.browser.FetchBody(ctx, article.Link)
	if err != nil {
		s.log.WarnObj("article fetch failed", "read_error", map[string]any{
			"link":  article.Link,
			"error": err.Error(),
		})
		fmt.Fprintln(s.out, ui.Err("Could not load the article; try again later."))
		return
	}

	fmt.Fprintln(s.out, ui.Article(article, body))
	s.readLine(ctx, "")
}

// showWelcome renders the welcome screen and waits for any acknowledgement
// input. It never crawls; the registry already reflects on-disk history.
func (s *Session) showWelcome(ctx context.Context) {
	fmt.Fprintln(s.out, ui.Welcome())
	s.readLine(ctx, "")
}

// readLine prompts and blocks for one input line. ok is false on EOF or when
// the shutdown signal fires mid-read.
func (s *Session) readLine(ctx context.Context, prompt string) (string, bool) {
	if prompt != "" {
		fmt.Fprint(s.out, ui.Info(prompt))
	}
	select {
	case line, ok := <-s.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func splitCommand(line string) (verb, arg string) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) > 1 {
		arg = fields[1]
	}
	if len(fields) > 2 {
		// Extra tokens make the command malformed, not a different verb.
		arg = ""
	}
	return fields[0], arg
}

// parseIndex parses a strictly positive integer argument.
func parseIndex(arg string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("missing argument")
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("not a positive integer: %q", arg)
	}
	return n, nil
}
