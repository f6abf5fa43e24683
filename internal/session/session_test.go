package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/azfin-hq/azfinnews/internal/domain"
	"github.com/azfin-hq/azfinnews/internal/registry"
)

// scriptedBrowser serves fixed pages and records body fetches.
type scriptedBrowser struct {
	pages   map[int][]domain.Article
	bodies  map[string]string
	fetched []string
}

func (b *scriptedBrowser) CrawlPage(_ context.Context, page int) []domain.Article {
	return b.pages[page]
}

func (b *scriptedBrowser) FetchBody(_ context.Context, link string) (string, error) {
	b.fetched = append(b.fetched, link)
	if body, ok := b.bodies[link]; ok {
		return body, nil
	}
	return "", fmt.Errorf("no body for %s", link)
}

func pageArticles(page, n int) []domain.Article {
	out := make([]domain.Article, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Article{
			Title:  fmt.Sprintf("p%d article %d", page, i),
			Link:   fmt.Sprintf("https://apa.az/economy/p%d-%d", page, i),
			Source: "APA.az",
		})
	}
	return out
}

// runScript feeds the given lines to a session and returns the output,
// registry, and browser after it terminates.
func runScript(t *testing.T, browser *scriptedBrowser, seed []domain.Article, lines ...string) (*bytes.Buffer, *registry.Registry, context.Context) {
	t.Helper()

	reg := registry.New(seed)
	ctx, cancel := context.WithCancel(context.Background())
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	out := &bytes.Buffer{}

	s := New(browser, reg, cancel, in, out, nil)
	s.Run(ctx)
	return out, reg, ctx
}

func TestQuitFiresShutdownSignal(t *testing.T) {
	browser := &scriptedBrowser{}
	// Acknowledge welcome, then quit.
	_, _, ctx := runScript(t, browser, nil, "", "quit")
	if ctx.Err() == nil {
		t.Fatalf("quit did not cancel the shared context")
	}
}

func TestEOFBehavesLikeQuit(t *testing.T) {
	browser := &scriptedBrowser{}
	_, _, ctx := runScript(t, browser, nil, "")
	if ctx.Err() == nil {
		t.Fatalf("EOF did not cancel the shared context")
	}
}

func TestInterruptEndsBlockedSession(t *testing.T) {
	browser := &scriptedBrowser{}
	reg := registry.New(pageArticles(1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	defer pw.Close()
	out := &bytes.Buffer{}
	s := New(browser, reg, cancel, pr, out, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	// Acknowledge the welcome screen so Run is blocked at the command
	// prompt, then fire the shutdown signal with no further input.
	if _, err := io.WriteString(pw, "\n"); err != nil {
		t.Fatalf("write ack: %v", err)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("session kept waiting for input after cancellation")
	}
}

func TestHelpShowsCommandReference(t *testing.T) {
	browser := &scriptedBrowser{}
	out, reg, _ := runScript(t, browser, pageArticles(1, 2),
		"", "help", "quit")

	// The welcome screen carries the reference once already; help must
	// render it again.
	text := out.String()
	if strings.Count(text, "Available commands:") < 2 {
		t.Fatalf("help did not render the command reference")
	}
	if strings.Contains(text, "Unknown command") {
		t.Fatalf("help was treated as an unknown command")
	}
	if reg.Len() != 2 {
		t.Fatalf("help mutated the registry, len=%d", reg.Len())
	}
}

func TestTurnThenReadOpensNewPageArticle(t *testing.T) {
	browser := &scriptedBrowser{
		pages: map[int][]domain.Article{
			1: pageArticles(1, 3),
			2: pageArticles(2, 2),
		},
		bodies: map[string]string{
			"https://apa.az/economy/p2-1": "page two body",
		},
	}

	out, reg, _ := runScript(t, browser, pageArticles(1, 3),
		"",       // acknowledge welcome
		"turn 2", // replace view with page 2
		"read 1", // must open page 2's first article
		"",       // return from reading pane
		"quit",
	)

	if len(browser.fetched) != 1 || browser.fetched[0] != "https://apa.az/economy/p2-1" {
		t.Fatalf("read 1 after turn 2 fetched %v", browser.fetched)
	}
	if !strings.Contains(out.String(), "page two body") {
		t.Fatalf("article body not rendered")
	}
	if reg.Len() != 2 {
		t.Fatalf("registry should hold page 2's 2 articles, got %d", reg.Len())
	}
}

func TestTurnToEmptyPageKeepsCurrentView(t *testing.T) {
	browser := &scriptedBrowser{pages: map[int][]domain.Article{1: pageArticles(1, 3)}}

	out, reg, _ := runScript(t, browser, pageArticles(1, 3),
		"", "turn 7", "quit")

	if reg.Len() != 3 {
		t.Fatalf("empty page replaced the registry, len=%d", reg.Len())
	}
	if !strings.Contains(out.String(), "No articles found on that page.") {
		t.Fatalf("missing empty-page notice in output")
	}
}

func TestReadRejectsOutOfRangeIndex(t *testing.T) {
	browser := &scriptedBrowser{}
	out, _, _ := runScript(t, browser, pageArticles(1, 2),
		"", "read 9", "quit")

	if len(browser.fetched) != 0 {
		t.Fatalf("out-of-range read still fetched %v", browser.fetched)
	}
	if !strings.Contains(out.String(), "Invalid index") {
		t.Fatalf("missing invalid-index notice")
	}
}

func TestMalformedAndUnknownCommands(t *testing.T) {
	browser := &scriptedBrowser{pages: map[int][]domain.Article{1: pageArticles(1, 1)}}
	out, reg, _ := runScript(t, browser, pageArticles(1, 1),
		"", "turn abc", "read", "dance", "quit")

	text := out.String()
	if !strings.Contains(text, "Usage: turn <page_number>") {
		t.Fatalf("missing turn usage message")
	}
	if !strings.Contains(text, "Usage: read <n>") {
		t.Fatalf("missing read usage message")
	}
	if !strings.Contains(text, "Unknown command") {
		t.Fatalf("missing unknown command notice")
	}
	if reg.Len() != 1 {
		t.Fatalf("invalid commands mutated the registry")
	}
}

func TestListReplacesViewWithPageOne(t *testing.T) {
	browser := &scriptedBrowser{pages: map[int][]domain.Article{1: pageArticles(1, 4)}}
	_, reg, _ := runScript(t, browser, pageArticles(9, 2),
		"", "list", "quit")

	if reg.Len() != 4 {
		t.Fatalf("list did not replace the view, len=%d", reg.Len())
	}
	first, _ := reg.At(1)
	if first.Link != "https://apa.az/economy/p1-1" {
		t.Fatalf("unexpected first article %+v", first)
	}
}

func TestParseIndex(t *testing.T) {
	if _, err := parseIndex(""); err == nil {
		t.Errorf("empty argument should fail")
	}
	if _, err := parseIndex("0"); err == nil {
		t.Errorf("zero should fail")
	}
	if _, err := parseIndex("-2"); err == nil {
		t.Errorf("negative should fail")
	}
	if n, err := parseIndex("12"); err != nil || n != 12 {
		t.Errorf("parseIndex(12) = %d, %v", n, err)
	}
}
