package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/azfin-hq/azfinnews/internal/logger"
	"github.com/charmbracelet/lipgloss"
)

var newArticleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

// consoleNotifier prints a one-line notice for each newly seen article, the
// same inline "+ New:" line the reader shows between renders.
type consoleNotifier struct {
	id  string
	typ string
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns the terminal notifier. A nil writer defaults to stdout.
func NewConsole(id string, out io.Writer) Notifier {
	if id == "" {
		id = "console"
	}
	if out == nil {
		out = os.Stdout
	}
	return &consoleNotifier{id: id, typ: TypeConsole, out: out}
}

func newConsoleNotifier(_ context.Context, cfg NotifierConfig, _ logger.Logger) (Notifier, error) {
	return NewConsole(cfg.ID, nil), nil
}

func (c *consoleNotifier) ID() string   { return c.id }
func (c *consoleNotifier) Type() string { return c.typ }

func (c *consoleNotifier) Notify(_ context.Context, evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, newArticleStyle.Render("+ New: "+evt.Article.Title))
	return err
}
