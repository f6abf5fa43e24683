package notify

import (
	"time"

	"github.com/azfin-hq/azfinnews/internal/domain"
)

// Event is the payload sent to notifiers when the poll loop sees an article
// for the first time.
type Event struct {
	Source  string         `json:"source"`
	Article domain.Article `json:"article"`
	SeenAt  time.Time      `json:"seen_at"`
}

// NewEvent constructs an Event for the given article.
func NewEvent(source string, article domain.Article) Event {
	return Event{
		Source:  source,
		Article: article,
		SeenAt:  time.Now().UTC(),
	}
}
