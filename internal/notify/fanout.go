package notify

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers one event to every configured notifier. A failing sink
// never blocks the rest; all failures come back joined so the poll loop can
// log them in one entry.
type Fanout struct {
	notifiers []Notifier
}

// NewFanout keeps the non-nil notifiers.
func NewFanout(notifiers []Notifier) *Fanout {
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &Fanout{notifiers: active}
}

// Notify sends evt to each notifier in turn and reports how many deliveries
// succeeded.
func (f *Fanout) Notify(ctx context.Context, evt Event) (int, error) {
	if f == nil {
		return 0, nil
	}

	delivered := 0
	var errs []error
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s notifier[%s]: %w", n.Type(), n.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}
