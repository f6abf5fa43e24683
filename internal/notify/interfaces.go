package notify

import "context"

// Notifier delivers new-article events to a sink (terminal, webhook, queue).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, evt Event) error
}
