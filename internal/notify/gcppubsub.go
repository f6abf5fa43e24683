package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/azfin-hq/azfinnews/internal/logger"
)

// pubsubNotifier implements the Notifier interface for GCP Pub/Sub.
type pubsubNotifier struct {
	id     string
	typ    string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    logger.Logger
}

// newPubSubNotifier creates a new Pub/Sub notifier with the given configuration.
func newPubSubNotifier(ctx context.Context, cfg NotifierConfig, log logger.Logger) (Notifier, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("notifier %q missing gcppubsub configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubNotifier{
		id:     cfg.ID,
		typ:    TypePubSub,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    logger.Ensure(log),
	}, nil
}

func (p *pubsubNotifier) ID() string   { return p.id }
func (p *pubsubNotifier) Type() string { return p.typ }

// Notify publishes the event to the configured Pub/Sub topic and waits for
// the server acknowledgement.
func (p *pubsubNotifier) Notify(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"source": evt.Source},
	})
	if _, err := result.Get(ctx); err != nil {
		p.log.ErrorObj("pubsub notifier publish failed", "notifier_pubsub_error", map[string]any{
			"notifier_id": p.id,
			"error":       err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	return nil
}
