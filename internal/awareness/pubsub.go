package awareness

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// PubSubConfig identifies a Google Cloud Pub/Sub topic for event delivery.
type PubSubConfig struct {
	Project string `yaml:"project" json:"project"`
	Topic   string `yaml:"topic"   json:"topic"`
}

// PubSubSink publishes events to a Pub/Sub topic. Publishing happens in
// a background goroutine so the evaluation path never waits on it.
type PubSubSink struct {
	ctx    context.Context
	client *pubsub.Client
	topic  *pubsub.Topic
	logger zerolog.Logger
}

// NewPubSubSink connects to the configured project and topic.
func NewPubSubSink(ctx context.Context, cfg PubSubConfig, logger zerolog.Logger) (*PubSubSink, error) {
	client, err := pubsub.NewClient(ctx, cfg.Project)
	if err != nil {
		return nil, err
	}
	return &PubSubSink{
		ctx:    ctx,
		client: client,
		topic:  client.Topic(cfg.Topic),
		logger: logger.With().Str("component", "pubsub").Logger(),
	}, nil
}

func (s *PubSubSink) Emit(event Event) {
	b, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("event marshal failed")
		return
	}

	attrs := map[string]string{"event_type": event.Type, "weight": event.Weight}
	if decision, ok := event.Payload["decision"].(string); ok {
		attrs["decision"] = decision
	}

	res := s.topic.Publish(s.ctx, &pubsub.Message{Data: b, Attributes: attrs})
	go func() {
		if _, err := res.Get(s.ctx); err != nil {
			s.logger.Warn().Err(err).Msg("pubsub publish failed")
		}
	}()
}

// Close flushes pending publishes and releases the client.
func (s *PubSubSink) Close() error {
	s.topic.Stop()
	return s.client.Close()
}
