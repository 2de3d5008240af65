package awareness

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Config selects which sinks receive governance events.
type Config struct {
	Log      bool            `yaml:"log"       json:"log"`
	AuditLog string          `yaml:"audit_log" json:"audit_log,omitempty"`
	Webhooks []WebhookConfig `yaml:"webhooks"  json:"webhooks"`
	PubSub   *PubSubConfig   `yaml:"pubsub"    json:"pubsub,omitempty"`
}

// FromConfig builds the sink stack. An empty config yields a NopSink so
// the governor always has somewhere to emit. A Pub/Sub connection
// failure disables that sink only; the rest of the stack still works.
func FromConfig(ctx context.Context, cfg Config, logger zerolog.Logger) (Sink, error) {
	var sinks []Sink

	if cfg.Log {
		sinks = append(sinks, NewLogSink(logger))
	}
	if cfg.AuditLog != "" {
		as, err := NewAuditSink(cfg.AuditLog, logger)
		if err != nil {
			return NewMultiSink(sinks...), fmt.Errorf("audit sink disabled: %w", err)
		}
		sinks = append(sinks, as)
	}
	if ws := NewWebhookSink(cfg.Webhooks, logger); ws != nil {
		sinks = append(sinks, ws)
	}
	if cfg.PubSub != nil {
		ps, err := NewPubSubSink(ctx, *cfg.PubSub, logger)
		if err != nil {
			return NewMultiSink(sinks...), fmt.Errorf("pubsub sink disabled: %w", err)
		}
		sinks = append(sinks, ps)
	}

	if len(sinks) == 0 {
		return NopSink{}, nil
	}
	return NewMultiSink(sinks...), nil
}
