package awareness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	requestTimeout = 5 * time.Second
	maxAttempts    = 3
)

// WebhookConfig defines one webhook destination.
type WebhookConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Events  []string          `yaml:"events"  json:"events"` // event types or decision kinds; empty matches all
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// WebhookSink posts matching events to configured webhook endpoints.
// Each delivery runs in its own goroutine.
type WebhookSink struct {
	configs []WebhookConfig
	client  *http.Client
	logger  zerolog.Logger
}

// NewWebhookSink creates a sink from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewWebhookSink(configs []WebhookConfig, logger zerolog.Logger) *WebhookSink {
	if len(configs) == 0 {
		return nil
	}
	return &WebhookSink{
		configs: configs,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger.With().Str("component", "webhook").Logger(),
	}
}

// Emit dispatches the event to every matching endpoint without blocking.
func (s *WebhookSink) Emit(event Event) {
	for _, cfg := range s.configs {
		if !matches(cfg.Events, event) {
			continue
		}
		go func(cfg WebhookConfig) {
			if err := s.send(cfg, event); err != nil {
				s.logger.Warn().Err(err).Str("url", cfg.URL).Msg("webhook delivery failed")
			}
		}(cfg)
	}
}

// send posts the event with retry on 5xx. 4xx responses are final.
func (s *WebhookSink) send(cfg WebhookConfig, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, cfg.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range cfg.Headers {
			req.Header.Set(k, v)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("webhook rejected: HTTP %d", resp.StatusCode)
		}
		// 5xx — retry
		lastErr = fmt.Errorf("webhook server error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", maxAttempts, lastErr)
}

// matches reports whether the event passes the endpoint's filter.
// The filter list may name event types or decision kinds.
func matches(events []string, event Event) bool {
	if len(events) == 0 {
		return true
	}
	decision, _ := event.Payload["decision"].(string)
	for _, e := range events {
		if e == event.Type || (decision != "" && e == decision) {
			return true
		}
	}
	return false
}
