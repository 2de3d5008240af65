package awareness

import (
	"github.com/rs/zerolog"

	"github.com/arbiterhq/arbiter/internal/audit"
)

// auditBuffer bounds the number of entries waiting on the writer
// goroutine before Emit starts dropping.
const auditBuffer = 256

// AuditSink appends decision events to a hash-chained audit log.
// Entries are buffered through a channel drained by a single writer
// goroutine, so Emit never waits on disk; when the buffer is full the
// entry is dropped and logged. Lifecycle events are not logged; the
// chain holds decisions only.
type AuditSink struct {
	log    *audit.Log
	ch     chan audit.Entry
	done   chan struct{}
	logger zerolog.Logger
}

// NewAuditSink opens the audit log at path and starts the writer.
func NewAuditSink(path string, logger zerolog.Logger) (*AuditSink, error) {
	l, err := audit.Open(path)
	if err != nil {
		return nil, err
	}
	s := &AuditSink{
		log:    l,
		ch:     make(chan audit.Entry, auditBuffer),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "audit").Logger(),
	}
	go s.drain()
	return s, nil
}

func (s *AuditSink) Emit(event Event) {
	if event.Type != TypeDecision {
		return
	}

	entry := audit.Entry{
		DecisionID: str(event.Payload, "decision_id"),
		ActionType: str(event.Payload, "action_type"),
		Actor:      str(event.Payload, "actor"),
		Decision:   str(event.Payload, "decision"),
		Severity:   str(event.Payload, "severity"),
		Reasoning:  str(event.Payload, "reasoning"),
	}
	if c, ok := event.Payload["confidence"].(float64); ok {
		entry.Confidence = c
	}

	select {
	case s.ch <- entry:
	default:
		s.logger.Warn().Str("decision_id", entry.DecisionID).Msg("audit buffer full, entry dropped")
	}
}

func (s *AuditSink) drain() {
	defer close(s.done)
	for entry := range s.ch {
		if err := s.log.Record(entry); err != nil {
			s.logger.Warn().Err(err).Msg("audit append failed")
		}
	}
}

// Close drains buffered entries and closes the underlying log file.
// Emit must not be called after Close.
func (s *AuditSink) Close() error {
	close(s.ch)
	<-s.done
	return s.log.Close()
}

func str(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}
