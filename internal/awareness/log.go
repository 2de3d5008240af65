package awareness

import "github.com/rs/zerolog"

// LogSink writes events to a structured logger. Useful as the default
// sink in development and as a floor under webhook delivery.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink wraps a zerolog logger as a Sink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "awareness").Logger()}
}

func (s *LogSink) Emit(event Event) {
	s.logger.Info().
		Str("event_type", event.Type).
		Str("weight", event.Weight).
		Fields(event.Payload).
		Msg("governance event")
}
