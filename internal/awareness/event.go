// Package awareness delivers decision events to external observers.
// Delivery is one-way and best-effort: a slow or failed sink never
// stalls or fails policy evaluation.
package awareness

// Event is a one-way notification about a governance decision or a
// lifecycle transition.
type Event struct {
	Type    string         `json:"event_type"`
	Payload map[string]any `json:"payload"`
	Weight  string         `json:"weight"`
}

// Event types emitted by the governor.
const (
	TypeDecision   = "governance_decision"
	TypeActivation = "governance_activation"
)

// Sink accepts events for external observation. Implementations must not
// block the caller; failures are logged and dropped.
type Sink interface {
	Emit(event Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// MultiSink fans an event out to all configured sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink builds a fan-out sink. Nil members are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	out := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			out.sinks = append(out.sinks, s)
		}
	}
	return out
}

func (m *MultiSink) Emit(event Event) {
	for _, s := range m.sinks {
		s.Emit(event)
	}
}
