// Package governor is the decision engine: it evaluates proposed agent
// actions against weighted principles and returns a graded decision.
// All mutable state lives behind one lock; evaluation itself is pure.
package governor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/arbiterhq/arbiter/internal/awareness"
	"github.com/arbiterhq/arbiter/internal/model"
	"github.com/arbiterhq/arbiter/internal/principle"
	"github.com/arbiterhq/arbiter/internal/rules"
)

const (
	historyCapacity    = 10_000
	monitoringCapacity = 1_000
)

// Interceptor is an action-type-specific evaluator overriding the
// general rule pipeline for its registered action type.
type Interceptor func(actor string, actionData map[string]any, ctx model.Context, decisionID string) model.Decision

// Metrics are the running counters of the engine.
type Metrics struct {
	TotalDecisions      int64 `json:"total_decisions"`
	ViolationsPrevented int64 `json:"violations_prevented"`
	RestrictionsImposed int64 `json:"restrictions_imposed"`
	EscalationsRequired int64 `json:"escalations_required"`
	LearningAdjustments int64 `json:"learning_adjustments"`
}

// Governor evaluates actions against the principle weight table. It is
// explicitly constructed and passed by the hosting process; there is no
// package-level instance.
type Governor struct {
	active atomic.Bool
	seq    atomic.Uint64

	mu           sync.Mutex
	weights      principle.Weights
	history      *decisionRing
	monitoring   *decisionRing
	metrics      Metrics
	interceptors map[string]Interceptor
	restrictions map[string][]string          // actor → restrictions from the latest restrict decision
	allowStreaks map[string]int               // action type → consecutive allow count
	patterns     map[string][]model.Principle // action type → principles previously affected

	strictness float64
	learning   bool
	sink       awareness.Sink
	logger     zerolog.Logger
}

// Option configures a Governor at construction time.
type Option func(*Governor)

// WithFoundation seeds the weight table from foundation statements.
func WithFoundation(statements []string) Option {
	return func(g *Governor) { g.weights = principle.InitializeWeights(statements) }
}

// WithSink sets the awareness sink decisions are emitted to.
func WithSink(sink awareness.Sink) Option {
	return func(g *Governor) {
		if sink != nil {
			g.sink = sink
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Governor) { g.logger = logger }
}

// WithLearning toggles the weight-adjustment loop.
func WithLearning(enabled bool) Option {
	return func(g *Governor) { g.learning = enabled }
}

// WithStrictness sets the strictness level in [0, 1].
func WithStrictness(level float64) Option {
	return func(g *Governor) { g.strictness = level }
}

// New creates an inactive Governor with default weights, the built-in
// interceptors registered, and learning enabled. Call Activate before
// evaluating; while inactive every action is allowed and logged.
func New(opts ...Option) *Governor {
	g := &Governor{
		weights:      principle.DefaultWeights(),
		history:      newDecisionRing(historyCapacity),
		monitoring:   newDecisionRing(monitoringCapacity),
		interceptors: make(map[string]Interceptor),
		restrictions: make(map[string][]string),
		allowStreaks: make(map[string]int),
		patterns:     make(map[string][]model.Principle),
		strictness:   0.7,
		learning:     true,
		sink:         awareness.NopSink{},
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("component", "governor").Logger()
	g.registerBuiltins()
	return g
}

// Activate turns governance on. Before activation every evaluation is
// unconditionally allowed. There is no deactivation path.
func (g *Governor) Activate() {
	g.active.Store(true)

	g.mu.Lock()
	principles := len(g.weights)
	learning := g.learning
	strictness := g.strictness
	g.mu.Unlock()

	g.logger.Info().
		Float64("strictness", strictness).
		Int("active_principles", principles).
		Bool("learning", learning).
		Msg("governance activated")

	g.emit(awareness.Event{
		Type: awareness.TypeActivation,
		Payload: map[string]any{
			"timestamp":         time.Now().UTC().Format(time.RFC3339Nano),
			"strictness_level":  strictness,
			"active_principles": principles,
			"learning_mode":     learning,
		},
		Weight: "high",
	})
}

// Active reports whether governance is enforcing.
func (g *Governor) Active() bool { return g.active.Load() }

// RegisterInterceptor installs an evaluator for an action type.
// Registration is idempotent by action type: last registration wins.
func (g *Governor) RegisterInterceptor(actionType string, fn Interceptor) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	g.interceptors[actionType] = fn
	g.mu.Unlock()
	g.logger.Debug().Str("action_type", actionType).Msg("interceptor registered")
}

// Evaluate is the single enforcement point. It resolves the context
// (caller-supplied or inferred), dispatches to a registered interceptor
// or the general pipeline, records the decision, emits it to the
// awareness sink, and feeds the learning loop.
func (g *Governor) Evaluate(actionType, actor string, actionData map[string]any, ctx *model.Context) model.Decision {
	if !g.active.Load() {
		// Sole bypass path: no history, no metrics.
		resolved := model.NewContext(actionType, actor)
		if ctx != nil {
			resolved = *ctx
		}
		return model.Decision{
			ID:         g.nextID(),
			Timestamp:  time.Now(),
			ActionType: actionType,
			Actor:      actor,
			Context:    resolved,
			Kind:       model.Allow,
			Severity:   model.SeverityInfo,
			Reasoning:  "governance not active",
			Confidence: 1.0,
		}
	}

	g.mu.Lock()
	id := g.nextID()
	resolved := model.InferContext(actionType, actor, actionData)
	if ctx != nil {
		resolved = *ctx
	}

	decision := g.dispatch(actionType, actor, actionData, resolved, id)
	g.record(decision)
	if g.learning {
		g.learn(decision)
	}
	g.mu.Unlock()

	g.emitDecision(decision)
	return decision
}

// Review is the loosely typed entry point: the context arrives as a map
// and flows through the same pipeline as Evaluate. Any internal fault
// returns a fail-closed block decision instead of an error; this surface
// never fails open.
func (g *Governor) Review(actionType string, contextMap map[string]any, metadata map[string]any) (decision model.Decision) {
	actor := "unknown"
	defer func() {
		if r := recover(); r != nil {
			decision = g.failClosed(actionType, actor, fmt.Errorf("%v", r))
		}
	}()

	ctx := model.ContextFromMap(actionType, contextMap)
	actor = ctx.Actor
	if metadata != nil {
		ctx.Metadata = metadata
	}

	return g.Evaluate(actionType, ctx.Actor, nil, &ctx)
}

// dispatch routes to a registered interceptor or the general pipeline.
// A faulting interceptor degrades to a fail-closed block; the decision
// invariants are re-checked on whatever the interceptor returned.
// Callers hold the lock.
func (g *Governor) dispatch(actionType, actor string, actionData map[string]any, ctx model.Context, id string) (decision model.Decision) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Str("action_type", actionType).Any("panic", r).Msg("interceptor fault")
			decision = g.failClosed(actionType, actor, fmt.Errorf("interceptor fault: %v", r))
		}
	}()

	if fn, ok := g.interceptors[actionType]; ok {
		return enforceInvariants(fn(actor, actionData, ctx, id))
	}
	return decisionFromOutcome(id, actionType, actor, ctx, rules.GeneralEvaluate(actionType, ctx))
}

// failClosed synthesizes the blocking decision returned when evaluation
// itself breaks. Policy failures degrade to blocking, never to allowing.
func (g *Governor) failClosed(actionType, actor string, cause error) model.Decision {
	return model.Decision{
		ID:                 g.nextID(),
		Timestamp:          time.Now(),
		ActionType:         actionType,
		Actor:              actor,
		Context:            model.NewContext(actionType, actor),
		Kind:               model.Block,
		Severity:           model.SeverityCritical,
		AffectedPrinciples: []model.Principle{model.SystemIntegrity},
		Reasoning:          fmt.Sprintf("policy review failed: %v", cause),
		Confidence:         1.0,
		EscalationReason:   "review_system_error",
	}
}

// record appends the decision to history, feeds the monitoring queue,
// and bumps the metrics counters. Callers hold the lock.
func (g *Governor) record(d model.Decision) {
	g.history.push(d)
	g.metrics.TotalDecisions++

	switch d.Kind {
	case model.Block:
		g.metrics.ViolationsPrevented++
	case model.Restrict:
		g.metrics.RestrictionsImposed++
		g.restrictions[d.Actor] = d.Restrictions
	case model.Escalate:
		g.metrics.EscalationsRequired++
	case model.Monitor:
		g.monitoring.push(d)
	}
}

// emitDecision forwards the decision to the awareness sink.
func (g *Governor) emitDecision(d model.Decision) {
	g.emit(awareness.Event{
		Type: awareness.TypeDecision,
		Payload: map[string]any{
			"decision_id":         d.ID,
			"action_type":         d.ActionType,
			"actor":               d.Actor,
			"decision":            string(d.Kind),
			"severity":            string(d.Severity),
			"reasoning":           d.Reasoning,
			"confidence":          d.Confidence,
			"affected_principles": d.PrincipleStrings(),
		},
		Weight: string(d.Severity),
	})
}

// emit delivers an event to the sink on its own goroutine. Evaluation
// never waits on a sink; faults are logged and swallowed.
func (g *Governor) emit(event awareness.Event) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				g.logger.Warn().Any("panic", r).Msg("awareness sink fault")
			}
		}()
		g.sink.Emit(event)
	}()
}

// decisionFromOutcome wraps a pure rule outcome into a Decision.
func decisionFromOutcome(id, actionType, actor string, ctx model.Context, out rules.Outcome) model.Decision {
	return model.Decision{
		ID:                 id,
		Timestamp:          time.Now(),
		ActionType:         actionType,
		Actor:              actor,
		Context:            ctx,
		Kind:               out.Kind,
		Severity:           out.Severity,
		AffectedPrinciples: out.AffectedPrinciples,
		Reasoning:          out.Reasoning,
		Confidence:         out.Confidence,
		Restrictions:       out.Restrictions,
		MonitoringReqs:     out.MonitoringReqs,
		EscalationReason:   out.EscalationReason,
	}
}

// enforceInvariants repairs interceptor output that would break the
// Decision invariants rather than letting it into the history.
func enforceInvariants(d model.Decision) model.Decision {
	if d.Kind == model.Block && d.Severity != model.SeverityViolation && d.Severity != model.SeverityCritical {
		d.Severity = model.SeverityViolation
	}
	if d.Kind == model.Allow {
		d.AffectedPrinciples = nil
	}
	return d
}

// Metrics returns a copy of the running counters.
func (g *Governor) Metrics() Metrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// History returns the most recent n retained decisions, oldest first.
// n <= 0 returns the full retained history.
func (g *Governor) History(n int) []model.Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.tail(n)
}

// MonitoringQueue returns the retained monitor decisions, oldest first.
func (g *Governor) MonitoringQueue() []model.Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.monitoring.items()
}

// Weights returns a snapshot of the principle weight table.
func (g *Governor) Weights() map[string]float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.weights.Snapshot()
}

// ActiveRestrictions returns the restrictions currently imposed on an actor.
func (g *Governor) ActiveRestrictions(actor string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.restrictions[actor]))
	copy(out, g.restrictions[actor])
	return out
}

// Status reports a point-in-time view for status endpoints.
func (g *Governor) Status() map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return map[string]any{
		"governance_active": g.active.Load(),
		"strictness_level":  g.strictness,
		"learning_mode":     g.learning,
		"active_principles": len(g.weights),
		"history_size":      g.history.len(),
		"monitoring_size":   g.monitoring.len(),
		"metrics":           g.metrics,
	}
}

// ReplaceFoundation reseeds the weight table from new foundation
// statements. Used on profile hot-reload; learned drift is discarded.
func (g *Governor) ReplaceFoundation(statements []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.weights = principle.InitializeWeights(statements)
	g.logger.Info().Int("statements", len(statements)).Msg("weight table reseeded")
}
