package model

import "time"

// Principle is a named governance dimension carrying a mutable importance weight.
type Principle string

const (
	Privacy         Principle = "privacy"
	Security        Principle = "security"
	Autonomy        Principle = "autonomy"
	Transparency    Principle = "transparency"
	Fairness        Principle = "fairness"
	Safety          Principle = "safety"
	Creativity      Principle = "creativity"
	HumanWellbeing  Principle = "human_wellbeing"
	SystemIntegrity Principle = "system_integrity"
)

// AllPrinciples returns the closed set of principles in stable order.
func AllPrinciples() []Principle {
	return []Principle{
		Privacy, Security, Autonomy, Transparency, Fairness,
		Safety, Creativity, HumanWellbeing, SystemIntegrity,
	}
}

// Scope classifies the blast radius of an action.
type Scope string

const (
	ScopeLocal   Scope = "local"
	ScopeSystem  Scope = "system"
	ScopeNetwork Scope = "network"
	ScopeGlobal  Scope = "global"
)

// ParseScope coerces a raw string to a Scope, defaulting to local.
func ParseScope(s string) Scope {
	switch Scope(s) {
	case ScopeLocal, ScopeSystem, ScopeNetwork, ScopeGlobal:
		return Scope(s)
	default:
		return ScopeLocal
	}
}

// Kind is the graded decision outcome.
type Kind string

const (
	Allow    Kind = "allow"
	Monitor  Kind = "monitor"
	Restrict Kind = "restrict"
	Block    Kind = "block"
	Escalate Kind = "escalate"
)

// Severity grades how serious the triggered rules were.
type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityConcern   Severity = "concern"
	SeverityWarning   Severity = "warning"
	SeverityViolation Severity = "violation"
	SeverityCritical  Severity = "critical"
)

// Context captures the circumstances of a candidate action.
// Constructed once per evaluated action and owned by the Decision it produces.
type Context struct {
	ActionType    string         `json:"action_type"`
	Actor         string         `json:"actor"`
	Target        string         `json:"target,omitempty"`
	Scope         Scope          `json:"scope"`
	UserConsent   *bool          `json:"user_consent,omitempty"`
	Reversible    bool           `json:"reversible"`
	Persistent    bool           `json:"persistent"`
	SensitiveData bool           `json:"sensitive_data_involved"`
	SystemModify  bool           `json:"system_modification"`
	UserVisible   bool           `json:"user_visible"`
	Metadata      map[string]any `json:"metadata"`
}

// NewContext returns a Context with the documented defaults:
// local scope, reversible, non-persistent, visible, no sensitive data.
func NewContext(actionType, actor string) Context {
	return Context{
		ActionType:  actionType,
		Actor:       actor,
		Scope:       ScopeLocal,
		Reversible:  true,
		UserVisible: true,
		Metadata:    map[string]any{},
	}
}

// ConsentGranted reports whether consent was explicitly granted.
// Absent consent is treated the same as refused consent.
func (c Context) ConsentGranted() bool {
	return c.UserConsent != nil && *c.UserConsent
}

// ConsentRefused reports whether consent was explicitly refused.
func (c Context) ConsentRefused() bool {
	return c.UserConsent != nil && !*c.UserConsent
}

// ContextFromMap builds a Context from a loosely typed map with defensive
// coercion. Unknown or mistyped values fall back to the defaults; this
// never fails. The actor is read from "persona" (review-surface callers
// identify themselves that way) and defaults to "unknown".
func ContextFromMap(actionType string, m map[string]any) Context {
	ctx := NewContext(actionType, "unknown")
	if m == nil {
		return ctx
	}

	if s, ok := m["persona"].(string); ok && s != "" {
		ctx.Actor = s
	}
	if s, ok := m["target"].(string); ok {
		ctx.Target = s
	}
	if s, ok := m["scope"].(string); ok {
		ctx.Scope = ParseScope(s)
	}
	if b, ok := m["user_consent"].(bool); ok {
		ctx.UserConsent = &b
	}
	if b, ok := m["reversible"].(bool); ok {
		ctx.Reversible = b
	}
	if b, ok := m["persistent"].(bool); ok {
		ctx.Persistent = b
	}
	if b, ok := m["sensitive_data"].(bool); ok {
		ctx.SensitiveData = b
	}
	if b, ok := m["system_modification"].(bool); ok {
		ctx.SystemModify = b
	}
	if b, ok := m["user_visible"].(bool); ok {
		ctx.UserVisible = b
	}

	return ctx
}

// Decision is the immutable record of one policy evaluation outcome.
//
// Invariants: Kind == Block implies Severity ∈ {violation, critical};
// Kind == Allow implies AffectedPrinciples is empty.
type Decision struct {
	ID                 string      `json:"decision_id"`
	Timestamp          time.Time   `json:"-"`
	ActionType         string      `json:"action_type"`
	Actor              string      `json:"actor"`
	Context            Context     `json:"context"`
	Kind               Kind        `json:"decision"`
	Severity           Severity    `json:"severity"`
	AffectedPrinciples []Principle `json:"affected_principles"`
	Reasoning          string      `json:"reasoning"`
	Confidence         float64     `json:"confidence"`
	Restrictions       []string    `json:"restrictions"`
	MonitoringReqs     []string    `json:"monitoring_requirements"`
	EscalationReason   string      `json:"escalation_reason,omitempty"`
}

// ToMap serializes the decision for an external boundary: enum fields as
// their lowercase tags, the timestamp both as raw unix seconds and as an
// ISO-8601 UTC datetime string.
func (d Decision) ToMap() map[string]any {
	restrictions := d.Restrictions
	if restrictions == nil {
		restrictions = []string{}
	}
	monitoring := d.MonitoringReqs
	if monitoring == nil {
		monitoring = []string{}
	}

	out := map[string]any{
		"decision_id":             d.ID,
		"timestamp":               float64(d.Timestamp.UnixNano()) / 1e9,
		"datetime":                d.Timestamp.UTC().Format(time.RFC3339Nano),
		"action_type":             d.ActionType,
		"actor":                   d.Actor,
		"decision":                string(d.Kind),
		"severity":                string(d.Severity),
		"affected_principles":     d.PrincipleStrings(),
		"reasoning":               d.Reasoning,
		"confidence":              d.Confidence,
		"restrictions":            restrictions,
		"monitoring_requirements": monitoring,
	}
	if d.EscalationReason != "" {
		out["escalation_reason"] = d.EscalationReason
	}
	return out
}

// PrincipleStrings converts affected principles to plain strings.
func (d Decision) PrincipleStrings() []string {
	out := make([]string, 0, len(d.AffectedPrinciples))
	for _, p := range d.AffectedPrinciples {
		out = append(out, string(p))
	}
	return out
}
