package model

import (
	"testing"
	"time"
)

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext("file_read", "worker")

	if ctx.Scope != ScopeLocal {
		t.Errorf("expected local scope, got %s", ctx.Scope)
	}
	if !ctx.Reversible {
		t.Error("expected reversible by default")
	}
	if ctx.Persistent || ctx.SensitiveData || ctx.SystemModify {
		t.Error("expected persistent/sensitive/system flags off by default")
	}
	if !ctx.UserVisible {
		t.Error("expected user-visible by default")
	}
	if ctx.UserConsent != nil {
		t.Error("expected consent unset by default")
	}
	if ctx.Metadata == nil {
		t.Error("expected non-nil metadata map")
	}
}

func TestParseScope(t *testing.T) {
	cases := map[string]Scope{
		"local":   ScopeLocal,
		"system":  ScopeSystem,
		"network": ScopeNetwork,
		"global":  ScopeGlobal,
		"galaxy":  ScopeLocal,
		"":        ScopeLocal,
	}
	for raw, want := range cases {
		if got := ParseScope(raw); got != want {
			t.Errorf("ParseScope(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestContextFromMap(t *testing.T) {
	ctx := ContextFromMap("data_access", map[string]any{
		"persona":             "analyst",
		"target":              "customer_db",
		"scope":               "network",
		"user_consent":        true,
		"reversible":          false,
		"persistent":          true,
		"sensitive_data":      true,
		"system_modification": true,
		"user_visible":        false,
	})

	if ctx.Actor != "analyst" {
		t.Errorf("expected actor analyst, got %s", ctx.Actor)
	}
	if ctx.Target != "customer_db" || ctx.Scope != ScopeNetwork {
		t.Errorf("target/scope not coerced: %+v", ctx)
	}
	if !ctx.ConsentGranted() {
		t.Error("expected consent granted")
	}
	if ctx.Reversible || !ctx.Persistent || !ctx.SensitiveData || !ctx.SystemModify || ctx.UserVisible {
		t.Errorf("bool fields not coerced: %+v", ctx)
	}
}

func TestContextFromMapDefaults(t *testing.T) {
	ctx := ContextFromMap("noop", nil)
	if ctx.Actor != "unknown" {
		t.Errorf("expected unknown actor, got %s", ctx.Actor)
	}
	if ctx.Scope != ScopeLocal || !ctx.Reversible || !ctx.UserVisible {
		t.Errorf("expected defaults, got %+v", ctx)
	}

	// Mistyped values fall back instead of failing.
	ctx = ContextFromMap("noop", map[string]any{
		"persona":      42,
		"scope":        []string{"global"},
		"user_consent": "yes",
	})
	if ctx.Actor != "unknown" || ctx.Scope != ScopeLocal || ctx.UserConsent != nil {
		t.Errorf("expected mistyped values ignored, got %+v", ctx)
	}
}

func TestConsentHelpers(t *testing.T) {
	ctx := NewContext("a", "b")
	if ctx.ConsentGranted() || ctx.ConsentRefused() {
		t.Error("unset consent is neither granted nor refused")
	}

	granted := true
	ctx.UserConsent = &granted
	if !ctx.ConsentGranted() || ctx.ConsentRefused() {
		t.Error("expected granted")
	}

	refused := false
	ctx.UserConsent = &refused
	if ctx.ConsentGranted() || !ctx.ConsentRefused() {
		t.Error("expected refused")
	}
}

func TestDecisionToMap(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
	d := Decision{
		ID:                 "d-00000001-abcd1234",
		Timestamp:          ts,
		ActionType:         "data_access",
		Actor:              "worker",
		Kind:               Block,
		Severity:           SeverityViolation,
		AffectedPrinciples: []Principle{Privacy},
		Reasoning:          "violations detected: privacy",
		Confidence:         0.95,
	}

	m := d.ToMap()

	if m["decision"] != "block" || m["severity"] != "violation" {
		t.Errorf("enum fields must render lowercase tags, got %v / %v", m["decision"], m["severity"])
	}
	if m["datetime"] != "2026-03-01T12:00:00.5Z" {
		t.Errorf("unexpected datetime: %v", m["datetime"])
	}
	raw, ok := m["timestamp"].(float64)
	if !ok || raw != float64(ts.UnixNano())/1e9 {
		t.Errorf("expected raw unix timestamp alongside datetime, got %v", m["timestamp"])
	}
	if _, present := m["escalation_reason"]; present {
		t.Error("empty escalation reason must be omitted")
	}
	if got := m["restrictions"].([]string); len(got) != 0 {
		t.Errorf("nil restrictions must serialize as empty list, got %v", got)
	}

	d.EscalationReason = "review_system_error"
	if d.ToMap()["escalation_reason"] != "review_system_error" {
		t.Error("escalation reason must round-trip when set")
	}
}

func TestAllPrinciplesCoversNine(t *testing.T) {
	if len(AllPrinciples()) != 9 {
		t.Fatalf("expected 9 principles, got %d", len(AllPrinciples()))
	}
}
