package governor

import (
	"testing"

	"github.com/arbiterhq/arbiter/internal/model"
)

func TestDataAccessConsentedSensitiveRestricts(t *testing.T) {
	g := activeGovernor()

	ctx := model.NewContext("data_access", "agent")
	ctx.SensitiveData = true
	ctx.UserConsent = boolPtr(true)

	d := g.Evaluate("data_access", "agent", nil, &ctx)

	if d.Kind != model.Restrict || d.Severity != model.SeverityWarning {
		t.Fatalf("expected restrict/warning, got %s/%s", d.Kind, d.Severity)
	}
	if d.Confidence != 0.80 {
		t.Errorf("expected confidence 0.80, got %v", d.Confidence)
	}
	want := []string{"minimum_necessary_data", "access_logging"}
	if len(d.Restrictions) != 2 || d.Restrictions[0] != want[0] || d.Restrictions[1] != want[1] {
		t.Errorf("restrictions = %v, want %v", d.Restrictions, want)
	}
	if got := g.ActiveRestrictions("agent"); len(got) != 2 {
		t.Errorf("restrictions not tracked for actor: %v", got)
	}
}

func TestDataAccessNonSensitiveAllows(t *testing.T) {
	g := activeGovernor()

	ctx := model.NewContext("data_access", "agent")
	d := g.Evaluate("data_access", "agent", nil, &ctx)

	if d.Kind != model.Allow {
		t.Fatalf("expected allow, got %s", d.Kind)
	}
}

func TestSystemModifyIrreversibleEscalates(t *testing.T) {
	g := activeGovernor()

	ctx := model.NewContext("system_modify", "agent")
	ctx.SystemModify = true
	ctx.Reversible = false
	ctx.Scope = model.ScopeSystem

	d := g.Evaluate("system_modify", "agent", nil, &ctx)

	if d.Kind != model.Escalate || d.Severity != model.SeverityWarning {
		t.Fatalf("expected escalate/warning, got %s/%s", d.Kind, d.Severity)
	}
	if d.EscalationReason != "irreversible_system_change" {
		t.Errorf("escalation reason = %q", d.EscalationReason)
	}
	if len(d.AffectedPrinciples) != 2 ||
		d.AffectedPrinciples[0] != model.Safety || d.AffectedPrinciples[1] != model.SystemIntegrity {
		t.Errorf("principles = %v", d.AffectedPrinciples)
	}
	if m := g.Metrics(); m.EscalationsRequired != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestSystemModifyGlobalStillBlocks(t *testing.T) {
	g := activeGovernor()

	// The general security rule outranks the escalation path.
	ctx := model.NewContext("system_modify", "agent")
	ctx.SystemModify = true
	ctx.Reversible = false
	ctx.Scope = model.ScopeGlobal

	d := g.Evaluate("system_modify", "agent", nil, &ctx)

	if d.Kind != model.Block || d.Severity != model.SeverityViolation {
		t.Fatalf("expected block/violation, got %s/%s", d.Kind, d.Severity)
	}
	if !containsGovPrinciple(d.AffectedPrinciples, model.Security) {
		t.Errorf("expected security in %v", d.AffectedPrinciples)
	}
}

func TestUserInteractConsentRefusedBlocks(t *testing.T) {
	g := activeGovernor()

	ctx := model.NewContext("user_interact", "agent")
	ctx.UserConsent = boolPtr(false)

	d := g.Evaluate("user_interact", "agent", nil, &ctx)

	if d.Kind != model.Block || d.Severity != model.SeverityViolation {
		t.Fatalf("expected block/violation, got %s/%s", d.Kind, d.Severity)
	}
	if len(d.AffectedPrinciples) != 1 || d.AffectedPrinciples[0] != model.Autonomy {
		t.Errorf("principles = %v", d.AffectedPrinciples)
	}
	if d.Confidence != 0.95 {
		t.Errorf("confidence = %v", d.Confidence)
	}
}

func TestAIDecisionHiddenTargetEscalates(t *testing.T) {
	g := activeGovernor()

	ctx := model.NewContext("ai_decision", "agent")
	ctx.Target = "user_account"
	ctx.UserVisible = false

	d := g.Evaluate("ai_decision", "agent", nil, &ctx)

	if d.Kind != model.Escalate {
		t.Fatalf("expected escalate, got %s", d.Kind)
	}
	if d.EscalationReason != "autonomous_decision_without_oversight" {
		t.Errorf("escalation reason = %q", d.EscalationReason)
	}
	if len(d.AffectedPrinciples) != 2 ||
		d.AffectedPrinciples[0] != model.Autonomy || d.AffectedPrinciples[1] != model.Transparency {
		t.Errorf("principles = %v", d.AffectedPrinciples)
	}
}

func TestAIDecisionWithoutTargetFallsThrough(t *testing.T) {
	g := activeGovernor()

	// No target means nothing to escalate over; the hidden action still
	// draws a transparency concern from the general pipeline.
	ctx := model.NewContext("ai_decision", "agent")
	ctx.UserVisible = false

	d := g.Evaluate("ai_decision", "agent", nil, &ctx)

	if d.Kind != model.Monitor {
		t.Fatalf("expected monitor, got %s", d.Kind)
	}
}

func TestNetworkCommunicateSensitiveEgressBlocks(t *testing.T) {
	g := activeGovernor()

	// Consent does not excuse sensitive egress beyond local scope.
	ctx := model.NewContext("network_communicate", "agent")
	ctx.SensitiveData = true
	ctx.UserConsent = boolPtr(true)
	ctx.Scope = model.ScopeNetwork

	d := g.Evaluate("network_communicate", "agent", nil, &ctx)

	if d.Kind != model.Block || d.Severity != model.SeverityViolation {
		t.Fatalf("expected block/violation, got %s/%s", d.Kind, d.Severity)
	}
	if len(d.AffectedPrinciples) != 2 ||
		d.AffectedPrinciples[0] != model.Privacy || d.AffectedPrinciples[1] != model.Security {
		t.Errorf("principles = %v", d.AffectedPrinciples)
	}
}

func TestNetworkCommunicateLocalSensitiveNotBlockedByEgressRule(t *testing.T) {
	g := activeGovernor()

	ctx := model.NewContext("network_communicate", "agent")
	ctx.SensitiveData = true
	ctx.UserConsent = boolPtr(true)

	d := g.Evaluate("network_communicate", "agent", nil, &ctx)

	if d.Kind != model.Allow {
		t.Fatalf("local consented sensitive use should allow, got %s", d.Kind)
	}
}

func containsGovPrinciple(ps []model.Principle, want model.Principle) bool {
	for _, p := range ps {
		if p == want {
			return true
		}
	}
	return false
}
