package governor

import (
	"time"

	"github.com/arbiterhq/arbiter/internal/model"
	"github.com/arbiterhq/arbiter/internal/rules"
)

// registerBuiltins installs the core interceptors. Hosts may override
// any of them via RegisterInterceptor (last registration wins).
func (g *Governor) registerBuiltins() {
	g.interceptors["data_access"] = evaluateDataAccess
	g.interceptors["system_modify"] = evaluateSystemModify
	g.interceptors["user_interact"] = evaluateUserInteract
	g.interceptors["ai_decision"] = evaluateAIDecision
	g.interceptors["network_communicate"] = evaluateNetworkCommunicate
}

// evaluateDataAccess tightens the general pipeline for data reads:
// consented access to sensitive data is allowed but restricted to the
// minimum necessary. Unconsented sensitive access blocks via the
// general privacy rule.
func evaluateDataAccess(actor string, _ map[string]any, ctx model.Context, id string) model.Decision {
	out := rules.GeneralEvaluate("data_access", ctx)

	if out.Kind == model.Allow && ctx.SensitiveData && ctx.ConsentGranted() {
		return model.Decision{
			ID:                 id,
			Timestamp:          time.Now(),
			ActionType:         "data_access",
			Actor:              actor,
			Context:            ctx,
			Kind:               model.Restrict,
			Severity:           model.SeverityWarning,
			AffectedPrinciples: []model.Principle{model.Privacy},
			Reasoning:          "consented sensitive data access is limited to the minimum necessary",
			Confidence:         0.80,
			Restrictions:       []string{"minimum_necessary_data", "access_logging"},
		}
	}

	return decisionFromOutcome(id, "data_access", actor, ctx, out)
}

// evaluateSystemModify escalates irreversible changes beyond local
// scope to human oversight. Global-scope modification still blocks
// outright through the general security rule.
func evaluateSystemModify(actor string, _ map[string]any, ctx model.Context, id string) model.Decision {
	out := rules.GeneralEvaluate("system_modify", ctx)

	if out.Kind != model.Block && !ctx.Reversible &&
		(ctx.Scope == model.ScopeSystem || ctx.Scope == model.ScopeGlobal) {
		return model.Decision{
			ID:                 id,
			Timestamp:          time.Now(),
			ActionType:         "system_modify",
			Actor:              actor,
			Context:            ctx,
			Kind:               model.Escalate,
			Severity:           model.SeverityWarning,
			AffectedPrinciples: []model.Principle{model.Safety, model.SystemIntegrity},
			Reasoning:          "irreversible system modification requires human oversight",
			Confidence:         0.75,
			EscalationReason:   "irreversible_system_change",
		}
	}

	return decisionFromOutcome(id, "system_modify", actor, ctx, out)
}

// evaluateUserInteract blocks interactions the user explicitly declined.
func evaluateUserInteract(actor string, _ map[string]any, ctx model.Context, id string) model.Decision {
	if ctx.ConsentRefused() {
		return model.Decision{
			ID:                 id,
			Timestamp:          time.Now(),
			ActionType:         "user_interact",
			Actor:              actor,
			Context:            ctx,
			Kind:               model.Block,
			Severity:           model.SeverityViolation,
			AffectedPrinciples: []model.Principle{model.Autonomy},
			Reasoning:          "user explicitly declined this interaction",
			Confidence:         0.95,
		}
	}

	return decisionFromOutcome(id, "user_interact", actor, ctx, rules.GeneralEvaluate("user_interact", ctx))
}

// evaluateAIDecision escalates autonomous decisions about a target made
// outside the user's view.
func evaluateAIDecision(actor string, _ map[string]any, ctx model.Context, id string) model.Decision {
	out := rules.GeneralEvaluate("ai_decision", ctx)

	if out.Kind != model.Block && ctx.Target != "" && !ctx.UserVisible {
		return model.Decision{
			ID:                 id,
			Timestamp:          time.Now(),
			ActionType:         "ai_decision",
			Actor:              actor,
			Context:            ctx,
			Kind:               model.Escalate,
			Severity:           model.SeverityWarning,
			AffectedPrinciples: []model.Principle{model.Autonomy, model.Transparency},
			Reasoning:          "autonomous decision about a target without user visibility",
			Confidence:         0.70,
			EscalationReason:   "autonomous_decision_without_oversight",
		}
	}

	return decisionFromOutcome(id, "ai_decision", actor, ctx, out)
}

// evaluateNetworkCommunicate blocks sensitive data egress beyond local
// scope regardless of consent.
func evaluateNetworkCommunicate(actor string, _ map[string]any, ctx model.Context, id string) model.Decision {
	if ctx.SensitiveData &&
		(ctx.Scope == model.ScopeNetwork || ctx.Scope == model.ScopeGlobal) {
		return model.Decision{
			ID:                 id,
			Timestamp:          time.Now(),
			ActionType:         "network_communicate",
			Actor:              actor,
			Context:            ctx,
			Kind:               model.Block,
			Severity:           model.SeverityViolation,
			AffectedPrinciples: []model.Principle{model.Privacy, model.Security},
			Reasoning:          "sensitive data egress beyond local scope",
			Confidence:         0.95,
		}
	}

	return decisionFromOutcome(id, "network_communicate", actor, ctx, rules.GeneralEvaluate("network_communicate", ctx))
}
