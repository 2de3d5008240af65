// Package rules holds the pure evaluators of the decision pipeline.
// Nothing here touches governor state; every function is a deterministic
// mapping from (action type, context) to an outcome.
package rules

import (
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/model"
)

// selfDeclaredHidden are action types whose invisibility is intentional
// and therefore not a transparency concern.
var selfDeclaredHidden = map[string]bool{
	"system_monitor":  true,
	"background_task": true,
}

// CheckViolations returns the principles violated outright by the
// context. Rules are independent boolean checks; all of them run.
func CheckViolations(ctx model.Context) []model.Principle {
	var violations []model.Principle

	if ctx.SensitiveData && !ctx.ConsentGranted() {
		violations = append(violations, model.Privacy)
	}
	if ctx.SystemModify && ctx.Scope == model.ScopeGlobal {
		violations = append(violations, model.Security)
	}
	if !ctx.UserVisible && ctx.Persistent {
		violations = append(violations, model.Autonomy)
	}

	return violations
}

// CheckConcerns returns the principles that warrant monitoring rather
// than blocking.
func CheckConcerns(actionType string, ctx model.Context) []model.Principle {
	var concerns []model.Principle

	if !ctx.UserVisible && !selfDeclaredHidden[actionType] {
		concerns = append(concerns, model.Transparency)
	}
	if !ctx.Reversible && (ctx.Scope == model.ScopeSystem || ctx.Scope == model.ScopeGlobal) {
		concerns = append(concerns, model.Safety)
	}

	return concerns
}

// Outcome is the rule pipeline result before the governor wraps it into
// a full Decision.
type Outcome struct {
	Kind               model.Kind
	Severity           model.Severity
	AffectedPrinciples []model.Principle
	Reasoning          string
	Confidence         float64
	Restrictions       []string
	MonitoringReqs     []string
	EscalationReason   string
}

// GeneralEvaluate runs the violation and concern checks and grades the
// outcome. Violations take strict precedence over concerns; both checks
// run regardless, so the reasoning always reflects the full set of the
// first triggered category.
func GeneralEvaluate(actionType string, ctx model.Context) Outcome {
	violations := CheckViolations(ctx)
	concerns := CheckConcerns(actionType, ctx)

	if len(violations) > 0 {
		return Outcome{
			Kind:               model.Block,
			Severity:           model.SeverityViolation,
			AffectedPrinciples: violations,
			Reasoning:          fmt.Sprintf("violations detected: %s", joinPrinciples(violations)),
			Confidence:         0.95,
		}
	}

	if len(concerns) > 0 {
		return Outcome{
			Kind:               model.Monitor,
			Severity:           model.SeverityConcern,
			AffectedPrinciples: concerns,
			Reasoning:          fmt.Sprintf("concerns identified: %s", joinPrinciples(concerns)),
			Confidence:         0.85,
			MonitoringReqs:     []string{"increased_logging", "user_notification"},
		}
	}

	return Outcome{
		Kind:       model.Allow,
		Severity:   model.SeverityInfo,
		Reasoning:  "no policy concerns identified",
		Confidence: 0.90,
	}
}

func joinPrinciples(ps []model.Principle) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ", ")
}
