package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arbiterhq/arbiter/internal/model"
)

// --- Input/Output types ---

// EvaluateInput defines parameters for the arbiter_evaluate tool.
type EvaluateInput struct {
	ActionType string         `json:"action_type" jsonschema:"type of the proposed action (e.g. data_access, system_modify)"`
	Actor      string         `json:"actor" jsonschema:"component or agent performing the action"`
	ActionData map[string]any `json:"action_data,omitempty" jsonschema:"free-form data describing the action"`
	Context    map[string]any `json:"context,omitempty" jsonschema:"explicit decision context; inferred from action_data when omitted"`
}

// DecisionOutput carries the graded decision back to the agent.
type DecisionOutput struct {
	DecisionID         string   `json:"decision_id"`
	Decision           string   `json:"decision"`
	Severity           string   `json:"severity"`
	AffectedPrinciples []string `json:"affected_principles"`
	Reasoning          string   `json:"reasoning"`
	Confidence         float64  `json:"confidence"`
	Restrictions       []string `json:"restrictions,omitempty"`
	MonitoringReqs     []string `json:"monitoring_requirements,omitempty"`
	EscalationReason   string   `json:"escalation_reason,omitempty"`
}

// ReviewInput defines parameters for the arbiter_review tool.
type ReviewInput struct {
	ActionType string         `json:"action_type" jsonschema:"type of the action under review"`
	Context    map[string]any `json:"context,omitempty" jsonschema:"loose context map (persona, scope, user_consent, ...)"`
	Metadata   map[string]any `json:"metadata,omitempty" jsonschema:"additional metadata attached to the context"`
}

// MetricsInput is empty — no parameters needed.
type MetricsInput struct{}

// MetricsOutput reports the running counters.
type MetricsOutput struct {
	TotalDecisions      int64 `json:"total_decisions"`
	ViolationsPrevented int64 `json:"violations_prevented"`
	RestrictionsImposed int64 `json:"restrictions_imposed"`
	EscalationsRequired int64 `json:"escalations_required"`
	LearningAdjustments int64 `json:"learning_adjustments"`
}

// --- Handlers ---

func (s *Server) handleEvaluate(ctx context.Context, req *mcpsdk.CallToolRequest, input EvaluateInput) (*mcpsdk.CallToolResult, DecisionOutput, error) {
	var dctx *model.Context
	if input.Context != nil {
		c := model.ContextFromMap(input.ActionType, input.Context)
		if c.Actor == "unknown" && input.Actor != "" {
			c.Actor = input.Actor
		}
		dctx = &c
	}

	decision := s.gov.Evaluate(input.ActionType, input.Actor, input.ActionData, dctx)
	out := toOutput(decision)

	if decision.Kind == model.Block {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleReview(ctx context.Context, req *mcpsdk.CallToolRequest, input ReviewInput) (*mcpsdk.CallToolResult, DecisionOutput, error) {
	decision := s.gov.Review(input.ActionType, input.Context, input.Metadata)
	out := toOutput(decision)

	if decision.Kind == model.Block {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleMetrics(ctx context.Context, req *mcpsdk.CallToolRequest, input MetricsInput) (*mcpsdk.CallToolResult, MetricsOutput, error) {
	m := s.gov.Metrics()
	return nil, MetricsOutput{
		TotalDecisions:      m.TotalDecisions,
		ViolationsPrevented: m.ViolationsPrevented,
		RestrictionsImposed: m.RestrictionsImposed,
		EscalationsRequired: m.EscalationsRequired,
		LearningAdjustments: m.LearningAdjustments,
	}, nil
}

func toOutput(d model.Decision) DecisionOutput {
	return DecisionOutput{
		DecisionID:         d.ID,
		Decision:           string(d.Kind),
		Severity:           string(d.Severity),
		AffectedPrinciples: d.PrincipleStrings(),
		Reasoning:          d.Reasoning,
		Confidence:         d.Confidence,
		Restrictions:       d.Restrictions,
		MonitoringReqs:     d.MonitoringReqs,
		EscalationReason:   d.EscalationReason,
	}
}
