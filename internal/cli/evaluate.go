package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arbiterhq/arbiter/internal/model"
)

var (
	evalActor   string
	evalProfile string
	evalData    string
	evalContext string
	evalFormat  string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalActor, "actor", "cli", "Acting component or agent")
	evaluateCmd.Flags().StringVar(&evalProfile, "profile", "", "Path to profile YAML (built-in default when omitted)")
	evaluateCmd.Flags().StringVar(&evalData, "data", "", "Action data as a JSON object")
	evaluateCmd.Flags().StringVar(&evalContext, "context", "", "Explicit context as a JSON object (inferred when omitted)")
	evaluateCmd.Flags().StringVarP(&evalFormat, "format", "f", "text", "Output format (text|json)")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <action_type>",
	Short: "Evaluate a single action from the command line",
	Long: "Runs one action through the decision pipeline and prints the result.\n" +
		"Exit code 0 for allow/monitor/restrict, 1 for block/escalate.\n" +
		"Use in scripts to gate agent steps on governance decisions.",
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	actionType := args[0]
	logger := newLogger(false)

	var actionData map[string]any
	if evalData != "" {
		if err := json.Unmarshal([]byte(evalData), &actionData); err != nil {
			return fmt.Errorf("invalid --data JSON: %w", err)
		}
	}

	var ctx *model.Context
	if evalContext != "" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(evalContext), &raw); err != nil {
			return fmt.Errorf("invalid --context JSON: %w", err)
		}
		c := model.ContextFromMap(actionType, raw)
		if c.Actor == "unknown" {
			c.Actor = evalActor
		}
		ctx = &c
	}

	gov, _, err := newGovernor(context.Background(), evalProfile, logger)
	if err != nil {
		return err
	}

	decision := gov.Evaluate(actionType, evalActor, actionData, ctx)

	switch evalFormat {
	case "json":
		out, err := json.MarshalIndent(decision.ToMap(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		fmt.Printf("decision:   %s\n", decision.Kind)
		fmt.Printf("severity:   %s\n", decision.Severity)
		fmt.Printf("confidence: %.2f\n", decision.Confidence)
		fmt.Printf("reasoning:  %s\n", decision.Reasoning)
		if len(decision.AffectedPrinciples) > 0 {
			fmt.Printf("principles: %v\n", decision.PrincipleStrings())
		}
		if len(decision.Restrictions) > 0 {
			fmt.Printf("restrictions: %v\n", decision.Restrictions)
		}
		if len(decision.MonitoringReqs) > 0 {
			fmt.Printf("monitoring: %v\n", decision.MonitoringReqs)
		}
		if decision.EscalationReason != "" {
			fmt.Printf("escalation: %s\n", decision.EscalationReason)
		}
	}

	if decision.Kind == model.Block || decision.Kind == model.Escalate {
		os.Exit(1)
	}
	return nil
}
