package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbiterhq/arbiter/internal/audit"
)

var (
	replayActor      string
	replayActionType string
	replaySince      string
	replayUntil      string
	replayJSON       bool
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditReplayCmd)
	auditReplayCmd.Flags().StringVar(&replayActor, "actor", "", "Only entries for this actor")
	auditReplayCmd.Flags().StringVar(&replayActionType, "action-type", "", "Only entries for this action type")
	auditReplayCmd.Flags().StringVar(&replaySince, "since", "", "Only entries at or after this RFC 3339 time")
	auditReplayCmd.Flags().StringVar(&replayUntil, "until", "", "Only entries at or before this RFC 3339 time")
	auditReplayCmd.Flags().BoolVar(&replayJSON, "json", false, "Emit the full replay result as JSON")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained decision log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of a decision log",
	Long:  "Walks the JSONL decision log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditReplayCmd = &cobra.Command{
	Use:   "replay <path>",
	Short: "Replay decisions from a decision log",
	Long:  "Reads the JSONL decision log, filters by actor, action type, or time,\nand summarizes the decisions taken.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditReplay,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if result.Valid {
		fmt.Printf("OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func runAuditReplay(cmd *cobra.Command, args []string) error {
	filter := audit.ReplayFilter{
		Actor:      replayActor,
		ActionType: replayActionType,
	}
	if replaySince != "" {
		from, err := time.Parse(time.RFC3339, replaySince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		filter.From = from
	}
	if replayUntil != "" {
		to, err := time.Parse(time.RFC3339, replayUntil)
		if err != nil {
			return fmt.Errorf("parse --until: %w", err)
		}
		filter.To = to
	}

	result, err := audit.Replay(args[0], filter)
	if err != nil {
		return err
	}

	if replayJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal replay result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for _, e := range result.Entries {
		fmt.Printf("%-24s %-10s %-10s %-20s %s\n",
			e.Timestamp, e.Decision, e.Severity, e.ActionType, e.Actor)
	}
	s := result.Summary
	fmt.Printf("total=%d allow=%d monitor=%d restrict=%d block=%d escalate=%d\n",
		s.Total, s.AllowCount, s.MonitorCount, s.RestrictCount, s.BlockCount, s.EscalateCount)
	return nil
}
