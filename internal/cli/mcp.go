package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arbiterhq/arbiter/internal/mcp"
)

var mcpProfile string

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpProfile, "profile", "", "Path to profile YAML (built-in default when omitted)")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server on stdio",
	Long:  "Exposes arbiter_evaluate, arbiter_review, and arbiter_metrics as MCP tools\nso agents can consult the governor before acting.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the MCP transport; logs must stay on stderr.
	logger := newLogger(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gov, _, err := newGovernor(ctx, mcpProfile, logger)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return mcp.New(gov, logger).Run(ctx)
}
