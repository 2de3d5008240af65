// Package mcp exposes the governor to agents over the Model Context
// Protocol. Agents consult it before acting; the tools map one-to-one
// onto the governor's entry points.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/arbiterhq/arbiter/internal/governor"
)

// Server wraps the MCP SDK server around a Governor.
type Server struct {
	mcpServer *mcpsdk.Server
	gov       *governor.Governor
	logger    zerolog.Logger
}

// New creates an MCP server with the arbiter tools registered.
func New(gov *governor.Governor, logger zerolog.Logger) *Server {
	s := &Server{
		gov:    gov,
		logger: logger.With().Str("component", "mcp").Logger(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "arbiter",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all arbiter tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arbiter_evaluate",
		Description: "Evaluate a proposed action against governance policy. Returns the graded decision with reasoning; blocked actions must not be performed.",
	}, s.handleEvaluate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arbiter_review",
		Description: "Review an action described by a loose context map. Internal failures return a fail-closed block decision.",
	}, s.handleReview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arbiter_metrics",
		Description: "Report the governor's running decision metrics.",
	}, s.handleMetrics)
}
