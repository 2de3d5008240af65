package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arbiterhq/arbiter/internal/awareness"
	"github.com/arbiterhq/arbiter/internal/governor"
	"github.com/arbiterhq/arbiter/internal/profile"
)

var rootCmd = &cobra.Command{
	Use:   "arbiter",
	Short: "Policy governor for autonomous agent actions",
	Long:  "Evaluates proposed agent actions against weighted governance principles and returns a graded decision: allow, monitor, restrict, block, or escalate. Fail-closed: internal faults block, they never allow.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger writing to stderr.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// newGovernor loads the profile, builds the sink stack, and constructs
// an activated governor.
func newGovernor(ctx context.Context, profilePath string, logger zerolog.Logger) (*governor.Governor, *profile.Profile, error) {
	prof, err := profile.LoadFile(profilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if err := profile.Validate(prof); err != nil {
		return nil, nil, fmt.Errorf("invalid profile: %w", err)
	}

	sink, err := awareness.FromConfig(ctx, prof.Awareness, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("partial awareness sink")
	}

	gov := governor.New(
		governor.WithFoundation(prof.Foundation),
		governor.WithStrictness(prof.Strictness),
		governor.WithLearning(prof.Learning),
		governor.WithSink(sink),
		governor.WithLogger(logger),
	)
	gov.Activate()
	return gov, prof, nil
}
