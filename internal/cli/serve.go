package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbiterhq/arbiter/internal/profile"
	"github.com/arbiterhq/arbiter/internal/server"
)

var (
	servePort    int
	serveProfile string
	serveVerbose bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8700, "HTTP listen port")
	serveCmd.Flags().StringVar(&serveProfile, "profile", "", "Path to profile YAML (built-in default when omitted)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Debug logging")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP governance server",
	Long:  "Runs arbiter as an HTTP policy server.\nAgents and services call /v1/evaluate and /v1/review for decisions.\nSupports hot-reload of the profile file.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(serveVerbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gov, prof, err := newGovernor(ctx, serveProfile, logger)
	if err != nil {
		return err
	}

	reseed := func() error {
		p, err := profile.LoadFile(serveProfile)
		if err != nil {
			return err
		}
		gov.ReplaceFoundation(p.Foundation)
		return nil
	}

	srv := server.New(gov, server.Config{Port: servePort, ProfilePath: serveProfile}, logger, reseed)

	reloader, err := server.NewReloader(srv, []string{serveProfile}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("hot-reload disabled")
	} else {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info().Msg("shutting down")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().
		Int("port", servePort).
		Str("profile", prof.Name).
		Msg("arbiter governance server starting")

	if err := srv.Serve(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
