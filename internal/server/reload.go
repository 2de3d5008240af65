package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Reloader watches the profile file for changes and triggers a reseed
// of the governor's weight table.
type Reloader struct {
	watcher *fsnotify.Watcher
	server  *Server
	logger  zerolog.Logger
}

// NewReloader creates a file watcher for the given paths. Empty or
// missing paths are skipped.
func NewReloader(server *Server, paths []string, logger zerolog.Logger) (*Reloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	watched := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", p, err)
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return nil, fmt.Errorf("no watchable profile paths")
	}

	return &Reloader{
		watcher: watcher,
		server:  server,
		logger:  logger.With().Str("component", "reload").Logger(),
	}, nil
}

// Run watches for file changes and reloads the profile. Blocks until
// ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	// Debounce: wait 500ms after the last write before reloading
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := r.server.ReloadProfile(); err != nil {
						r.logger.Warn().Err(err).Msg("hot-reload failed")
					} else {
						r.logger.Info().Msg("profile reloaded")
					}
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}
