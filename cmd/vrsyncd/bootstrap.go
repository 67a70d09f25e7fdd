package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vrsync/internal/appstate"
	"vrsync/internal/client"
	"vrsync/internal/config"
	"vrsync/internal/daemon"
	"vrsync/internal/download"
	"vrsync/internal/journal"
	"vrsync/internal/logging"
	"vrsync/internal/store"
	"vrsync/internal/watcher"
)

// bootstrap wires every daemon dependency from configuration. The
// returned cleanup releases the journal handle.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, func(), error) {
	backend, err := client.New(
		cfg.API.MediaEndpoint,
		cfg.API.EventEndpoint,
		cfg.API.EventDetailEndpoint,
		time.Duration(cfg.API.RequestTimeout)*time.Second,
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build client: %w", err)
	}

	cleanup := func() {}
	opts := []download.Option{download.WithLogger(logger)}
	if cfg.Journal.Enabled {
		ledger, err := journal.Open(cfg.JournalPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		opts = append(opts, download.WithLedger(ledger))
		cleanup = func() { _ = ledger.Close() }
	}
	manager := download.NewManager(
		time.Duration(cfg.Download.Timeout)*time.Second,
		cfg.Download.MinValidBytes,
		opts...,
	)
	syncer := daemon.NewSyncer(cfg, backend, manager, logger)

	var w *watcher.Watcher
	if cfg.API.EventDetailEndpoint != "" {
		state, err := appstate.Open(cfg.StatePath())
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open state store: %w", err)
		}
		resolve := func(videoID string) string {
			bundle, err := store.Load(cfg.AggregatePath())
			if err != nil {
				return ""
			}
			return bundle.FindURLByID(videoID)
		}
		// A moved pointer pulls its target down ahead of the next full
		// sync pass so playback can start from the local copy.
		trigger := func(tctx context.Context, videoID, url string) {
			if _, err := syncer.EnsureStreaming(tctx, videoID, url); err != nil {
				logger.Warn("streaming download failed",
					logging.Error(err),
					logging.String("video_id", videoID))
			}
		}
		w = watcher.New(backend, state, resolve, trigger,
			time.Duration(cfg.Watcher.Interval)*time.Second,
			time.Duration(cfg.Watcher.DetailTimeout)*time.Second,
			logger)
	}

	d, err := daemon.New(cfg, syncer, w, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("build daemon: %w", err)
	}
	return d, cleanup, nil
}
