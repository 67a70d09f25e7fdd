package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vrsync/internal/daemon"
	"vrsync/internal/logging"
	"vrsync/internal/store"
	"vrsync/internal/watcher"
)

func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the sync daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := buildDaemon(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			runCtx, stop := signal.NotifyContext(commandCtx(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon running; press Ctrl+C to stop")

			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}
}

// buildDaemon assembles the daemon from the command context. The watcher
// is only wired when event endpoints are configured.
func buildDaemon(ctx *commandContext) (*daemon.Daemon, func(), error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	backend, err := ctx.newClient()
	if err != nil {
		return nil, nil, err
	}
	syncer, closer, err := ctx.newSyncer()
	if err != nil {
		return nil, nil, err
	}

	var w *watcher.Watcher
	if cfg.API.EventDetailEndpoint != "" {
		state, err := ctx.openState()
		if err != nil {
			closer()
			return nil, nil, err
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
				ctx.logger().Warn("streaming download failed",
					logging.Error(err),
					logging.String("video_id", videoID))
			}
		}
		w = watcher.New(backend, state, resolve, trigger,
			time.Duration(cfg.Watcher.Interval)*time.Second,
			time.Duration(cfg.Watcher.DetailTimeout)*time.Second,
			ctx.logger())
	}

	d, err := daemon.New(cfg, syncer, w, ctx.logger())
	if err != nil {
		closer()
		return nil, nil, err
	}
	return d, closer, nil
}
