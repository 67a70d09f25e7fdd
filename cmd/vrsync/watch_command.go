package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vrsync/internal/store"
	"vrsync/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the streaming pointer until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			backend, err := ctx.newClient()
			if err != nil {
				return err
			}
			state, err := ctx.openState()
			if err != nil {
				return err
			}
			syncer, closer, err := ctx.newSyncer()
			if err != nil {
				return err
			}
			defer closer()

			out := cmd.OutOrStdout()
			resolve := func(videoID string) string {
				bundle, err := store.Load(cfg.AggregatePath())
				if err != nil {
					return ""
				}
				return bundle.FindURLByID(videoID)
			}
			onChange := func(_ context.Context, videoID, url string) {
				fmt.Fprintf(out, "Streaming video changed: %s -> %s\n", videoID, url)
				if bundle, err := store.Load(cfg.AggregatePath()); err == nil {
					if local := syncer.LocalURLFor(bundle, videoID); local != "" {
						fmt.Fprintf(out, "Local copy: %s\n", local)
					}
				}
			}

			w := watcher.New(backend, state, resolve, onChange,
				time.Duration(cfg.Watcher.Interval)*time.Second,
				time.Duration(cfg.Watcher.DetailTimeout)*time.Second,
				ctx.logger())

			runCtx, stop := signal.NotifyContext(commandCtx(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := w.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching session %s (interval %ds); press Ctrl+C to stop\n",
				orNone(state.EventID()), cfg.Watcher.Interval)

			<-runCtx.Done()
			w.Stop()
			fmt.Fprintln(out, "Watch stopped")
			return nil
		},
	}
}
