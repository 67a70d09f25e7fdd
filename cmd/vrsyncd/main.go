// Command vrsyncd runs the sync daemon: periodic catalog syncs plus the
// streaming pointer watcher, under a single-instance lock.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"vrsync/internal/config"
	"vrsync/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, cleanup, err := bootstrap(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap daemon: %v", err)
	}
	defer cleanup()

	if err := d.Start(ctx); err != nil {
		log.Fatalf("start daemon: %v", err)
	}

	<-ctx.Done()
	logger.Info("vrsyncd shutting down", logging.String("component", "daemon"))
	d.Stop()
}
