package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vrsync/internal/appstate"
	"vrsync/internal/client"
	"vrsync/internal/config"
	"vrsync/internal/daemon"
	"vrsync/internal/download"
	"vrsync/internal/journal"
	"vrsync/internal/logging"
	"vrsync/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		c.log = logger
	})
	return c.log
}

func (c *commandContext) newClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return client.New(
		cfg.API.MediaEndpoint,
		cfg.API.EventEndpoint,
		cfg.API.EventDetailEndpoint,
		time.Duration(cfg.API.RequestTimeout)*time.Second,
		client.WithLogger(c.logger()),
	)
}

// newSyncer builds the full pipeline. The returned closer releases the
// journal when one was opened.
func (c *commandContext) newSyncer() (*daemon.Syncer, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	backend, err := c.newClient()
	if err != nil {
		return nil, nil, err
	}

	closer := func() {}
	opts := []download.Option{download.WithLogger(c.logger())}
	if cfg.Journal.Enabled {
		ledger, err := journal.Open(cfg.JournalPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		opts = append(opts, download.WithLedger(ledger))
		closer = func() { _ = ledger.Close() }
	}
	manager := download.NewManager(
		time.Duration(cfg.Download.Timeout)*time.Second,
		cfg.Download.MinValidBytes,
		opts...,
	)
	return daemon.NewSyncer(cfg, backend, manager, c.logger()), closer, nil
}

func (c *commandContext) openState() (*appstate.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return appstate.Open(cfg.StatePath())
}

func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return journal.Open(cfg.JournalPath())
}

// commandCtx tags the cobra context with a correlation id and the
// command name so log lines from one invocation can be grouped.
func commandCtx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	return services.WithOperation(ctx, cmd.Name())
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
