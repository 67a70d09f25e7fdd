package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"vrsync/internal/config"
	"vrsync/internal/logging"
	"vrsync/internal/watcher"
)

// Daemon enforces single-instance execution and owns the watcher plus the
// periodic full sync.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	syncer  *Syncer
	watcher *watcher.Watcher

	syncInterval time.Duration
	lockPath     string
	lock         *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	LockFilePath string
	StoragePath  string
}

// New constructs a daemon with initialized dependencies. The watcher may
// be nil when the deployment has no event endpoints configured.
func New(cfg *config.Config, syncer *Syncer, w *watcher.Watcher, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || syncer == nil {
		return nil, errors.New("daemon requires config and syncer")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	interval := time.Duration(cfg.Watcher.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	// Full syncs are much heavier than pointer polls; run them an order
	// of magnitude less often.
	syncInterval := interval * 12
	if syncInterval < time.Minute {
		syncInterval = time.Minute
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "vrsyncd.lock")
	return &Daemon{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "daemon"),
		syncer:       syncer,
		watcher:      w,
		syncInterval: syncInterval,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, runs an initial sync, and launches the
// watcher and the periodic sync loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another vrsync daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if d.watcher != nil {
		if err := d.watcher.Start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return fmt.Errorf("start watcher: %w", err)
		}
	}

	d.wg.Add(1)
	go d.syncLoop()

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.Duration("sync_interval", d.syncInterval))
	return nil
}

// Stop halts background work and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	d.wg.Wait()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		LockFilePath: d.lockPath,
		StoragePath:  d.cfg.Paths.StorageDir,
	}
}

func (d *Daemon) syncLoop() {
	defer d.wg.Done()

	d.syncOnce()

	ticker := time.NewTicker(d.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.syncOnce()
		}
	}
}

func (d *Daemon) syncOnce() {
	bundle, err := d.syncer.FetchAndStore(d.ctx)
	if err != nil {
		d.logger.Warn("catalog sync failed; will retry", logging.Error(err))
		return
	}
	result := d.syncer.DownloadBundle(d.ctx, bundle, d.cfg.Download.MaxPerRun)
	d.logger.Info("sync pass complete",
		logging.Int("requested", result.Requested),
		logging.Int("downloaded", result.Downloaded),
		logging.Int("failed", result.Failed))
}
