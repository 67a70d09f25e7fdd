package watcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"vrsync/internal/appstate"
	"vrsync/internal/event"
	"vrsync/internal/logging"
)

// Detailer fetches the raw detail payload for one session.
type Detailer interface {
	FetchSessionDetail(ctx context.Context, eventID string) ([]byte, error)
}

// ResolveFunc maps a streaming video id to a playable URL. Empty means
// the id is unknown locally.
type ResolveFunc func(videoID string) string

// TriggerFunc runs when the streaming pointer settles on a new resolvable
// video. It is called at most once per pointer value.
type TriggerFunc func(ctx context.Context, videoID, url string)

// Watcher owns the poll loop. Start and Stop bracket its lifetime.
type Watcher struct {
	fetcher  Detailer
	state    *appstate.Store
	resolve  ResolveFunc
	onChange TriggerFunc
	logger   *slog.Logger

	pollInterval  time.Duration
	detailTimeout time.Duration

	mu              sync.Mutex
	running         bool
	lastEventID     string
	lastStreamingID string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher. The fetcher and state store are required;
// resolve and onChange may be nil when only pointer persistence matters.
func New(fetcher Detailer, state *appstate.Store, resolve ResolveFunc, onChange TriggerFunc, pollInterval, detailTimeout time.Duration, logger *slog.Logger) *Watcher {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if detailTimeout <= 0 {
		detailTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		fetcher:       fetcher,
		state:         state,
		resolve:       resolve,
		onChange:      onChange,
		logger:        logging.NewComponentLogger(logger, "watcher"),
		pollInterval:  pollInterval,
		detailTimeout: detailTimeout,
	}
}

// Start launches the poll loop. The first poll runs immediately.
func (w *Watcher) Start(ctx context.Context) error {
	if w == nil || w.fetcher == nil || w.state == nil {
		return errors.New("watcher unavailable")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.ctx = runCtx
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop cancels the loop and waits for the current tick to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	w.poll(w.ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.poll(w.ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	if ctx == nil || ctx.Err() != nil {
		return
	}

	eventID := w.state.EventID()
	if eventID == "" {
		w.mu.Lock()
		w.lastEventID = ""
		w.lastStreamingID = ""
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	if eventID != w.lastEventID {
		// New session: forget the old pointer so its first value fires.
		w.lastEventID = eventID
		w.lastStreamingID = ""
	}
	w.mu.Unlock()

	detailCtx, cancel := context.WithTimeout(ctx, w.detailTimeout)
	defer cancel()

	raw, err := w.fetcher.FetchSessionDetail(detailCtx, eventID)
	if err != nil {
		w.logger.Warn("session detail fetch failed; will retry",
			logging.Error(err),
			logging.String("event_id", eventID))
		return
	}

	pointer := event.ExtractStreamingID(raw)

	w.mu.Lock()
	if pointer == w.lastStreamingID {
		w.mu.Unlock()
		return
	}
	// Mark the pointer seen before acting on it. A pointer that fails to
	// resolve is not retried until the backend moves it again.
	w.lastStreamingID = pointer
	w.mu.Unlock()

	if err := w.state.SetStreamingVideoID(pointer); err != nil {
		w.logger.Warn("streaming pointer persist failed",
			logging.Error(err),
			logging.String("video_id", pointer))
	}

	if pointer == "" {
		w.logger.Info("streaming pointer cleared", logging.String("event_id", eventID))
		return
	}

	var url string
	if w.resolve != nil {
		url = w.resolve(pointer)
	}
	if url == "" {
		w.logger.Warn("streaming pointer does not resolve locally",
			logging.String("video_id", pointer),
			logging.String("event_id", eventID))
		return
	}

	w.logger.Info("streaming pointer moved",
		logging.String("video_id", pointer),
		logging.String("url", url))
	if w.onChange != nil {
		w.onChange(ctx, pointer, url)
	}
}
