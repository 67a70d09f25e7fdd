package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"vrsync/internal/journal"
	"vrsync/internal/logging"
	"vrsync/internal/services"
)

const partSuffix = ".part"

// Ledger is the journal surface the manager records attempts to. Journal
// failures never fail a download.
type Ledger interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// Manager downloads media into a directory tree. Safe for concurrent use.
type Manager struct {
	httpClient    *http.Client
	minValidBytes int64
	logger        *slog.Logger
	ledger        Ledger

	mu       sync.Mutex
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	path string
	err  error
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithLogger attaches a logger for transfer diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logging.NewComponentLogger(logger, "download")
		}
	}
}

// WithLedger attaches a journal for best-effort attempt recording.
func WithLedger(ledger Ledger) Option {
	return func(m *Manager) {
		m.ledger = ledger
	}
}

// NewManager creates a download manager. Files smaller than
// minValidBytes are treated as absent and refetched.
func NewManager(timeout time.Duration, minValidBytes int64, opts ...Option) *Manager {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if minValidBytes <= 0 {
		minValidBytes = 1024
	}
	m := &Manager{
		httpClient:    &http.Client{Timeout: timeout},
		minValidBytes: minValidBytes,
		logger:        logging.NewNop(),
		inflight:      make(map[string]*call),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ensure makes sure the file named key exists under dir with the content
// at url, returning the final local path. A file already present and at
// least the minimum valid size is returned without touching the network.
// Concurrent calls for the same destination share one transfer.
func (m *Manager) Ensure(ctx context.Context, dir, key, url string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", services.Wrap(services.ErrDownload, "download", "ensure file", fmt.Sprintf("invalid file key %q", key), nil)
	}
	if url == "" {
		return "", services.Wrap(services.ErrDownload, "download", "ensure file", "url required", nil)
	}
	finalPath := filepath.Join(dir, key)

	m.mu.Lock()
	if existing, ok := m.inflight[finalPath]; ok {
		m.mu.Unlock()
		select {
		case <-existing.done:
			return existing.path, existing.err
		case <-ctx.Done():
			return "", services.Wrap(services.ErrDownload, "download", "ensure file", "canceled while waiting for in-flight transfer", ctx.Err())
		}
	}
	c := &call{done: make(chan struct{})}
	m.inflight[finalPath] = c
	m.mu.Unlock()

	c.path, c.err = m.fetch(ctx, finalPath, key, url)

	m.mu.Lock()
	delete(m.inflight, finalPath)
	m.mu.Unlock()
	close(c.done)

	return c.path, c.err
}

func (m *Manager) fetch(ctx context.Context, finalPath, key, url string) (string, error) {
	if info, err := os.Stat(finalPath); err == nil && info.Size() >= m.minValidBytes {
		m.logger.Debug("file already present",
			logging.String("key", key),
			logging.Int64("bytes", info.Size()))
		m.journal(ctx, journal.Entry{Key: key, URL: url, LocalPath: finalPath, Outcome: journal.OutcomeSkipped, SizeBytes: info.Size()})
		return finalPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return "", services.Wrap(services.ErrIO, "download", "ensure file", "create download directory", err)
	}

	partPath := finalPath + partSuffix
	// A leftover .part from a crashed run is stale by definition.
	_ = os.Remove(partPath)

	size, err := m.transfer(ctx, partPath, url)
	if err != nil {
		_ = os.Remove(partPath)
		m.journal(ctx, journal.Entry{Key: key, URL: url, Outcome: journal.OutcomeFailed, Detail: err.Error()})
		return "", err
	}
	if size < m.minValidBytes {
		_ = os.Remove(partPath)
		err := services.Wrap(services.ErrDownload, "download", "ensure file",
			fmt.Sprintf("transfer produced %d bytes, below the %d byte minimum", size, m.minValidBytes), nil)
		m.journal(ctx, journal.Entry{Key: key, URL: url, Outcome: journal.OutcomeFailed, Detail: err.Error()})
		return "", err
	}

	// Replace any undersized or stale final file in one step.
	_ = os.Remove(finalPath)
	if err := os.Rename(partPath, finalPath); err != nil {
		_ = os.Remove(partPath)
		wrapped := services.Wrap(services.ErrIO, "download", "ensure file", "finalize staged file", err)
		m.journal(ctx, journal.Entry{Key: key, URL: url, Outcome: journal.OutcomeFailed, Detail: wrapped.Error()})
		return "", wrapped
	}

	m.logger.Info("file downloaded",
		logging.String("key", key),
		logging.Int64("bytes", size))
	m.journal(ctx, journal.Entry{Key: key, URL: url, LocalPath: finalPath, Outcome: journal.OutcomeCompleted, SizeBytes: size})
	return finalPath, nil
}

func (m *Manager) transfer(ctx context.Context, partPath, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrDownload, "download", "transfer", "build request", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, services.Wrap(services.ErrTimeout, "download", "transfer", "request timed out", err)
		}
		return 0, services.Wrap(services.ErrDownload, "download", "transfer", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, services.Wrap(services.ErrDownload, "download", "transfer",
			fmt.Sprintf("source returned %d", resp.StatusCode), nil)
	}

	out, err := os.Create(partPath)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, "download", "transfer", "create staging file", err)
	}

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		return written, services.Wrap(services.ErrDownload, "download", "transfer", "copy response body", copyErr)
	}
	if closeErr != nil {
		return written, services.Wrap(services.ErrIO, "download", "transfer", "close staging file", closeErr)
	}
	return written, nil
}

func (m *Manager) journal(ctx context.Context, entry journal.Entry) {
	if m.ledger == nil {
		return
	}
	if err := m.ledger.Record(ctx, entry); err != nil {
		m.logger.Warn("journal write failed", logging.Error(err))
	}
}
