package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vrsync/internal/catalog"
	"vrsync/internal/event"
	"vrsync/internal/logging"
	"vrsync/internal/services"
)

// maxResponseBytes caps how much of a backend response is read. Catalog
// payloads are small; anything past this is a misbehaving endpoint.
const maxResponseBytes = 32 << 20

// Fetcher is the backend surface the sync loop depends on.
type Fetcher interface {
	FetchCatalog(ctx context.Context) (catalog.Catalog, error)
	FetchSessions(ctx context.Context) ([]event.Session, error)
	FetchSessionDetail(ctx context.Context, eventID string) ([]byte, error)
}

// Client fetches catalog and session payloads from the backend.
type Client struct {
	mediaEndpoint       string
	eventEndpoint       string
	eventDetailEndpoint string
	httpClient          *http.Client
	logger              *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "client")
		}
	}
}

// New creates a backend client. The media endpoint is required; event
// endpoints may be empty when session features are unused.
func New(mediaEndpoint, eventEndpoint, eventDetailEndpoint string, timeout time.Duration, opts ...Option) (*Client, error) {
	mediaEndpoint = strings.TrimSpace(mediaEndpoint)
	if mediaEndpoint == "" {
		return nil, errors.New("media endpoint required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := &Client{
		mediaEndpoint:       mediaEndpoint,
		eventEndpoint:       strings.TrimSpace(eventEndpoint),
		eventDetailEndpoint: strings.TrimSpace(eventDetailEndpoint),
		httpClient:          &http.Client{Timeout: timeout},
		logger:              logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchCatalog retrieves the media list and parses it into records. A
// payload that defeats every parser strategy yields an empty catalog,
// not an error.
func (c *Client) FetchCatalog(ctx context.Context) (catalog.Catalog, error) {
	raw, err := c.get(ctx, c.mediaEndpoint, "fetch media list")
	if err != nil {
		return nil, err
	}
	cat := catalog.Parse(raw)
	c.logger.Info("media list fetched",
		logging.Int("records", len(cat)),
		logging.Int("bytes", len(raw)))
	return cat, nil
}

// FetchSessions retrieves the full session list.
func (c *Client) FetchSessions(ctx context.Context) ([]event.Session, error) {
	if c.eventEndpoint == "" {
		return nil, services.Wrap(services.ErrFetch, "client", "fetch sessions", "event endpoint not configured", nil)
	}
	raw, err := c.get(ctx, c.eventEndpoint, "fetch sessions")
	if err != nil {
		return nil, err
	}
	sessions := event.ParseSessions(raw)
	c.logger.Info("session list fetched", logging.Int("sessions", len(sessions)))
	return sessions, nil
}

// FetchSessionDetail retrieves the raw detail payload for one session.
// Callers extract the streaming pointer structurally, so the body is
// returned undecoded.
func (c *Client) FetchSessionDetail(ctx context.Context, eventID string) ([]byte, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, services.Wrap(services.ErrFetch, "client", "fetch session detail", "event id required", nil)
	}
	if c.eventDetailEndpoint == "" {
		return nil, services.Wrap(services.ErrFetch, "client", "fetch session detail", "event detail endpoint not configured", nil)
	}
	return c.get(ctx, joinEndpoint(c.eventDetailEndpoint, eventID), "fetch session detail")
}

func (c *Client) get(ctx context.Context, url, operation string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "client", operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "client", operation, fmt.Sprintf("request timed out after %v", latency), err)
		}
		return nil, services.Wrap(services.ErrFetch, "client", operation, "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrFetch, "client", operation,
			fmt.Sprintf("backend returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "client", operation, "read response body", err)
	}
	c.logger.Debug("request complete",
		logging.String("url", url),
		logging.Duration("latency", latency),
		logging.Int("bytes", len(body)))
	return body, nil
}

func joinEndpoint(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(segment, "/")
}
