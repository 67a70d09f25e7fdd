package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vrsync/internal/catalog"
	"vrsync/internal/client"
	"vrsync/internal/config"
	"vrsync/internal/download"
	"vrsync/internal/event"
	"vrsync/internal/logging"
	"vrsync/internal/services"
	"vrsync/internal/store"
)

// Syncer runs the fetch, filter, persist, and download pipeline.
type Syncer struct {
	cfg     *config.Config
	fetcher client.Fetcher
	manager *download.Manager
	logger  *slog.Logger
}

// SyncResult summarizes one download pass.
type SyncResult struct {
	Requested  int
	Downloaded int
	Failed     int
}

// NewSyncer wires the pipeline. All dependencies are required.
func NewSyncer(cfg *config.Config, fetcher client.Fetcher, manager *download.Manager, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Syncer{
		cfg:     cfg,
		fetcher: fetcher,
		manager: manager,
		logger:  logging.NewComponentLogger(logger, "sync"),
	}
}

// FetchAndStore pulls the backend media list, filters it down to the
// relevant records, and persists the aggregate bundle. The filtered
// bundle is returned for further processing.
func (s *Syncer) FetchAndStore(ctx context.Context) (store.Bundle, error) {
	cat, err := s.fetcher.FetchCatalog(ctx)
	if err != nil {
		return store.Bundle{}, err
	}

	filtered := catalog.Filter(cat, catalog.Criteria{
		PathMarker:   s.cfg.Fetch.PathMarker,
		MimePrefix:   s.cfg.Fetch.MimePrefix,
		BaseURL:      s.cfg.API.BaseURL,
		ThumbBaseURL: s.cfg.ThumbBase(),
	})

	bundle := store.Bundle{Items: filtered}
	if err := store.Save(s.cfg.AggregatePath(), bundle); err != nil {
		return store.Bundle{}, err
	}
	logging.WithContext(ctx, s.logger).Info("catalog stored",
		logging.Int("fetched", len(cat)),
		logging.Int("kept", len(filtered)),
		logging.String("path", s.cfg.AggregatePath()))
	return bundle, nil
}

// Login resolves credentials against the session list, persists the
// session's media subset as a per-user bundle, and returns the session.
func (s *Syncer) Login(ctx context.Context, username, password string) (event.Session, store.Bundle, error) {
	sessions, err := s.fetcher.FetchSessions(ctx)
	if err != nil {
		return event.Session{}, store.Bundle{}, err
	}
	session, ok := event.ResolveLogin(sessions, username, password)
	if !ok {
		return event.Session{}, store.Bundle{}, services.Wrap(services.ErrNotFound, "sync", "login", "no session matches the supplied credentials", nil)
	}

	cat, err := s.fetcher.FetchCatalog(ctx)
	if err != nil {
		return event.Session{}, store.Bundle{}, err
	}
	subset := catalog.FilterByIDs(cat, session.VideoList, s.cfg.API.BaseURL, s.cfg.ThumbBase())

	bundle := store.Bundle{EventInfo: &session, Items: subset}
	path := s.cfg.UserBundlePath(session.Username)
	if err := store.Save(path, bundle); err != nil {
		return event.Session{}, store.Bundle{}, err
	}
	logging.WithContext(ctx, s.logger).Info("login resolved",
		logging.String("event_id", session.ID),
		logging.Int("videos", len(subset)),
		logging.String("path", path))
	return session, bundle, nil
}

// DownloadBundle ensures every record in the bundle has a local copy,
// thumbnails included. Failures are counted, logged, and do not stop
// the pass; maxPerRun of zero means no limit.
func (s *Syncer) DownloadBundle(ctx context.Context, bundle store.Bundle, maxPerRun int) SyncResult {
	result := SyncResult{Requested: len(bundle.Items)}
	for _, rec := range bundle.Items {
		if ctx.Err() != nil {
			break
		}
		if maxPerRun > 0 && result.Downloaded >= maxPerRun {
			break
		}
		if rec.ResolvedURL == "" {
			continue
		}

		key := download.KeyForID(rec.ID, rec.ResolvedURL)
		if _, err := s.manager.Ensure(ctx, s.cfg.DownloadDir(), key, rec.ResolvedURL); err != nil {
			result.Failed++
			s.logger.Warn("media download failed",
				logging.Error(err),
				logging.String("record_id", rec.ID),
				logging.String("url", rec.ResolvedURL))
			continue
		}
		result.Downloaded++

		if rec.ResolvedThumbnailURL != "" {
			thumbKey := download.KeyForURL(rec.ResolvedThumbnailURL)
			if _, err := s.manager.Ensure(ctx, s.cfg.ThumbCacheDir(), thumbKey, rec.ResolvedThumbnailURL); err != nil {
				s.logger.Warn("thumbnail download failed",
					logging.Error(err),
					logging.String("record_id", rec.ID))
			}
		}
	}
	return result
}

// EnsureIntro downloads the session intro asset when the session names
// one and the aggregate catalog can resolve it.
func (s *Syncer) EnsureIntro(ctx context.Context, session event.Session, bundle store.Bundle) (string, error) {
	if session.IntroID == "" {
		return "", nil
	}
	url := bundle.FindURLByID(session.IntroID)
	if url == "" {
		return "", services.Wrap(services.ErrNotFound, "sync", "ensure intro",
			fmt.Sprintf("intro record %q not in catalog", session.IntroID), nil)
	}
	return s.manager.Ensure(ctx, s.cfg.DownloadDir(), download.IntroKey(session.ID, url), url)
}

// EnsureStreaming fetches a local copy of the record the streaming
// pointer names, keyed like any other catalog download.
func (s *Syncer) EnsureStreaming(ctx context.Context, videoID, url string) (string, error) {
	if videoID == "" || url == "" {
		return "", services.Wrap(services.ErrDownload, "sync", "ensure streaming", "video id and url required", nil)
	}
	return s.manager.Ensure(ctx, s.cfg.DownloadDir(), download.KeyForID(videoID, url), url)
}

// LocalURLFor maps a record id to its local file, resolving through the
// supplied bundle. Empty when the catalog does not know the id or no
// file is on disk yet.
func (s *Syncer) LocalURLFor(bundle store.Bundle, id string) string {
	url := bundle.FindURLByID(id)
	if url == "" {
		return ""
	}
	path := filepath.Join(s.cfg.DownloadDir(), download.KeyForID(id, url))
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
