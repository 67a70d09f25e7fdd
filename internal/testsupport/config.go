// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"vrsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorageDir = filepath.Join(base, "store")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.API.MediaEndpoint = "http://backend:8080/api/v1/mediafile"
	cfg.API.BaseURL = "http://backend:8080/"
	cfg.Journal.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBackend points the config at a live test server.
func WithBackend(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.API.MediaEndpoint = baseURL + "/api/v1/mediafile"
		cfg.API.EventEndpoint = baseURL + "/api/v1/event"
		cfg.API.EventDetailEndpoint = baseURL + "/api/v1/event"
		cfg.API.BaseURL = baseURL + "/"
	}
}

// WithJournal enables the download ledger on the test config.
func WithJournal() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Journal.Enabled = true
	}
}
