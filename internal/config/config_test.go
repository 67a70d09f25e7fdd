package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Fetch.OutputFile != defaultOutputFile {
		t.Errorf("OutputFile = %q, want %q", cfg.Fetch.OutputFile, defaultOutputFile)
	}
	if cfg.Download.MinValidBytes != defaultMinValidBytes {
		t.Errorf("MinValidBytes = %d, want %d", cfg.Download.MinValidBytes, defaultMinValidBytes)
	}
	if cfg.Watcher.Interval != defaultWatchInterval {
		t.Errorf("Interval = %d, want %d", cfg.Watcher.Interval, defaultWatchInterval)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
storage_dir = "` + dir + `/data"

[api]
media_endpoint = "http://backend:8080/api/v1/mediafile"
base_url = "http://backend:8080/"
request_timeout = 0

[download]
sub_dir = "/vr360/"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.API.RequestTimeout != defaultRequestTimeout {
		t.Errorf("RequestTimeout = %d, want default %d", cfg.API.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.Download.SubDir != "vr360" {
		t.Errorf("SubDir = %q, want trimmed %q", cfg.Download.SubDir, "vr360")
	}
	if !strings.HasSuffix(cfg.DownloadDir(), filepath.Join("data", "vr360")) {
		t.Errorf("DownloadDir = %q", cfg.DownloadDir())
	}
}

func TestLoadRejectsBadEndpoint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
media_endpoint = "ftp://backend/media"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for ftp scheme")
	}
}

func TestValidateRejectsPathyOutputFile(t *testing.T) {
	cfg := Default()
	cfg.Fetch.OutputFile = "../escape.json"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for path separators in output_file")
	}
}

func TestThumbBaseFallsBackToBaseURL(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "http://host/"
	if got := cfg.ThumbBase(); got != "http://host/" {
		t.Errorf("ThumbBase = %q", got)
	}
	cfg.API.ThumbBaseURL = "http://cdn/"
	if got := cfg.ThumbBase(); got != "http://cdn/" {
		t.Errorf("ThumbBase = %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	dir := t.TempDir()
	cfg.Paths.StorageDir = filepath.Join(dir, "store")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, p := range []string{cfg.DownloadDir(), cfg.ThumbCacheDir(), cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory at %q (err=%v)", p, err)
		}
	}
}
