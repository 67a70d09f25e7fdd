package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"vrsync/internal/textutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StorageDir string `toml:"storage_dir"`
	LogDir     string `toml:"log_dir"`
}

// API contains backend endpoint configuration. The backend's response
// shapes are not contractually stable; only URLs and timeouts live here.
type API struct {
	MediaEndpoint       string `toml:"media_endpoint"`
	EventEndpoint       string `toml:"event_endpoint"`
	EventDetailEndpoint string `toml:"event_detail_endpoint"`
	BaseURL             string `toml:"base_url"`
	ThumbBaseURL        string `toml:"thumb_base_url"`
	RequestTimeout      int    `toml:"request_timeout"`
}

// Fetch contains catalog fetch and filter configuration.
type Fetch struct {
	OutputFile string `toml:"output_file"`
	PathMarker string `toml:"path_marker"`
	MimePrefix string `toml:"mime_prefix"`
}

// Download contains content-addressable download configuration.
type Download struct {
	SubDir        string `toml:"sub_dir"`
	ThumbDir      string `toml:"thumb_dir"`
	Timeout       int    `toml:"timeout"`
	MinValidBytes int64  `toml:"min_valid_bytes"`
	MaxPerRun     int    `toml:"max_per_run"`
}

// Watcher contains polling loop configuration.
type Watcher struct {
	Interval      int `toml:"interval"`
	DetailTimeout int `toml:"detail_timeout"`
}

// Journal contains configuration for the download ledger.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <storage_dir>/journal.db
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vrsync.
//
// Configuration sections by subsystem:
//   - Paths: storage root for bundles/downloads and the log directory
//   - API: backend endpoints and base URLs for relative path resolution
//   - Fetch: aggregate bundle file name and filter criteria
//   - Download: local layout, timeouts, and the minimum plausible file size
//   - Watcher: streaming-pointer poll interval and per-tick timeout
//   - Journal: sqlite transfer ledger
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	API      API      `toml:"api"`
	Fetch    Fetch    `toml:"fetch"`
	Download Download `toml:"download"`
	Watcher  Watcher  `toml:"watcher"`
	Journal  Journal  `toml:"journal"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vrsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vrsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for operation: the storage
// root, the download and thumbnail subdirectories, and the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.StorageDir,
		c.DownloadDir(),
		c.ThumbCacheDir(),
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DownloadDir returns the directory media downloads are written to.
func (c *Config) DownloadDir() string {
	return filepath.Join(c.Paths.StorageDir, c.Download.SubDir)
}

// ThumbCacheDir returns the thumbnail cache directory.
func (c *Config) ThumbCacheDir() string {
	return filepath.Join(c.Paths.StorageDir, c.Download.ThumbDir)
}

// AggregatePath returns the path of the primary aggregate catalog file.
func (c *Config) AggregatePath() string {
	return filepath.Join(c.Paths.StorageDir, c.Fetch.OutputFile)
}

// UserBundlePath returns the path of the per-user session bundle. The
// username is sanitized so arbitrary login input cannot escape the
// storage directory.
func (c *Config) UserBundlePath(username string) string {
	return filepath.Join(c.Paths.StorageDir, textutil.SanitizeToken(username)+".json")
}

// StatePath returns the path of the persisted application state file.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.StorageDir, "config.json")
}

// JournalPath returns the resolved path of the download journal database.
func (c *Config) JournalPath() string {
	if strings.TrimSpace(c.Journal.Path) != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Paths.StorageDir, "journal.db")
}

// ThumbBase returns the base URL used for thumbnail resolution, falling
// back to the media base URL when unset.
func (c *Config) ThumbBase() string {
	if strings.TrimSpace(c.API.ThumbBaseURL) != "" {
		return c.API.ThumbBaseURL
	}
	return c.API.BaseURL
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
