package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeFetch()
	c.normalizeDownload()
	c.normalizeWatcher()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StorageDir) == "" {
		c.Paths.StorageDir = defaultStorageDir
	}
	if c.Paths.StorageDir, err = expandPath(c.Paths.StorageDir); err != nil {
		return fmt.Errorf("paths.storage_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.MediaEndpoint = strings.TrimSpace(c.API.MediaEndpoint)
	c.API.EventEndpoint = strings.TrimSpace(c.API.EventEndpoint)
	c.API.EventDetailEndpoint = strings.TrimSpace(c.API.EventDetailEndpoint)
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	c.API.ThumbBaseURL = strings.TrimSpace(c.API.ThumbBaseURL)
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeFetch() {
	c.Fetch.OutputFile = strings.TrimSpace(c.Fetch.OutputFile)
	if c.Fetch.OutputFile == "" {
		c.Fetch.OutputFile = defaultOutputFile
	}
	c.Fetch.PathMarker = strings.TrimSpace(c.Fetch.PathMarker)
	c.Fetch.MimePrefix = strings.TrimSpace(c.Fetch.MimePrefix)
}

func (c *Config) normalizeDownload() {
	c.Download.SubDir = strings.Trim(strings.TrimSpace(c.Download.SubDir), "/")
	if c.Download.SubDir == "" {
		c.Download.SubDir = defaultDownloadSubDir
	}
	c.Download.ThumbDir = strings.Trim(strings.TrimSpace(c.Download.ThumbDir), "/")
	if c.Download.ThumbDir == "" {
		c.Download.ThumbDir = defaultThumbDir
	}
	if c.Download.Timeout <= 0 {
		c.Download.Timeout = defaultDownloadTime
	}
	if c.Download.MinValidBytes <= 0 {
		c.Download.MinValidBytes = defaultMinValidBytes
	}
	if c.Download.MaxPerRun < 0 {
		c.Download.MaxPerRun = 0
	}
}

func (c *Config) normalizeWatcher() {
	if c.Watcher.Interval <= 0 {
		c.Watcher.Interval = defaultWatchInterval
	}
	if c.Watcher.DetailTimeout <= 0 {
		c.Watcher.DetailTimeout = defaultDetailTimeout
	}
}

func (c *Config) normalizeJournal() error {
	c.Journal.Path = strings.TrimSpace(c.Journal.Path)
	if c.Journal.Path != "" {
		expanded, err := expandPath(c.Journal.Path)
		if err != nil {
			return fmt.Errorf("journal.path: %w", err)
		}
		c.Journal.Path = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
