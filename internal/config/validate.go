package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration invariants that normalization cannot repair.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"api.media_endpoint":        c.API.MediaEndpoint,
		"api.event_endpoint":        c.API.EventEndpoint,
		"api.event_detail_endpoint": c.API.EventDetailEndpoint,
		"api.base_url":              c.API.BaseURL,
		"api.thumb_base_url":        c.API.ThumbBaseURL,
	} {
		if err := validateURLValue(name, value); err != nil {
			return err
		}
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}

	if strings.ContainsAny(c.Fetch.OutputFile, "/\\") {
		return fmt.Errorf("fetch.output_file: must be a bare file name, got %q", c.Fetch.OutputFile)
	}

	return nil
}

func validateURLValue(name, value string) error {
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q", name, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s: missing host in %q", name, value)
	}
	return nil
}
