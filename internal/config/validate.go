package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLocales = map[string]bool{
	"auto": true, "en": true, "ja": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Browser
	if c.Browser.Port < 1 || c.Browser.Port > 65535 {
		errs = append(errs, fmt.Sprintf("browser.port: must be between 1 and 65535, got %d", c.Browser.Port))
	}
	if c.Browser.ViewportWidth < MinViewportWidth {
		errs = append(errs, fmt.Sprintf("browser.viewport_width: must be at least %d for the three-column layout, got %d", MinViewportWidth, c.Browser.ViewportWidth))
	}
	if c.Browser.ViewportHeight <= 0 {
		errs = append(errs, fmt.Sprintf("browser.viewport_height: must be positive, got %d", c.Browser.ViewportHeight))
	}
	if err := validateURL(c.Browser.StartURL); err != nil {
		errs = append(errs, fmt.Sprintf("browser.start_url: %v", err))
	}

	// Notebook
	if !validLocales[c.Notebook.Locale] {
		errs = append(errs, fmt.Sprintf("notebook.locale: must be one of auto, en, ja; got %q", c.Notebook.Locale))
	}

	// Publish
	if c.Publish.Enabled {
		if err := validateURL(c.Publish.WizardURL); err != nil {
			errs = append(errs, fmt.Sprintf("publish.wizard_url: %v", err))
		}
	}

	// Download
	if c.Download.ChunkSize < 512 {
		errs = append(errs, fmt.Sprintf("download.chunk_size: must be at least 512 bytes, got %d", c.Download.ChunkSize))
	}

	// Batch
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Sprintf("batch.workers: must be at least 1, got %d", c.Batch.Workers))
	}
	if c.Batch.ItemTimeout < 0 {
		errs = append(errs, "batch.item_timeout: must not be negative")
	}
	if c.Batch.StartInterval < 0 {
		errs = append(errs, "batch.start_interval: must not be negative")
	}

	// Reader
	if c.Reader.Enabled {
		if err := validateURL(c.Reader.BaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("reader.base_url: %v", err))
		}
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http(s) URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
