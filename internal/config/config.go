// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// MinViewportWidth is the narrowest window the notebook tool still renders
// with its three-column layout.
const MinViewportWidth = 1261

// Config is the root configuration structure.
type Config struct {
	Browser  BrowserConfig  `toml:"browser"`
	Notebook NotebookConfig `toml:"notebook"`
	Publish  PublishConfig  `toml:"publish"`
	Download DownloadConfig `toml:"download"`
	Batch    BatchConfig    `toml:"batch"`
	Reader   ReaderConfig   `toml:"reader"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

type BrowserConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ViewportWidth   int           `toml:"viewport_width"`
	ViewportHeight  int           `toml:"viewport_height"`
	StartURL        string        `toml:"start_url"`
	NavigateTimeout time.Duration `toml:"navigate_timeout"`
}

// Endpoint returns the host:port pair of the DevTools endpoint.
func (b BrowserConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", b.Host, b.Port)
}

type NotebookConfig struct {
	Locale                 string        `toml:"locale"` // auto, en, ja
	ElementTimeout         time.Duration `toml:"element_timeout"`
	SpinnerTimeout         time.Duration `toml:"spinner_timeout"`
	LoadTimeout            time.Duration `toml:"load_timeout"`
	PlayerTimeout          time.Duration `toml:"player_timeout"`
	SettleDelay            time.Duration `toml:"settle_delay"`
	GenerateConfirmTimeout time.Duration `toml:"generate_confirm_timeout"`
}

type PublishConfig struct {
	Enabled       bool          `toml:"enabled"`
	WizardURL     string        `toml:"wizard_url"`
	UploadTimeout time.Duration `toml:"upload_timeout"`
	StepTimeout   time.Duration `toml:"step_timeout"`
}

type DownloadConfig struct {
	OutputDir string `toml:"output_dir"` // empty: per-run temp directory
	ChunkSize int    `toml:"chunk_size"`
	UserAgent string `toml:"user_agent"`
}

type BatchConfig struct {
	Workers      int           `toml:"workers"`
	ItemTimeout  time.Duration `toml:"item_timeout"`
	ReuseSession bool          `toml:"reuse_session"`
	// StartInterval spaces out tab opens when workers > 1. Zero disables.
	StartInterval time.Duration `toml:"start_interval"`
}

type ReaderConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

type DatabaseConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

const (
	DefaultStartURL  = "https://notebooklm.google.com/"
	DefaultWizardURL = "https://creators.spotify.com/pod/dashboard/episode/wizard"
	DefaultReaderURL = "https://r.jina.ai/"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Default returns a configuration with every default applied. It is used
// when no config file is found.
func Default() *Config {
	cfg := &Config{
		Publish:  PublishConfig{Enabled: true},
		Batch:    BatchConfig{ReuseSession: true},
		Database: DatabaseConfig{Enabled: true},
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration without
// validating it or failing on unresolved environment variables.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	// Booleans that default to true must be seeded before decoding.
	cfg := Config{
		Publish:  PublishConfig{Enabled: true},
		Batch:    BatchConfig{ReuseSession: true},
		Database: DatabaseConfig{Enabled: true},
	}
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, missing, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Browser.Host == "" {
		cfg.Browser.Host = "localhost"
	}
	if cfg.Browser.Port == 0 {
		cfg.Browser.Port = 9222
	}
	if cfg.Browser.ViewportWidth == 0 {
		cfg.Browser.ViewportWidth = 1280
	}
	if cfg.Browser.ViewportHeight == 0 {
		cfg.Browser.ViewportHeight = 800
	}
	if cfg.Browser.StartURL == "" {
		cfg.Browser.StartURL = DefaultStartURL
	}
	if cfg.Browser.NavigateTimeout == 0 {
		cfg.Browser.NavigateTimeout = 60 * time.Second
	}

	if cfg.Notebook.Locale == "" {
		cfg.Notebook.Locale = "auto"
	}
	if cfg.Notebook.ElementTimeout == 0 {
		cfg.Notebook.ElementTimeout = 10 * time.Second
	}
	if cfg.Notebook.SpinnerTimeout == 0 {
		cfg.Notebook.SpinnerTimeout = 30 * time.Second
	}
	if cfg.Notebook.LoadTimeout == 0 {
		cfg.Notebook.LoadTimeout = 2 * time.Minute
	}
	if cfg.Notebook.PlayerTimeout == 0 {
		cfg.Notebook.PlayerTimeout = 30 * time.Second
	}
	if cfg.Notebook.SettleDelay == 0 {
		cfg.Notebook.SettleDelay = 2 * time.Second
	}
	if cfg.Notebook.GenerateConfirmTimeout == 0 {
		cfg.Notebook.GenerateConfirmTimeout = 2 * time.Second
	}

	if cfg.Publish.WizardURL == "" {
		cfg.Publish.WizardURL = DefaultWizardURL
	}
	if cfg.Publish.UploadTimeout == 0 {
		cfg.Publish.UploadTimeout = 5 * time.Minute
	}
	if cfg.Publish.StepTimeout == 0 {
		cfg.Publish.StepTimeout = 30 * time.Second
	}

	if cfg.Download.ChunkSize == 0 {
		cfg.Download.ChunkSize = 8192
	}
	if cfg.Download.UserAgent == "" {
		cfg.Download.UserAgent = DefaultUserAgent
	}

	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = 1
	}
	if cfg.Batch.ItemTimeout == 0 {
		cfg.Batch.ItemTimeout = 5 * time.Minute
	}

	if cfg.Reader.BaseURL == "" {
		cfg.Reader.BaseURL = DefaultReaderURL
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// DefaultDatabasePath returns the XDG-compliant default history database path.
func DefaultDatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data/nbpod.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "nbpod", "nbpod.db")
}
