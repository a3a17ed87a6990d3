package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// ErrExists is returned by WriteDefault when the file is already there.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes the example config to path, creating its directory.
// An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, defaultConfig); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes c as TOML, headed by a comment naming where it came from.
// Secrets from environment references are written resolved.
func (c *Config) Encode(w io.Writer, source string) error {
	if source == "" {
		source = "built-in defaults"
	}
	if _, err := fmt.Fprintf(w, "# Effective nbpod configuration (from %s)\n\n", source); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(c)
}
