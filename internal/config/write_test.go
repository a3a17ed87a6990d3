package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nbpod", "config.toml")

	err := WriteDefault(path, false)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	assert.Contains(t, string(content), "[browser]")
	assert.Contains(t, string(content), "[publish]")
	assert.Contains(t, string(content), "${NBPOD_BROWSER_HOST:-localhost}")
}

func TestWriteDefault_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[browser]\nport = 9300\n"), 0644))

	err := WriteDefault(path, false)
	require.ErrorIs(t, err, ErrExists)
	assert.Contains(t, err.Error(), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[browser]\nport = 9300\n", string(content))

	require.NoError(t, WriteDefault(path, true))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[publish]")
}

func TestWriteDefault_Loads(t *testing.T) {
	os.Unsetenv("NBPOD_BROWSER_HOST")
	os.Unsetenv("NBPOD_DB")
	t.Setenv("XDG_DATA_HOME", "/tmp/nbpod-data")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Browser.Host)
	assert.Equal(t, "/tmp/nbpod-data/nbpod/nbpod.db", cfg.Database.Path)
	assert.True(t, cfg.Publish.Enabled)
}

func TestConfig_Encode(t *testing.T) {
	cfg := Default()
	cfg.Browser.Host = "127.0.0.1"
	cfg.Browser.Port = 9300

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf, ""))

	assert.Contains(t, buf.String(), "# Effective nbpod configuration (from built-in defaults)")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", loaded.Browser.Host)
	assert.Equal(t, 9300, loaded.Browser.Port)

	var decoded Config
	_, err = toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, cfg.Publish.WizardURL, decoded.Publish.WizardURL)
}
