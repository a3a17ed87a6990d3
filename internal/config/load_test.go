package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[browser]
port = 9333

[batch]
workers = 3
item_timeout = "90s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9333, cfg.Browser.Port)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, 90*time.Second, cfg.Batch.ItemTimeout)
	assert.Equal(t, "localhost:9333", cfg.Browser.Endpoint())
}

func TestLoad_MissingEnvVar(t *testing.T) {
	os.Unsetenv("NBPOD_MISSING_HOST")
	path := writeConfig(t, `
[browser]
host = "${NBPOD_MISSING_HOST}"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NBPOD_MISSING_HOST")

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"NBPOD_MISSING_HOST"}, cfgErr.Missing)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[browser]
port = 99999
`)

	_, err := Load(path)
	require.Error(t, err)
	if !strings.Contains(err.Error(), "browser.port") {
		t.Errorf("expected browser.port in error, got %v", err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Browser.Host)
	assert.Equal(t, 9222, cfg.Browser.Port)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, 800, cfg.Browser.ViewportHeight)
	assert.Equal(t, DefaultStartURL, cfg.Browser.StartURL)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigateTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Notebook.LoadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Publish.UploadTimeout)
	assert.Equal(t, 8192, cfg.Download.ChunkSize)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Batch.ItemTimeout)
	assert.Equal(t, DefaultReaderURL, cfg.Reader.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_TrueDefaultsCanBeDisabled(t *testing.T) {
	path := writeConfig(t, `
[publish]
enabled = false

[batch]
reuse_session = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Publish.Enabled)
	assert.False(t, cfg.Batch.ReuseSession)
	assert.True(t, cfg.Database.Enabled)
}

func TestLoadWithoutValidation(t *testing.T) {
	path := writeConfig(t, `
[browser]
port = 99999
`)

	cfg, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, 99999, cfg.Browser.Port)
}

func TestLoad_EnvVarDefault(t *testing.T) {
	os.Unsetenv("NBPOD_OPTIONAL_HOST")
	path := writeConfig(t, `
[browser]
host = "${NBPOD_OPTIONAL_HOST:-127.0.0.1}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Browser.Host)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.True(t, cfg.Publish.Enabled)
	assert.True(t, cfg.Batch.ReuseSession)
}
