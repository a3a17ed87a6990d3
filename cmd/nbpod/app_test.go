package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/nbpod/internal/config"
	"github.com/vmunix/nbpod/internal/migrations"
	"github.com/vmunix/nbpod/internal/runs"
	"github.com/vmunix/nbpod/internal/urls"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addURLFlags(cmd)
	cmd.Flags().Bool("no-publish", false, "")
	cmd.Flags().StringP("output", "o", "", "")
	cmd.Flags().IntP("workers", "w", 1, "")
	cmd.Flags().Duration("timeout", 5*time.Minute, "")
	return cmd
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestApplyFlagOverrides(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9333", "--no-publish", "-o", "/tmp/audio", "-w", "3", "--timeout", "2m"}))

	cfg := config.Default()
	applyFlagOverrides(cmd, cfg)

	assert.Equal(t, 9333, cfg.Browser.Port)
	assert.False(t, cfg.Publish.Enabled)
	assert.Equal(t, "/tmp/audio", cfg.Download.OutputDir)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Batch.ItemTimeout)
}

func TestApplyFlagOverrides_UnsetFlagsKeepConfig(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg := config.Default()
	want := *cfg
	applyFlagOverrides(cmd, cfg)

	assert.Equal(t, want, *cfg)
}

func TestReadURLs_FlagWins(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"-u", "https://a.example, https://b.example"}))

	var prompt bytes.Buffer
	list, err := readURLs(cmd, []string{"ignored.txt"}, strings.NewReader("https://c.example\n"), true, &prompt)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, list)
	assert.Empty(t, prompt.String())
}

func TestReadURLs_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://a.example\n\nhttps://b.example\n"), 0644))

	var prompt bytes.Buffer
	list, err := readURLs(newTestCmd(), []string{path}, nil, false, &prompt)

	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Contains(t, prompt.String(), "Read 2 URLs from file")
}

func TestReadURLs_InteractiveStdin(t *testing.T) {
	var prompt bytes.Buffer
	list, err := readURLs(newTestCmd(), nil, strings.NewReader("https://a.example\n  \nhttps://b.example\n"), true, &prompt)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, list)
	assert.Contains(t, prompt.String(), "=== URL Input Mode ===")
	assert.Contains(t, prompt.String(), "Added URL #2: https://b.example")
	assert.Contains(t, prompt.String(), "Total URLs entered: 2")
}

func TestReadURLs_PipedStdinIsSilent(t *testing.T) {
	var prompt bytes.Buffer
	list, err := readURLs(newTestCmd(), nil, strings.NewReader("https://a.example\n"), false, &prompt)

	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Empty(t, prompt.String())
}

func TestReadURLs_Empty(t *testing.T) {
	_, err := readURLs(newTestCmd(), nil, strings.NewReader("\n\n"), false, &bytes.Buffer{})
	assert.ErrorIs(t, err, urls.ErrNoURLs)
}

func TestLogTransitions(t *testing.T) {
	db, err := migrations.Open(filepath.Join(t.TempDir(), "nbpod.db"))
	require.NoError(t, err)
	defer db.Close()
	store := runs.NewStore(db)

	var buf bytes.Buffer
	logTransitions(store, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, items, err := store.Start(runs.KindPublish, []string{"https://notebook/1"})
	require.NoError(t, err)
	require.NoError(t, store.Transition(items[0], runs.StatusDownloading))

	assert.Contains(t, buf.String(), "item status changed")
	assert.Contains(t, buf.String(), "url=https://notebook/1")
	assert.Contains(t, buf.String(), "from=queued to=downloading")
}
