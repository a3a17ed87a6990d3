package fetch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDownloader_Download(t *testing.T) {
	body := bytes.Repeat([]byte("0123456789"), 2000)
	var gotCookie, gotOther, gotReferer, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("SID"); err == nil {
			gotCookie = c.Value
		}
		if c, err := r.Cookie("OTHER"); err == nil {
			gotOther = c.Value
		}
		gotReferer = r.Header.Get("Referer")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	d := NewDownloader(512, "nbpod-test", testLogger())

	f, err := d.Download(context.Background(), Request{
		URL: srv.URL + "/audio",
		Cookies: []*http.Cookie{
			{Name: "SID", Value: "abc", Domain: "127.0.0.1", Path: "/"},
			{Name: "OTHER", Value: "nope", Domain: ".example.com", Path: "/"},
		},
		Referer: "https://notebooklm.google.com/notebook/1",
		Dir:     dir,
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", gotCookie)
	assert.Empty(t, gotOther, "cookies for other domains are not replayed")
	assert.Equal(t, "https://notebooklm.google.com/notebook/1", gotReferer)
	assert.Equal(t, "nbpod-test", gotUA)

	assert.Equal(t, dir, filepath.Dir(f.Path))
	assert.False(t, f.TempDir)
	assert.Equal(t, int64(len(body)), f.Size)
	name := filepath.Base(f.Path)
	assert.True(t, strings.HasSuffix(name, ".mp3"))
	assert.Len(t, strings.TrimSuffix(name, ".mp3"), 26, "ULID filename")

	got, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestDownloader_UniqueNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(0, "", testLogger())

	a, err := d.Download(context.Background(), Request{URL: srv.URL, Dir: dir})
	require.NoError(t, err)
	b, err := d.Download(context.Background(), Request{URL: srv.URL, Dir: dir})
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
}

func TestDownloader_TempDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	f, err := NewDownloader(0, "", testLogger()).Download(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	assert.True(t, f.TempDir)
	assert.True(t, strings.HasPrefix(filepath.Base(f.Dir), "nbpod_audio_"))

	t.Cleanup(func() { _ = os.RemoveAll(f.Dir) })
	assert.DirExists(t, f.Dir)
}

func TestDownloader_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := NewDownloader(0, "", testLogger()).Download(context.Background(), Request{URL: srv.URL, Dir: dir})

	require.ErrorIs(t, err, ErrDownloadFailed)
	assert.Contains(t, err.Error(), "HTTP 403")
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestDownloader_TruncatedBodyRemovesPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "100000")
		_, _ = w.Write([]byte("short"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := NewDownloader(0, "", testLogger()).Download(context.Background(), Request{URL: srv.URL, Dir: dir})

	require.ErrorIs(t, err, ErrDownloadFailed)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "partial file must be removed")
}

func TestDownloader_NoHref(t *testing.T) {
	_, err := NewDownloader(0, "", testLogger()).Download(context.Background(), Request{URL: "  "})
	assert.ErrorIs(t, err, ErrNoHref)
}
