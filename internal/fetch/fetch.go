// Package fetch downloads a file the browser is authorised to see by
// replaying the browser's cookies in a plain HTTP client.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// DefaultChunkSize bounds how much of the body is held in memory.
	DefaultChunkSize = 8192

	// Extension is appended to every generated filename.
	Extension = ".mp3"

	// TempDirPattern names the directory created when no output dir is set.
	TempDirPattern = "nbpod_audio_*"
)

// Request describes one download.
type Request struct {
	URL     string
	Cookies []*http.Cookie
	Referer string
	// Dir is created when missing. Empty means a fresh temp directory.
	Dir string
}

// File is a completed download.
type File struct {
	Path string
	Dir  string
	Size int64
	// TempDir is true when Dir was created by Download.
	TempDir bool
}

// Downloader streams authenticated downloads to disk.
type Downloader struct {
	chunkSize int
	userAgent string
	log       *slog.Logger
	newName   func() string
}

// NewDownloader creates a downloader. chunkSize <= 0 uses DefaultChunkSize.
func NewDownloader(chunkSize int, userAgent string, log *slog.Logger) *Downloader {
	if log == nil {
		log = slog.Default()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Downloader{
		chunkSize: chunkSize,
		userAgent: userAgent,
		log:       log.With("component", "fetch"),
		newName:   func() string { return ulid.Make().String() + Extension },
	}
}

// Download fetches req.URL with req.Cookies and writes the body to
// <Dir>/<ULID>.mp3. A partial file is removed on any error.
func (d *Downloader) Download(ctx context.Context, req Request) (*File, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrNoHref
	}
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", ErrDownloadFailed, err)
	}

	dir, temp, err := prepareDir(req.Dir)
	if err != nil {
		return nil, err
	}

	jar, err := cookieJar(req.Cookies)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	client := &http.Client{Jar: jar}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrDownloadFailed, err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg,audio/*,*/*")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if d.userAgent != "" {
		httpReq.Header.Set("User-Agent", d.userAgent)
	}
	if req.Referer != "" {
		httpReq.Header.Set("Referer", req.Referer)
	}

	d.log.Debug("starting download", "host", target.Host, "cookies", len(req.Cookies))
	start := time.Now()

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrDownloadFailed, resp.StatusCode)
	}

	path := filepath.Join(dir, d.newName())
	size, err := d.writeChunks(path, resp.Body)
	if err != nil {
		return nil, err
	}

	d.log.Info("download complete", "path", path, "size", size, "elapsed", time.Since(start).Round(time.Millisecond))
	return &File{Path: path, Dir: dir, Size: size, TempDir: temp}, nil
}

// writeChunks copies r to path through a fixed-size buffer.
func (d *Downloader) writeChunks(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: create file: %v", ErrDownloadFailed, err)
	}
	defer func() { _ = f.Close() }()

	size, err := io.CopyBuffer(writerOnly{f}, r, make([]byte, d.chunkSize))
	if err != nil {
		// Clean up partial file on error
		_ = os.Remove(path)
		return 0, fmt.Errorf("%w: write body: %v", ErrDownloadFailed, err)
	}

	if err := f.Sync(); err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("%w: sync: %v", ErrDownloadFailed, err)
	}
	return size, nil
}

// writerOnly hides ReadFrom so io.CopyBuffer uses the buffer.
type writerOnly struct{ io.Writer }

func prepareDir(dir string) (string, bool, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", TempDirPattern)
		if err != nil {
			return "", false, fmt.Errorf("%w: create temp dir: %v", ErrDownloadFailed, err)
		}
		return tmp, true, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", false, fmt.Errorf("%w: create directory: %v", ErrDownloadFailed, err)
	}
	return dir, false, nil
}

// cookieJar loads cookies into a jar keyed by each cookie's own domain, so
// every request (including redirects) gets the cookies a browser would send.
func cookieJar(cookies []*http.Cookie) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	for _, c := range cookies {
		host := strings.TrimPrefix(c.Domain, ".")
		if host == "" {
			continue
		}
		scheme := "http"
		if c.Secure {
			scheme = "https"
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		jar.SetCookies(&url.URL{Scheme: scheme, Host: host, Path: path}, []*http.Cookie{c})
	}
	return jar, nil
}
