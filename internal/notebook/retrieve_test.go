package notebook_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/nbpod/internal/browser/browsertest"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/fetch"
	"github.com/vmunix/nbpod/internal/notebook"
)

const notebookURL = "https://notebooklm.google.com/notebook/abc"

func TestRetriever_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("SID"); err != nil || c.Value != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ID3 audio bytes"))
	}))
	defer srv.Close()

	page := browsertest.New().SetCookies(&http.Cookie{Name: "SID", Value: "secret", Domain: "127.0.0.1", Path: "/"})
	audioPage{Title: "Weekly digest", Summary: "Three sources about Go.", Href: srv.URL + "/audio.mp3"}.install(page)
	rec := &recorder{}
	dir := t.TempDir()
	r := notebook.NewRetriever(testOptions(), fetch.NewDownloader(0, "", testLogger()), rec, testLogger())

	res := r.Retrieve(context.Background(), page, notebookURL, dir)

	require.True(t, res.OK, res.Message)
	ok, path, title, description := res.Tuple()
	assert.True(t, ok)
	assert.Equal(t, "Weekly digest", title)
	assert.Equal(t, "Three sources about Go.", description)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3 audio bytes", string(got))
	assert.Equal(t, notebook.StageFileWritten, res.Stage)

	assert.Equal(t, []string{"navigated", "metadata", "player_ready", "menu_opened", "href_obtained", "file_written"}, rec.stages())
	assert.Contains(t, rec.types(), events.EventArtifactDownloaded)
}

func TestRetriever_MetadataReadBeforeAnyClick(t *testing.T) {
	page := browsertest.New()
	audioPage{Title: "T", Summary: "S", Href: "https://cdn.example/a.mp3"}.install(page)
	f := &fakeFetcher{file: &fetch.File{Path: "/tmp/x.mp3"}}

	res := notebook.NewRetriever(testOptions(), f, nil, testLogger()).Retrieve(context.Background(), page, notebookURL, "")
	require.True(t, res.OK)

	firstClick, lastText := -1, -1
	for i, c := range page.Calls() {
		if c.Op == "click" && firstClick < 0 {
			firstClick = i
		}
		if c.Op == "text" {
			lastText = i
		}
	}
	require.GreaterOrEqual(t, firstClick, 0)
	assert.Less(t, lastText, firstClick)
}

func TestRetriever_LoadsAudioFirst(t *testing.T) {
	page := browsertest.New()
	audioPage{Title: "T", NeedsLoad: true, Href: "/download/abc"}.install(page)
	f := &fakeFetcher{file: &fetch.File{Path: "/out/x.mp3", Size: 3}}
	rec := &recorder{}

	res := notebook.NewRetriever(testOptions(), f, rec, testLogger()).Retrieve(context.Background(), page, notebookURL, "/out")

	require.True(t, res.OK, res.Message)
	assert.Equal(t, []string{"navigated", "metadata", "loaded", "player_ready", "menu_opened", "href_obtained", "file_written"}, rec.stages())
	require.Len(t, f.reqs, 1)
	assert.Equal(t, "https://notebooklm.google.com/download/abc", f.reqs[0].URL, "relative href resolved against the page")
	assert.Equal(t, notebookURL, f.reqs[0].Referer)
	assert.Equal(t, "/out", f.reqs[0].Dir)
	assert.Empty(t, res.Artifact.Description, "missing summary reads as empty")
}

func TestRetriever_Failures(t *testing.T) {
	tests := []struct {
		name    string
		page    audioPage
		fetcher *fakeFetcher
		reason  notebook.Reason
		message string
	}{
		{
			name:    "options button never visible",
			page:    audioPage{Title: "T", Summary: "S", NoOptions: true},
			reason:  notebook.ReasonOptionsMissing,
			message: "Could not find audio options button",
		},
		{
			name:    "player never ready",
			page:    audioPage{Title: "T", NoPlayer: true},
			reason:  notebook.ReasonPlayerTimeout,
			message: "Error downloading audio: audio player not ready",
		},
		{
			name:    "download link missing",
			page:    audioPage{Title: "T", NoLink: true},
			reason:  notebook.ReasonDownloadLinkMissing,
			message: "Could not find download link in the menu",
		},
		{
			name:    "href missing",
			page:    audioPage{Title: "T", WithoutHref: true},
			reason:  notebook.ReasonHrefMissing,
			message: "Download link has no href attribute",
		},
		{
			name:    "download fails",
			page:    audioPage{Title: "T", Href: "https://cdn.example/a.mp3"},
			fetcher: &fakeFetcher{err: errors.New("download failed: HTTP 403")},
			reason:  notebook.ReasonDownload,
			message: "Error downloading audio: download failed: HTTP 403",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := browsertest.New()
			tt.page.install(page)
			f := tt.fetcher
			if f == nil {
				f = &fakeFetcher{file: &fetch.File{Path: "/tmp/unused.mp3"}}
			}
			rec := &recorder{}

			res := notebook.NewRetriever(testOptions(), f, rec, testLogger()).Retrieve(context.Background(), page, notebookURL, "")

			ok, msg, title, description := res.Tuple()
			assert.False(t, ok)
			assert.NotEmpty(t, msg)
			assert.Contains(t, msg, tt.message)
			assert.Empty(t, title)
			assert.Empty(t, description)
			assert.Equal(t, tt.reason, res.Reason)

			var retErr *notebook.RetrieveError
			require.ErrorAs(t, res.Err(), &retErr)
			assert.Equal(t, tt.reason, retErr.Reason)
			assert.Contains(t, rec.types(), events.EventArtifactFailed)
		})
	}
}

func TestRetriever_NavigationFailure(t *testing.T) {
	page := browsertest.New().FailWhen(func(c browsertest.Call) error {
		if c.Op == "navigate" {
			return errors.New("net::ERR_NAME_NOT_RESOLVED")
		}
		return nil
	})

	res := notebook.NewRetriever(testOptions(), &fakeFetcher{}, nil, testLogger()).Retrieve(context.Background(), page, notebookURL, "")

	assert.False(t, res.OK)
	assert.Equal(t, notebook.ReasonNavigation, res.Reason)
	assert.Equal(t, notebook.StageStart, res.Stage)
	assert.Contains(t, res.Message, "ERR_NAME_NOT_RESOLVED")
}

func TestRetriever_NotConnected(t *testing.T) {
	res := notebook.NewRetriever(testOptions(), &fakeFetcher{}, nil, testLogger()).Retrieve(context.Background(), nil, notebookURL, "")

	ok, msg, _, _ := res.Tuple()
	assert.False(t, ok)
	assert.Equal(t, notebook.ReasonNotConnected, res.Reason)
	assert.Contains(t, msg, "Not connected")
}

func TestRetrieveResult_ErrNilOnSuccess(t *testing.T) {
	res := notebook.RetrieveResult{OK: true, Artifact: &notebook.Artifact{Path: "/a.mp3", Title: "t", Description: "d"}}

	assert.NoError(t, res.Err())
	ok, path, title, description := res.Tuple()
	assert.True(t, ok)
	assert.Equal(t, "/a.mp3", path)
	assert.Equal(t, "t", title)
	assert.Equal(t, "d", description)
}
