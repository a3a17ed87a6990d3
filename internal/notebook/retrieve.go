package notebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/fetch"
	"github.com/vmunix/nbpod/internal/locale"
)

// Reason classifies a retrieval failure.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNotConnected        Reason = "not_connected"
	ReasonNavigation          Reason = "navigation"
	ReasonLoadTimeout         Reason = "load_timeout"
	ReasonPlayerTimeout       Reason = "player_timeout"
	ReasonOptionsMissing      Reason = "options_missing"
	ReasonDownloadLinkMissing Reason = "download_link_missing"
	ReasonHrefMissing         Reason = "href_missing"
	ReasonDownload            Reason = "download"
)

// Artifact is a downloaded audio file with the notebook's metadata.
type Artifact struct {
	Path        string
	Dir         string
	Size        int64
	TempDir     bool
	Title       string
	Description string
}

// RetrieveResult is either a success carrying an Artifact or a failure
// carrying a Reason and a human-readable Message.
type RetrieveResult struct {
	OK       bool
	Artifact *Artifact
	Stage    Stage // last stage reached
	Reason   Reason
	Message  string
}

// Tuple flattens r to (ok, path or message, title, description). Title and
// description are empty on failure.
func (r RetrieveResult) Tuple() (bool, string, string, string) {
	if !r.OK || r.Artifact == nil {
		return false, r.Message, "", ""
	}
	return true, r.Artifact.Path, r.Artifact.Title, r.Artifact.Description
}

// Err returns nil on success, otherwise a *RetrieveError.
func (r RetrieveResult) Err() error {
	if r.OK {
		return nil
	}
	return &RetrieveError{Reason: r.Reason, Message: r.Message}
}

// RetrieveError is the error form of a failed RetrieveResult.
type RetrieveError struct {
	Reason  Reason
	Message string
}

func (e *RetrieveError) Error() string { return e.Message }

// Fetcher downloads a URL with replayed browser cookies.
type Fetcher interface {
	Download(ctx context.Context, req fetch.Request) (*fetch.File, error)
}

// Retriever downloads the generated audio of a notebook.
type Retriever struct {
	opts    Options
	fetcher Fetcher
	sink    events.Sink
	log     *slog.Logger
}

// NewRetriever creates a retriever. A nil sink discards events.
func NewRetriever(opts Options, fetcher Fetcher, sink events.Sink, log *slog.Logger) *Retriever {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = events.Discard
	}
	return &Retriever{opts: opts, fetcher: fetcher, sink: sink, log: log.With("component", "retrieve")}
}

// retrieval tracks one Retrieve call through its stages.
type retrieval struct {
	r     *Retriever
	key   string
	stage Stage
}

func (rv *retrieval) advance(ctx context.Context, to Stage) error {
	if !rv.stage.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rv.stage, to)
	}
	rv.stage = to
	rv.r.log.Debug("retrieve stage", "url", rv.key, "stage", to)
	events.Emit(ctx, rv.r.sink, &events.RetrieveStage{
		BaseEvent: events.NewBaseEvent(events.EventRetrieveStage, events.EntityArtifact, rv.key),
		Stage:     string(to),
	})
	return nil
}

func (rv *retrieval) fail(ctx context.Context, reason Reason, msg string) RetrieveResult {
	rv.r.log.Warn("retrieve failed", "url", rv.key, "stage", rv.stage, "reason", reason, "message", msg)
	events.Emit(ctx, rv.r.sink, &events.ArtifactFailed{
		BaseEvent: events.NewBaseEvent(events.EventArtifactFailed, events.EntityArtifact, rv.key),
		Reason:    string(reason),
		Message:   msg,
	})
	return RetrieveResult{Stage: rv.stage, Reason: reason, Message: msg}
}

// Retrieve opens notebookURL on page, reads its title and description, and
// downloads its audio into dir (a temp dir when empty). Failures are
// reported in the result, never as an error.
func (r *Retriever) Retrieve(ctx context.Context, page browser.Page, notebookURL, dir string) RetrieveResult {
	rv := &retrieval{r: r, key: notebookURL, stage: StageStart}
	if page == nil {
		return rv.fail(ctx, ReasonNotConnected, "Not connected to the notebook tool: no browser page")
	}
	to := r.opts.Timeouts

	err := within(ctx, to.Navigate, func(ctx context.Context) error { return page.Navigate(ctx, notebookURL) })
	if err != nil {
		return rv.fail(ctx, ReasonNavigation, fmt.Sprintf("Error downloading audio: %v", err))
	}
	if res, ok := rv.step(ctx, StageNavigated); !ok {
		return res
	}

	// Metadata first: the clicks below change what the page shows.
	title := r.readText(ctx, page, TitleHeading)
	description := r.readText(ctx, page, SummaryRegion)
	if res, ok := rv.step(ctx, StageMetadata); !ok {
		return res
	}

	table := locale.For(resolveLocale(ctx, page, r.opts, r.log))
	play := ButtonFor(table, locale.PlayAudio)

	load := ButtonFor(table, locale.LoadAudio)
	if visible, _ := page.Visible(ctx, load); visible {
		err := within(ctx, to.Load, func(ctx context.Context) error {
			if err := page.Click(ctx, load); err != nil {
				return err
			}
			return page.WaitVisible(ctx, play)
		})
		if err != nil {
			return rv.fail(ctx, ReasonLoadTimeout, fmt.Sprintf("Error downloading audio: audio did not load: %v", err))
		}
		if res, ok := rv.step(ctx, StageLoaded); !ok {
			return res
		}
	}

	if err := within(ctx, to.Player, func(ctx context.Context) error { return page.WaitVisible(ctx, play) }); err != nil {
		return rv.fail(ctx, ReasonPlayerTimeout, fmt.Sprintf("Error downloading audio: audio player not ready: %v", err))
	}
	if res, ok := rv.step(ctx, StagePlayerReady); !ok {
		return res
	}

	options := ButtonFor(table, locale.AudioOptions)
	err = within(ctx, to.Element, func(ctx context.Context) error {
		if err := page.WaitVisible(ctx, options); err != nil {
			return err
		}
		return page.Click(ctx, options)
	})
	if err != nil {
		return rv.fail(ctx, ReasonOptionsMissing, "Could not find audio options button")
	}
	if res, ok := rv.step(ctx, StageMenuOpened); !ok {
		return res
	}

	link := DownloadLink(table)
	if err := within(ctx, to.Element, func(ctx context.Context) error { return page.WaitVisible(ctx, link) }); err != nil {
		return rv.fail(ctx, ReasonDownloadLinkMissing, "Could not find download link in the menu")
	}
	href, ok, err := page.Attribute(ctx, link, "href")
	if err != nil || !ok || strings.TrimSpace(href) == "" {
		return rv.fail(ctx, ReasonHrefMissing, "Download link has no href attribute")
	}
	if res, ok := rv.step(ctx, StageHrefObtained); !ok {
		return res
	}

	file, err := r.download(ctx, page, href, dir)
	if err != nil {
		return rv.fail(ctx, ReasonDownload, fmt.Sprintf("Error downloading audio: %v", err))
	}
	if res, ok := rv.step(ctx, StageFileWritten); !ok {
		return res
	}

	events.Emit(ctx, r.sink, &events.ArtifactDownloaded{
		BaseEvent: events.NewBaseEvent(events.EventArtifactDownloaded, events.EntityArtifact, notebookURL),
		Path:      file.Path,
		Size:      file.Size,
		Title:     title,
	})
	r.log.Info("audio downloaded", "url", notebookURL, "path", file.Path, "size", file.Size)

	return RetrieveResult{
		OK:    true,
		Stage: rv.stage,
		Artifact: &Artifact{
			Path:        file.Path,
			Dir:         file.Dir,
			Size:        file.Size,
			TempDir:     file.TempDir,
			Title:       title,
			Description: description,
		},
	}
}

// step advances the stage, converting an out-of-order transition into a
// failed result.
func (rv *retrieval) step(ctx context.Context, to Stage) (RetrieveResult, bool) {
	if err := rv.advance(ctx, to); err != nil {
		return rv.fail(ctx, ReasonNone, err.Error()), false
	}
	return RetrieveResult{}, true
}

// readText returns the trimmed text of sel, or "" when it does not appear
// within the element timeout.
func (r *Retriever) readText(ctx context.Context, page browser.Page, sel browser.Selector) string {
	var text string
	err := within(ctx, r.opts.Timeouts.Element, func(ctx context.Context) error {
		if err := page.WaitVisible(ctx, sel); err != nil {
			return err
		}
		var err error
		text, err = page.Text(ctx, sel)
		return err
	})
	if err != nil {
		r.log.Debug("metadata not found", "selector", sel.String(), "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (r *Retriever) download(ctx context.Context, page browser.Page, href, dir string) (*fetch.File, error) {
	if r.fetcher == nil {
		return nil, errors.New("no downloader configured")
	}
	cookies, err := page.Cookies(ctx)
	if err != nil {
		return nil, err
	}
	referer, _ := page.URL(ctx)
	return r.fetcher.Download(ctx, fetch.Request{
		URL:     absoluteURL(referer, href),
		Cookies: cookies,
		Referer: referer,
		Dir:     dir,
	})
}

// absoluteURL resolves href against base when href is relative.
func absoluteURL(base, href string) string {
	h, err := url.Parse(href)
	if err != nil || h.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
