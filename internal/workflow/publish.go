package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vmunix/nbpod/internal/batch"
	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/fetch"
	"github.com/vmunix/nbpod/internal/notebook"
	"github.com/vmunix/nbpod/internal/publish"
	"github.com/vmunix/nbpod/internal/runs"
)

// ItemResult is the outcome for one notebook URL. Success reports the
// download; a failed upload, including one cut short by the item timeout or
// a lost session, keeps Success and sets Error and Publish. When the run
// used a temp directory, the audio of published episodes is deleted after
// the run and AudioFile then names a removed file; unpublished audio stays.
type ItemResult struct {
	Index       int             `json:"index"`
	URL         string          `json:"url"`
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	Reason      notebook.Reason `json:"reason,omitempty"`
	AudioFile   string          `json:"audio_file,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Publish     *PublishOutcome `json:"publish,omitempty"`
	Elapsed     time.Duration   `json:"elapsed_ns"`
}

// FallbackTitle names an episode whose notebook has no title. n is 1-based.
func FallbackTitle(n int) string {
	return fmt.Sprintf("Notebook Episode %d", n)
}

// FallbackDescription describes an episode whose notebook has no summary.
func FallbackDescription(url string) string {
	return "Automatically generated episode from notebook: " + url
}

// publishRun is the shared state of one Publish call.
type publishRun struct {
	id     string
	total  int
	dir    string
	items  []*runs.Item
	cancel context.CancelCauseFunc
}

// Publish downloads the audio of every notebook URL on the worker pool and,
// when enabled, publishes it. Item failures are reported in the results. A
// connection failure stops items not yet started and is returned alongside
// the results.
func (w *Workflow) Publish(ctx context.Context, urls []string) ([]ItemResult, error) {
	if len(urls) == 0 {
		return nil, notebook.ErrEmptyURLList
	}

	dir, autoDir := w.opts.OutputDir, false
	if dir == "" {
		d, err := os.MkdirTemp("", fetch.TempDirPattern)
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		dir, autoDir = d, true
	}

	runID, items := w.startRun(ctx, runs.KindPublish, urls)
	bctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	pr := &publishRun{id: runID, total: len(urls), dir: dir, items: items, cancel: cancel}

	pool := w.opts.pool()
	pool.Logger = w.log
	batchResults := batch.Run(bctx, pool, urls, func(ctx context.Context, i int, u string) (ItemResult, error) {
		res, err := w.processItem(ctx, pr, i, u)
		if err == nil {
			// Steps report an expired deadline as an ordinary failure; hand
			// it back so the pool can name it a timeout.
			err = ctx.Err()
		}
		return res, err
	})

	results := make([]ItemResult, len(batchResults))
	succeeded := 0
	for i, br := range batchResults {
		r := br.Value
		r.Index, r.URL = i, br.Key
		if r.Elapsed == 0 {
			r.Elapsed = br.Elapsed
		}
		if br.Err != nil {
			w.applyItemError(&r, br.Err)
			w.trackFailure(itemAt(items, i), r.Error)
		}
		if r.Success && (r.Publish == nil || r.Publish.Success) {
			succeeded++
		}
		results[i] = r
	}
	w.finishRun(ctx, runID, succeeded, len(urls)-succeeded)

	if autoDir && w.opts.PublishEnabled {
		w.removePublishedAudio(dir, results)
	}

	if cause := context.Cause(bctx); cause != nil && browser.IsConnectionError(cause) {
		return results, cause
	}
	return results, nil
}

// applyItemError folds an error the pool reported for an item into its
// result. Once the audio is on disk the item keeps Success and the error
// belongs to the upload.
func (w *Workflow) applyItemError(r *ItemResult, err error) {
	msg := err.Error()
	if r.AudioFile == "" {
		r.Success = false
		r.Error = msg
		return
	}
	if !w.opts.PublishEnabled {
		// The download finished just as the deadline passed.
		return
	}
	if r.Publish == nil {
		r.Publish = &PublishOutcome{Reason: publish.ReasonTimeout}
		if browser.IsConnectionError(err) {
			r.Publish.Reason = publish.ReasonNotConnected
		}
	}
	if errors.Is(err, batch.ErrTimeout) {
		r.Publish.Reason = publish.ReasonTimeout
	}
	r.Publish.Success = false
	r.Publish.Message = msg
	r.Error = "Publish failed: " + msg
}

// removePublishedAudio deletes the files of published episodes from the
// run's temp directory. The directory goes too unless it still holds audio
// that was not published.
func (w *Workflow) removePublishedAudio(dir string, results []ItemResult) {
	kept := 0
	for _, r := range results {
		if r.AudioFile == "" {
			continue
		}
		if r.Publish == nil || !r.Publish.Success {
			kept++
			continue
		}
		if err := os.Remove(r.AudioFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.log.Warn("failed to remove published audio", "path", r.AudioFile, "error", err)
		}
	}
	if kept > 0 {
		w.log.Warn("keeping audio that was not published", "dir", dir, "files", kept)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		w.log.Warn("failed to remove temp dir", "dir", dir, "error", err)
	}
}

// processItem handles one notebook: its own session, download, fallback
// metadata and the optional upload.
func (w *Workflow) processItem(ctx context.Context, pr *publishRun, i int, u string) (ItemResult, error) {
	start := time.Now()
	res := ItemResult{Index: i, URL: u}
	it := itemAt(pr.items, i)
	lo, hi := i*100/pr.total, (i+1)*100/pr.total
	progress := events.NewReporter(w.sink, pr.id).Sub(lo, hi).WithPrefix(fmt.Sprintf("[%d/%d] ", i+1, pr.total))
	progress.Report(ctx, fmt.Sprintf("Processing project %d/%d: %s", i+1, pr.total, u), 0)
	w.track(it, runs.StatusDownloading)

	conn, err := w.dial(ctx, pr)
	if err != nil {
		w.trackFailure(it, err.Error())
		return res, err
	}
	defer func() { _ = conn.Close() }()

	retriever := notebook.NewRetriever(w.opts.Notebook, w.fetcher, w.sink, w.log)
	got := retriever.Retrieve(ctx, conn.Page(), u, pr.dir)
	ok, pathOrMsg, title, description := got.Tuple()
	if !ok {
		res.Reason = got.Reason
		res.Error = "Failed to download audio: " + pathOrMsg
		res.Elapsed = time.Since(start)
		w.trackFailure(it, res.Error)
		return res, nil
	}

	if title == "" {
		title = FallbackTitle(i + 1)
	}
	if description == "" {
		description = FallbackDescription(u)
	}
	res.Success, res.AudioFile, res.Title, res.Description = true, pathOrMsg, title, description
	if it != nil {
		it.AudioPath, it.Title = pathOrMsg, title
	}
	w.track(it, runs.StatusDownloaded)
	progress.Report(ctx, "Downloaded audio to "+pathOrMsg, 50)

	if !w.opts.PublishEnabled {
		res.Elapsed = time.Since(start)
		return res, nil
	}

	page := conn.Page()
	if !w.opts.ReuseSession {
		_ = conn.Close()
		fresh, err := w.dial(ctx, pr)
		if err != nil {
			res.Publish = &PublishOutcome{Reason: publish.ReasonNotConnected, Message: err.Error()}
			res.Error = "Publish failed: " + err.Error()
			res.Elapsed = time.Since(start)
			w.trackFailure(it, res.Error)
			return res, err
		}
		defer func() { _ = fresh.Close() }()
		page = fresh.Page()
	}

	w.track(it, runs.StatusPublishing)
	progress.Report(ctx, "Uploading: "+title, 50)
	publisher := publish.NewPublisher(w.opts.Publish, w.sink, w.log)
	pub := publisher.Publish(ctx, page, publish.Episode{
		Title:       title,
		Description: description,
		AudioPath:   pathOrMsg,
	}, progress.Sub(50, 100).WithPrefix("Upload: "))

	res.Publish = &PublishOutcome{Success: pub.OK, Reason: pub.Reason, Message: pub.Message}
	res.Elapsed = time.Since(start)
	if !pub.OK {
		res.Error = "Publish failed: " + pub.Message
		w.trackFailure(it, res.Error)
		return res, nil
	}
	w.track(it, runs.StatusPublished)
	return res, nil
}

// dial opens a session for one item. Connection failures cancel the rest of
// the batch.
func (w *Workflow) dial(ctx context.Context, pr *publishRun) (browser.Conn, error) {
	conn, err := w.dialer.Dial(ctx, w.opts.Browser)
	if err == nil {
		return conn, nil
	}
	if browser.IsConnectionError(err) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		pr.cancel(err)
	}
	return nil, err
}
