// Package workflow strings the browser steps together into the two runs the
// CLI offers: building a notebook from sources, and turning notebooks into
// published episodes.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/notebook"
	"github.com/vmunix/nbpod/internal/publish"
	"github.com/vmunix/nbpod/internal/runs"
)

// Workflow runs create and publish batches.
type Workflow struct {
	opts    Options
	dialer  browser.Dialer
	fetcher notebook.Fetcher
	store   *runs.Store
	sink    events.Sink
	log     *slog.Logger
}

// New creates a workflow. store may be nil to skip run history; a nil sink
// discards events.
func New(opts Options, dialer browser.Dialer, fetcher notebook.Fetcher, store *runs.Store, sink events.Sink, log *slog.Logger) *Workflow {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = events.Discard
	}
	opts.Browser.Logger = log
	return &Workflow{
		opts:    opts,
		dialer:  dialer,
		fetcher: fetcher,
		store:   store,
		sink:    sink,
		log:     log.With("component", "workflow"),
	}
}

// startRun records the run when history is enabled and announces it.
func (w *Workflow) startRun(ctx context.Context, kind runs.Kind, urls []string) (string, []*runs.Item) {
	id := ""
	var items []*runs.Item
	if w.store != nil {
		run, its, err := w.store.Start(kind, urls)
		if err != nil {
			w.log.Warn("failed to record run", "error", err)
		} else {
			id, items = run.ID, its
		}
	}
	events.Emit(ctx, w.sink, &events.RunStarted{
		BaseEvent: events.NewBaseEvent(events.EventRunStarted, events.EntityRun, id),
		Kind:      string(kind),
		Total:     len(urls),
	})
	return id, items
}

func (w *Workflow) finishRun(ctx context.Context, id string, succeeded, failed int) {
	if w.store != nil && id != "" {
		if err := w.store.Finish(id); err != nil {
			w.log.Warn("failed to finish run", "run", id, "error", err)
		}
	}
	events.Emit(ctx, w.sink, &events.RunCompleted{
		BaseEvent: events.NewBaseEvent(events.EventRunCompleted, events.EntityRun, id),
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// track moves a history item along, logging rather than failing the run
// when the database disagrees.
func (w *Workflow) track(it *runs.Item, to runs.Status) {
	if w.store == nil || it == nil {
		return
	}
	if err := w.store.Transition(it, to); err != nil {
		w.log.Warn("failed to record item status", "url", it.URL, "status", to, "error", err)
	}
}

func (w *Workflow) trackFailure(it *runs.Item, msg string) {
	if w.store == nil || it == nil || it.Status.IsTerminal(w.opts.PublishEnabled) {
		return
	}
	if err := w.store.Fail(it, msg); err != nil {
		w.log.Warn("failed to record item failure", "url", it.URL, "error", err)
	}
}

func itemAt(items []*runs.Item, i int) *runs.Item {
	if i < len(items) {
		return items[i]
	}
	return nil
}

// CreateReport is the outcome of Create.
type CreateReport struct {
	RunID  string
	Ingest *notebook.IngestReport
	// Generate is nil when the generate button could not be clicked; the
	// error is in GenerateErr.
	Generate    *notebook.GenerateResult
	GenerateErr error
	NotebookURL string
}

// Create opens a session, adds urls to a new notebook and starts audio
// generation. Sources that fail are skipped. Session errors end the run and
// are returned.
func (w *Workflow) Create(ctx context.Context, urls []string) (*CreateReport, error) {
	if len(urls) == 0 {
		return nil, notebook.ErrEmptyURLList
	}
	runID, items := w.startRun(ctx, runs.KindCreate, urls)
	report := &CreateReport{RunID: runID}
	progress := events.NewReporter(w.sink, runID)

	err := browser.WithSession(ctx, w.dialer, w.opts.Browser, func(ctx context.Context, page browser.Page) error {
		ingester := notebook.NewIngester(w.opts.Notebook, w.sink, w.log)
		ing, err := ingester.Ingest(ctx, page, urls, func(i, total int, u string) {
			w.log.Info(fmt.Sprintf("Processing URL %d/%d: %s", i+1, total, u))
			progress.Report(ctx, fmt.Sprintf("Processing URL %d/%d: %s", i+1, total, u), i*90/total)
		})
		report.Ingest = ing
		if err != nil {
			return err
		}
		w.log.Info("finished adding sources", "added", ing.Succeeded(), "failed", len(ing.Failed()))

		res, err := notebook.NewGenerator(w.opts.Notebook, w.sink, w.log).Generate(ctx, page)
		if err != nil {
			w.log.Error("could not start audio generation", "error", err)
			report.GenerateErr = err
		} else {
			report.Generate = &res
		}
		report.NotebookURL, _ = page.URL(ctx)
		progress.Report(ctx, "Audio generation started", 100)
		return nil
	})

	succeeded := 0
	if report.Ingest != nil {
		for _, it := range report.Ingest.Items {
			if it.OK() {
				succeeded++
				w.track(itemAt(items, it.Index), runs.StatusAdded)
			} else {
				w.trackFailure(itemAt(items, it.Index), it.Err.Error())
			}
		}
	}
	if err != nil {
		// Whatever the session did not reach is failed with the session error.
		for _, it := range items {
			w.trackFailure(it, err.Error())
		}
	}
	w.finishRun(ctx, runID, succeeded, len(urls)-succeeded)
	return report, err
}

// PublishOutcome is the nested result of uploading one artifact.
type PublishOutcome struct {
	Success bool           `json:"success"`
	Reason  publish.Reason `json:"reason,omitempty"`
	Message string         `json:"message"`
}
