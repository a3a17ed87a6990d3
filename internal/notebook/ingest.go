// Package notebook drives the notebook tool: adding sources, starting audio
// generation and retrieving the generated audio.
package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/locale"
)

// ItemOutcome is the result of adding one source.
type ItemOutcome struct {
	Source
	Err error
}

// OK reports whether the source was added.
func (o ItemOutcome) OK() bool { return o.Err == nil }

// IngestReport summarises an ingestion run.
type IngestReport struct {
	Locale locale.Locale
	Items  []ItemOutcome
}

// Succeeded counts the sources that were added.
func (r *IngestReport) Succeeded() int {
	n := 0
	for _, it := range r.Items {
		if it.OK() {
			n++
		}
	}
	return n
}

// Failed returns the sources that could not be added.
func (r *IngestReport) Failed() []ItemOutcome {
	var out []ItemOutcome
	for _, it := range r.Items {
		if !it.OK() {
			out = append(out, it)
		}
	}
	return out
}

// ItemFunc is called before each source is processed.
type ItemFunc func(index, total int, url string)

// Ingester adds URL sources to a new notebook.
type Ingester struct {
	opts Options
	sink events.Sink
	log  *slog.Logger
}

// NewIngester creates an ingester. A nil sink discards events.
func NewIngester(opts Options, sink events.Sink, log *slog.Logger) *Ingester {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = events.Discard
	}
	return &Ingester{opts: opts, sink: sink, log: log.With("component", "ingest")}
}

// Ingest adds urls in order: the first creates the notebook, the rest are
// added to it. A failing source is logged and skipped; only cancellation of
// ctx stops the loop early.
func (g *Ingester) Ingest(ctx context.Context, page browser.Page, urls []string, onItem ItemFunc) (*IngestReport, error) {
	if len(urls) == 0 {
		return nil, ErrEmptyURLList
	}

	loc := resolveLocale(ctx, page, g.opts, g.log)
	table := locale.For(loc)
	report := &IngestReport{Locale: loc, Items: make([]ItemOutcome, 0, len(urls))}
	g.log.Info("adding sources", "count", len(urls), "locale", loc)

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		src := NewSource(i, url)
		if onItem != nil {
			onItem(i, len(urls), url)
		}
		events.Emit(ctx, g.sink, &events.SourceAdding{
			BaseEvent: events.NewBaseEvent(events.EventSourceAdding, events.EntitySource, url),
			Index:     i,
			Total:     len(urls),
			Kind:      src.Kind.String(),
			Action:    src.Action.String(),
		})

		err := g.addSource(ctx, page, table, src)
		report.Items = append(report.Items, ItemOutcome{Source: src, Err: err})
		if err != nil {
			g.log.Warn("error adding source", "index", i, "url", url, "error", err)
			events.Emit(ctx, g.sink, &events.SourceFailed{
				BaseEvent: events.NewBaseEvent(events.EventSourceFailed, events.EntitySource, url),
				Index:     i,
				Reason:    err.Error(),
			})
			continue
		}
		g.log.Debug("source added", "index", i, "url", url, "kind", src.Kind)
		events.Emit(ctx, g.sink, &events.SourceAdded{
			BaseEvent: events.NewBaseEvent(events.EventSourceAdded, events.EntitySource, url),
			Index:     i,
		})
	}

	g.log.Info("sources processed", "added", report.Succeeded(), "failed", len(report.Failed()))
	return report, nil
}

func (g *Ingester) addSource(ctx context.Context, page browser.Page, t locale.Table, src Source) error {
	to := g.opts.Timeouts

	trigger := ButtonFor(t, src.Action.label())
	if err := clickWhenEnabled(ctx, page, trigger, to.Element); err != nil {
		return fmt.Errorf("%s: %w", src.Action, err)
	}
	if err := settle(ctx, to.Settle); err != nil {
		return err
	}

	if err := g.chooseSourceType(ctx, page, t.Text(src.Kind.label())); err != nil {
		return err
	}

	err := within(ctx, to.Element, func(ctx context.Context) error {
		if err := page.WaitEnabled(ctx, URLInput); err != nil {
			return err
		}
		return page.Fill(ctx, URLInput, src.URL)
	})
	if err != nil {
		return fmt.Errorf("fill url: %w", err)
	}

	if err := clickWhenEnabled(ctx, page, ButtonFor(t, locale.Insert), to.Element); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if err := settle(ctx, to.Settle); err != nil {
		return err
	}

	n, err := page.Count(ctx, Spinner)
	if err != nil {
		return fmt.Errorf("check spinner: %w", err)
	}
	if n > 0 {
		if err := within(ctx, to.Spinner, func(ctx context.Context) error { return page.WaitGone(ctx, Spinner) }); err != nil {
			return fmt.Errorf("source still loading: %w", err)
		}
	}
	return settle(ctx, to.Settle)
}

// chooseSourceType clicks the chip whose label best matches want.
func (g *Ingester) chooseSourceType(ctx context.Context, page browser.Page, want string) error {
	var labels []string
	err := within(ctx, g.opts.Timeouts.Element, func(ctx context.Context) error {
		if err := page.WaitVisible(ctx, ChipLabel); err != nil {
			return err
		}
		var err error
		labels, err = page.Texts(ctx, ChipLabel)
		return err
	})
	if err != nil {
		return fmt.Errorf("source types: %w", err)
	}

	m := locale.MatchLabel(want, labels)
	if !m.Found() {
		return fmt.Errorf("%w: %q among [%s]", ErrSourceTypeMissing, want, strings.Join(labels, ", "))
	}
	if m.Score < 1 {
		g.log.Debug("fuzzy source type match", "want", want, "got", m.Label, "score", m.Score)
	}
	if err := page.Click(ctx, ChipLabel.WithText(m.Label)); err != nil {
		return fmt.Errorf("choose source type %q: %w", m.Label, err)
	}
	return nil
}

// clickWhenEnabled waits up to d for sel to be enabled, then clicks it.
func clickWhenEnabled(ctx context.Context, page browser.Page, sel browser.Selector, d time.Duration) error {
	return within(ctx, d, func(ctx context.Context) error {
		if err := page.WaitEnabled(ctx, sel); err != nil {
			return err
		}
		return page.Click(ctx, sel)
	})
}
