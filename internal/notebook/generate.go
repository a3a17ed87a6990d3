package notebook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/locale"
)

// GenerateResult reports a generation trigger. Confirmed is diagnostic only:
// it is true when the button was seen to disable after the click.
type GenerateResult struct {
	Confirmed bool
}

// Generator starts audio generation for the open notebook.
type Generator struct {
	opts Options
	sink events.Sink
	log  *slog.Logger
}

// NewGenerator creates a generator. A nil sink discards events.
func NewGenerator(opts Options, sink events.Sink, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = events.Discard
	}
	return &Generator{opts: opts, sink: sink, log: log.With("component", "generate")}
}

// Generate clicks the generate button. It fails only if the click could not
// be made; whether the button then disables does not affect success.
func (g *Generator) Generate(ctx context.Context, page browser.Page) (GenerateResult, error) {
	table := locale.For(resolveLocale(ctx, page, g.opts, g.log))
	button := ButtonFor(table, locale.Generate)

	if err := clickWhenEnabled(ctx, page, button, g.opts.Timeouts.Element); err != nil {
		return GenerateResult{}, fmt.Errorf("generate: %w", err)
	}

	confirmed := within(ctx, g.opts.Timeouts.GenerateConfirm, func(ctx context.Context) error {
		return page.WaitDisabled(ctx, button)
	}) == nil
	if confirmed {
		g.log.Info("audio generation started: generate button is now disabled")
	} else {
		g.log.Info("audio generation started")
	}

	key, _ := page.URL(ctx)
	events.Emit(ctx, g.sink, &events.GenerationTriggered{
		BaseEvent: events.NewBaseEvent(events.EventGenerationTriggered, events.EntityRun, key),
		Confirmed: confirmed,
	})
	return GenerateResult{Confirmed: confirmed}, nil
}
