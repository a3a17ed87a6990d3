package notebook

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/config"
	"github.com/vmunix/nbpod/internal/locale"
)

// Timeouts bound every wait the steps perform.
type Timeouts struct {
	Navigate        time.Duration
	Element         time.Duration
	Spinner         time.Duration
	Load            time.Duration
	Player          time.Duration
	GenerateConfirm time.Duration
	// Settle is the pause after actions that open dialogs or add sources.
	// Zero disables it.
	Settle time.Duration
}

// DefaultTimeouts mirrors the built-in configuration.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigate:        60 * time.Second,
		Element:         10 * time.Second,
		Spinner:         30 * time.Second,
		Load:            2 * time.Minute,
		Player:          30 * time.Second,
		GenerateConfirm: 2 * time.Second,
		Settle:          2 * time.Second,
	}
}

// Options configures the notebook steps.
type Options struct {
	// Locale is used as-is when ForceLocale is set; otherwise the locale is
	// detected from the page.
	Locale      locale.Locale
	ForceLocale bool
	Timeouts    Timeouts
}

// OptionsFromConfig builds Options from the [notebook] and [browser] sections.
func OptionsFromConfig(nb config.NotebookConfig, br config.BrowserConfig) (Options, error) {
	l, forced, err := locale.Parse(nb.Locale)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Locale:      l,
		ForceLocale: forced,
		Timeouts: Timeouts{
			Navigate:        br.NavigateTimeout,
			Element:         nb.ElementTimeout,
			Spinner:         nb.SpinnerTimeout,
			Load:            nb.LoadTimeout,
			Player:          nb.PlayerTimeout,
			GenerateConfirm: nb.GenerateConfirmTimeout,
			Settle:          nb.SettleDelay,
		},
	}, nil
}

// resolveLocale returns the forced locale or the one the page is rendered in.
func resolveLocale(ctx context.Context, page browser.Page, opts Options, log *slog.Logger) locale.Locale {
	if opts.ForceLocale {
		return opts.Locale
	}
	lang, err := page.Lang(ctx)
	if err != nil {
		log.Warn("could not read page language, using English", "error", err)
		return locale.English
	}
	return locale.Detect(lang)
}

// within runs fn with a context bounded by d. d <= 0 leaves ctx as is.
func within(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	if d <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}

// settle pauses for d or until ctx ends.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
