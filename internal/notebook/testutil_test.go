package notebook_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/browser/browsertest"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/fetch"
	"github.com/vmunix/nbpod/internal/locale"
	"github.com/vmunix/nbpod/internal/notebook"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testOptions has no settle delay so tests run instantly.
func testOptions() notebook.Options {
	o := notebook.Options{Timeouts: notebook.DefaultTimeouts()}
	o.Timeouts.Settle = 0
	return o
}

const buttonCSS = "button, [role='button']"

func button(l locale.Locale, k locale.Key) *browsertest.Element {
	return &browsertest.Element{CSS: buttonCSS, Text: locale.Text(l, k)}
}

// sourceDialogPage is a notebook home page whose add-source flow always
// succeeds.
func sourceDialogPage(l locale.Locale) *browsertest.Page {
	lang := "en"
	if l == locale.Japanese {
		lang = "ja-JP"
	}
	gen := button(l, locale.Generate)
	gen.OnClick = func(*browsertest.Page) { gen.Disabled = true }
	return browsertest.New().SetLang(lang).Add(
		button(l, locale.CreateNotebook),
		button(l, locale.AddSource),
		&browsertest.Element{CSS: notebook.ChipLabel.CSS, Text: " " + locale.Text(l, locale.Website) + " "},
		&browsertest.Element{CSS: notebook.ChipLabel.CSS, Text: locale.Text(l, locale.YouTube)},
		&browsertest.Element{CSS: notebook.URLInput.CSS},
		button(l, locale.Insert),
		gen,
	)
}

// audioPage builds the notebook page Retrieve navigates to.
type audioPage struct {
	Title       string
	Summary     string
	NeedsLoad   bool
	NoPlayer    bool
	NoOptions   bool
	NoLink      bool
	Href        string
	WithoutHref bool
}

func (a audioPage) install(p *browsertest.Page) {
	p.OnNavigate(func(p *browsertest.Page, _ string) {
		if a.Title != "" {
			p.Add(&browsertest.Element{CSS: notebook.TitleHeading.CSS, Text: "  " + a.Title + "\n"})
		}
		if a.Summary != "" {
			p.Add(&browsertest.Element{CSS: notebook.SummaryRegion.CSS, Text: a.Summary})
		}
		play := &browsertest.Element{CSS: buttonCSS, Label: locale.Text(locale.English, locale.PlayAudio)}
		switch {
		case a.NeedsLoad:
			load := button(locale.English, locale.LoadAudio)
			load.OnClick = func(p *browsertest.Page) { p.Add(play) }
			p.Add(load)
		case !a.NoPlayer:
			p.Add(play)
		}
		if !a.NoOptions {
			options := &browsertest.Element{CSS: buttonCSS, Label: locale.Text(locale.English, locale.AudioOptions)}
			options.OnClick = func(p *browsertest.Page) {
				if a.NoLink {
					return
				}
				link := &browsertest.Element{CSS: notebook.MenuLink.CSS, Text: "Download", Attrs: map[string]string{}}
				if !a.WithoutHref {
					link.Attrs["href"] = a.Href
				}
				p.Add(link)
			}
			p.Add(options)
		}
	})
}

// fakeFetcher records download requests.
type fakeFetcher struct {
	mu   sync.Mutex
	reqs []fetch.Request
	file *fetch.File
	err  error
}

func (f *fakeFetcher) Download(_ context.Context, req fetch.Request) (*fetch.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

// recorder collects events published on it.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func (r *recorder) stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if s, ok := e.(*events.RetrieveStage); ok {
			out = append(out, s.Stage)
		}
	}
	return out
}

// clickedTexts returns the text filter of every click on p.
func clickedTexts(t *testing.T, p *browsertest.Page) []string {
	t.Helper()
	var out []string
	for _, c := range p.CallsOf("click") {
		out = append(out, c.Sel.Text)
	}
	return out
}

var _ browser.Page = (*browsertest.Page)(nil)
