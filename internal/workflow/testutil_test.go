package workflow_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vmunix/nbpod/internal/browser/browsertest"
	"github.com/vmunix/nbpod/internal/fetch"
	"github.com/vmunix/nbpod/internal/locale"
	"github.com/vmunix/nbpod/internal/migrations"
	"github.com/vmunix/nbpod/internal/notebook"
	"github.com/vmunix/nbpod/internal/publish"
	"github.com/vmunix/nbpod/internal/runs"
	"github.com/vmunix/nbpod/internal/workflow"
	_ "modernc.org/sqlite"
)

const (
	buttonCSS = "button, [role='button']"
	wizardURL = "https://console.example/episode/wizard"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *runs.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.Apply(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return runs.NewStore(db)
}

func testOptions(t *testing.T) workflow.Options {
	nb := notebook.Options{Timeouts: notebook.DefaultTimeouts()}
	nb.Timeouts.Settle = 0
	pub := publish.DefaultOptions()
	pub.WizardURL = wizardURL
	pub.ScratchDir = t.TempDir()
	return workflow.Options{
		Notebook:       nb,
		Publish:        pub,
		PublishEnabled: true,
		ReuseSession:   true,
		Workers:        1,
	}
}

func btn(k locale.Key) *browsertest.Element {
	return &browsertest.Element{CSS: buttonCSS, Text: locale.Text(locale.English, k)}
}

// notebookSpec shapes the notebook page served for one URL.
type notebookSpec struct {
	Title     string
	Summary   string
	NoOptions bool
}

// site serves notebook pages and the upload wizard on one fake tab.
type site struct {
	notebooks map[string]notebookSpec
	// stuckUpload leaves the wizard waiting for the uploaded file until the
	// caller's deadline.
	stuckUpload bool
}

func (s site) page() *browsertest.Page {
	p := browsertest.New()
	if s.stuckUpload {
		next := locale.Text(locale.English, locale.Next)
		p.Stall(func(c browsertest.Call) bool { return c.Op == "wait_visible" && c.Sel.Text == next })
	}
	p.OnNavigate(func(p *browsertest.Page, url string) {
		if url == wizardURL {
			s.wizard(p)
			return
		}
		s.notebook(p, s.notebooks[url])
	})
	return p
}

func (s site) notebook(p *browsertest.Page, spec notebookSpec) {
	if spec.Title != "" {
		p.Add(&browsertest.Element{CSS: notebook.TitleHeading.CSS, Text: spec.Title})
	}
	if spec.Summary != "" {
		p.Add(&browsertest.Element{CSS: notebook.SummaryRegion.CSS, Text: spec.Summary})
	}
	p.Add(&browsertest.Element{CSS: buttonCSS, Label: locale.Text(locale.English, locale.PlayAudio)})
	if spec.NoOptions {
		return
	}
	options := &browsertest.Element{CSS: buttonCSS, Label: locale.Text(locale.English, locale.AudioOptions)}
	options.OnClick = func(p *browsertest.Page) {
		p.Add(&browsertest.Element{
			CSS:   notebook.MenuLink.CSS,
			Text:  "Download",
			Attrs: map[string]string{"href": "https://cdn.example/audio.mp3"},
		})
	}
	p.Add(options)
}

func (s site) wizard(p *browsertest.Page) {
	picker := btn(locale.SelectFile)
	picker.OnClick = func(p *browsertest.Page) {
		if s.stuckUpload {
			return
		}
		submit := &browsertest.Element{CSS: publish.DetailsSubmit.CSS}
		submit.OnClick = func(p *browsertest.Page) { p.Add(btn(locale.PublishEpisode)) }
		p.Add(btn(locale.Next),
			&browsertest.Element{CSS: publish.TitleInput.CSS},
			&browsertest.Element{CSS: publish.DescriptionBox.CSS},
			submit)
	}
	p.Add(picker)
}

// sourceDialog is a notebook home page whose add-source flow succeeds.
func sourceDialog() *browsertest.Page {
	gen := btn(locale.Generate)
	gen.OnClick = func(*browsertest.Page) { gen.Disabled = true }
	return browsertest.New().Add(
		btn(locale.CreateNotebook),
		btn(locale.AddSource),
		&browsertest.Element{CSS: notebook.ChipLabel.CSS, Text: "Website"},
		&browsertest.Element{CSS: notebook.ChipLabel.CSS, Text: "YouTube"},
		&browsertest.Element{CSS: notebook.URLInput.CSS},
		btn(locale.Insert),
		gen,
	)
}

// diskFetcher writes a small file for every request, in request order.
type diskFetcher struct {
	mu    sync.Mutex
	reqs  []fetch.Request
	block bool
}

func (f *diskFetcher) Download(ctx context.Context, req fetch.Request) (*fetch.File, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	n := len(f.reqs)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	path := filepath.Join(req.Dir, fmt.Sprintf("%02d.mp3", n))
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return nil, err
	}
	return &fetch.File{Path: path, Dir: req.Dir, Size: 5}, nil
}

func (f *diskFetcher) referers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.reqs {
		out = append(out, r.Referer)
	}
	return out
}
