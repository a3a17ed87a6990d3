package workflow

import (
	"time"

	"github.com/vmunix/nbpod/internal/batch"
	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/config"
	"github.com/vmunix/nbpod/internal/notebook"
	"github.com/vmunix/nbpod/internal/publish"
	"golang.org/x/time/rate"
)

// Options configures both workflows.
type Options struct {
	Browser  browser.Options
	Notebook notebook.Options
	Publish  publish.Options

	// PublishEnabled uploads every downloaded artifact.
	PublishEnabled bool
	// OutputDir receives the audio files. Empty uses a temp directory that
	// is removed once every item has been published.
	OutputDir string
	// ReuseSession downloads and publishes in the same tab. Otherwise the
	// upload gets a fresh session.
	ReuseSession bool

	Workers       int
	ItemTimeout   time.Duration
	StartInterval time.Duration
}

// FromConfig builds Options from a loaded configuration.
func FromConfig(cfg *config.Config) (Options, error) {
	nb, err := notebook.OptionsFromConfig(cfg.Notebook, cfg.Browser)
	if err != nil {
		return Options{}, err
	}
	pub, err := publish.OptionsFromConfig(cfg.Publish, cfg.Notebook, cfg.Browser)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Browser: browser.Options{
			Host:            cfg.Browser.Host,
			Port:            cfg.Browser.Port,
			ViewportWidth:   cfg.Browser.ViewportWidth,
			ViewportHeight:  cfg.Browser.ViewportHeight,
			StartURL:        cfg.Browser.StartURL,
			NavigateTimeout: cfg.Browser.NavigateTimeout,
		},
		Notebook:       nb,
		Publish:        pub,
		PublishEnabled: cfg.Publish.Enabled,
		OutputDir:      cfg.Download.OutputDir,
		ReuseSession:   cfg.Batch.ReuseSession,
		Workers:        cfg.Batch.Workers,
		ItemTimeout:    cfg.Batch.ItemTimeout,
		StartInterval:  cfg.Batch.StartInterval,
	}, nil
}

func (o Options) pool() batch.Pool {
	p := batch.Pool{Workers: o.Workers, ItemTimeout: o.ItemTimeout}
	if o.StartInterval > 0 && o.Workers > 1 {
		p.Limiter = rate.NewLimiter(rate.Every(o.StartInterval), 1)
	}
	return p
}
