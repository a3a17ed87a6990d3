// Package publish drives the podcast console's episode upload wizard:
// open the wizard, upload the audio, fill in the details and publish.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/config"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/locale"
)

// Reason classifies a publish failure.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNotConnected Reason = "not_connected"
	ReasonNavigation   Reason = "navigation"
	ReasonFileMissing  Reason = "file_missing"
	ReasonUpload       Reason = "upload"
	ReasonDetails      Reason = "details"
	ReasonPublish      Reason = "publish"
	// ReasonTimeout is set by callers whose deadline ended the upload.
	ReasonTimeout Reason = "timeout"
)

// Wizard form fields.
var (
	TitleInput     = browser.CSS("input#title-input")
	DescriptionBox = browser.CSS("div[role='textbox'][name='description']")
	DetailsSubmit  = browser.CSS("button[type='submit'][form='details-form']")
	UploadAlerts   = browser.CSS("[role='alert'], .error-message, .upload-error")
)

// Episode is what gets published.
type Episode struct {
	Title       string
	Description string
	AudioPath   string
}

// Result is the outcome of one Publish call.
type Result struct {
	OK      bool
	Reason  Reason
	Message string
}

// Err returns nil on success.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &Error{Reason: r.Reason, Message: r.Message}
}

// Error is the error form of a failed Result.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string { return e.Message }

// Options configures the wizard steps.
type Options struct {
	WizardURL       string
	Locale          locale.Locale
	ForceLocale     bool
	NavigateTimeout time.Duration
	UploadTimeout   time.Duration
	StepTimeout     time.Duration

	// ScratchDir holds the per-call scratch directory. Empty uses the
	// system temp directory.
	ScratchDir string
}

// DefaultOptions mirrors the built-in configuration.
func DefaultOptions() Options {
	return Options{
		WizardURL:       config.DefaultWizardURL,
		NavigateTimeout: 60 * time.Second,
		UploadTimeout:   5 * time.Minute,
		StepTimeout:     30 * time.Second,
	}
}

// OptionsFromConfig builds Options from the [publish], [notebook] and
// [browser] sections. The locale override applies to both web apps.
func OptionsFromConfig(pub config.PublishConfig, nb config.NotebookConfig, br config.BrowserConfig) (Options, error) {
	l, forced, err := locale.Parse(nb.Locale)
	if err != nil {
		return Options{}, err
	}
	return Options{
		WizardURL:       pub.WizardURL,
		Locale:          l,
		ForceLocale:     forced,
		NavigateTimeout: br.NavigateTimeout,
		UploadTimeout:   pub.UploadTimeout,
		StepTimeout:     pub.StepTimeout,
	}, nil
}

// Publisher runs the upload wizard on a page.
type Publisher struct {
	opts Options
	sink events.Sink
	log  *slog.Logger
}

// NewPublisher creates a publisher. A nil sink discards events.
func NewPublisher(opts Options, sink events.Sink, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = events.Discard
	}
	if opts.WizardURL == "" {
		opts.WizardURL = config.DefaultWizardURL
	}
	return &Publisher{opts: opts, sink: sink, log: log.With("component", "publish")}
}

// Publish uploads ep through the wizard, reporting progress at 0, 25, 50, 75
// and 100 percent. Every failure is converted into the result.
func (p *Publisher) Publish(ctx context.Context, page browser.Page, ep Episode, progress events.Reporter) Result {
	if page == nil {
		return p.fail(ctx, ep, ReasonNotConnected, "Not connected to browser")
	}
	progress.Report(ctx, "Starting upload", 0)

	scratch, err := os.MkdirTemp(p.opts.ScratchDir, "nbpod_publish_*")
	if err != nil {
		return p.fail(ctx, ep, ReasonFileMissing, fmt.Sprintf("Error during upload: scratch directory: %v", err))
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			p.log.Warn("failed to remove scratch directory", "dir", scratch, "error", err)
		}
	}()

	table, err := p.openWizard(ctx, page)
	if err != nil {
		return p.fail(ctx, ep, ReasonNavigation, fmt.Sprintf("Error during upload: open wizard: %v", err))
	}
	progress.Report(ctx, "Upload page ready", 25)

	if err := p.upload(ctx, page, table, ep, scratch); err != nil {
		if errors.Is(err, ErrFileMissing) {
			return p.fail(ctx, ep, ReasonFileMissing, fmt.Sprintf("Error during upload: %v", err))
		}
		return p.fail(ctx, ep, ReasonUpload, fmt.Sprintf("Error during upload: %v", err))
	}
	progress.Report(ctx, "Audio uploaded", 50)

	if err := p.fillDetails(ctx, page, table, ep); err != nil {
		return p.fail(ctx, ep, ReasonDetails, fmt.Sprintf("Error during upload: episode details: %v", err))
	}
	progress.Report(ctx, "Episode details saved", 75)

	publish := browser.Button(table.Text(locale.PublishEpisode))
	err = within(ctx, p.opts.StepTimeout, func(ctx context.Context) error {
		if err := page.WaitEnabled(ctx, publish); err != nil {
			return err
		}
		return page.Click(ctx, publish)
	})
	if err != nil {
		return p.fail(ctx, ep, ReasonPublish, fmt.Sprintf("Error during upload: publish: %v", err))
	}
	progress.Report(ctx, "Episode published", 100)

	p.log.Info("episode published", "title", ep.Title)
	events.Emit(ctx, p.sink, &events.PublishCompleted{
		BaseEvent: events.NewBaseEvent(events.EventPublishCompleted, events.EntityEpisode, ep.AudioPath),
		Title:     ep.Title,
	})
	return Result{OK: true, Message: "Successfully uploaded episode"}
}

func (p *Publisher) fail(ctx context.Context, ep Episode, reason Reason, msg string) Result {
	p.log.Warn("publish failed", "title", ep.Title, "reason", reason, "message", msg)
	events.Emit(ctx, p.sink, &events.PublishFailed{
		BaseEvent: events.NewBaseEvent(events.EventPublishFailed, events.EntityEpisode, ep.AudioPath),
		Reason:    string(reason),
		Message:   msg,
	})
	return Result{Reason: reason, Message: msg}
}

// openWizard navigates to the wizard and waits for its file picker.
func (p *Publisher) openWizard(ctx context.Context, page browser.Page) (locale.Table, error) {
	err := within(ctx, p.opts.NavigateTimeout, func(ctx context.Context) error {
		return page.Navigate(ctx, p.opts.WizardURL)
	})
	if err != nil {
		return locale.Table{}, err
	}

	l := p.opts.Locale
	if !p.opts.ForceLocale {
		lang, err := page.Lang(ctx)
		if err != nil {
			p.log.Warn("could not read page language, using English", "error", err)
		}
		l = locale.Detect(lang)
	}
	table := locale.For(l)

	err = within(ctx, p.opts.StepTimeout, func(ctx context.Context) error {
		return page.WaitVisible(ctx, browser.Button(table.Text(locale.SelectFile)))
	})
	return table, err
}

// upload hands the staged audio to the file picker and waits for the
// wizard's next step. If that never appears the page's error banners, if
// any, become the error.
func (p *Publisher) upload(ctx context.Context, page browser.Page, table locale.Table, ep Episode, scratch string) error {
	staged, err := stageAudio(ep.AudioPath, scratch, ep.Title)
	if err != nil {
		return err
	}

	trigger := browser.Button(table.Text(locale.SelectFile))
	err = within(ctx, p.opts.StepTimeout, func(ctx context.Context) error {
		return page.ChooseFile(ctx, trigger, staged)
	})
	if err != nil {
		return fmt.Errorf("choose file: %w", err)
	}
	p.log.Debug("audio handed to file picker", "path", staged)

	next := browser.Button(table.Text(locale.Next))
	err = within(ctx, p.opts.UploadTimeout, func(ctx context.Context) error {
		return page.WaitVisible(ctx, next)
	})
	if err == nil {
		return nil
	}
	if alert := p.alertText(ctx, page); alert != "" {
		return fmt.Errorf("%w: Upload failed with error: %s", ErrUploadRejected, alert)
	}
	return fmt.Errorf("wait for upload: %w", err)
}

// alertText joins the non-empty text of every error banner on the page.
func (p *Publisher) alertText(ctx context.Context, page browser.Page) string {
	texts, err := page.Texts(context.WithoutCancel(ctx), UploadAlerts)
	if err != nil {
		p.log.Debug("could not read upload alerts", "error", err)
		return ""
	}
	var lines []string
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// fillDetails types the title and description and submits the form. Each
// wait gets the step timeout of its own.
func (p *Publisher) fillDetails(ctx context.Context, page browser.Page, table locale.Table, ep Episode) error {
	step := func(fn func(ctx context.Context) error) error {
		return within(ctx, p.opts.StepTimeout, fn)
	}
	steps := []func(ctx context.Context) error{
		func(ctx context.Context) error {
			if err := page.WaitVisible(ctx, TitleInput); err != nil {
				return err
			}
			return page.Fill(ctx, TitleInput, ep.Title)
		},
		func(ctx context.Context) error {
			if err := page.WaitVisible(ctx, DescriptionBox); err != nil {
				return err
			}
			if err := page.Click(ctx, DescriptionBox); err != nil {
				return err
			}
			return page.Fill(ctx, DescriptionBox, ep.Description)
		},
		func(ctx context.Context) error {
			if err := page.WaitEnabled(ctx, DetailsSubmit); err != nil {
				return err
			}
			return page.Click(ctx, DetailsSubmit)
		},
		func(ctx context.Context) error {
			return page.WaitVisible(ctx, browser.Button(table.Text(locale.PublishEpisode)))
		},
	}
	for _, fn := range steps {
		if err := step(fn); err != nil {
			return err
		}
	}
	return nil
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
