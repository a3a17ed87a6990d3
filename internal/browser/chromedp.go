package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// pollInterval is how often waits re-check the DOM.
const pollInterval = 250 * time.Millisecond

// chromePage implements Page on a chromedp tab context.
type chromePage struct {
	tab    context.Context // chromedp context owning the tab
	logger *slog.Logger
	refs   atomic.Uint64
	closed atomic.Bool
}

func newChromePage(tab context.Context, logger *slog.Logger) *chromePage {
	return &chromePage{tab: tab, logger: logger}
}

// bind returns a context that carries the tab and ends when either the tab
// or ctx ends. chromedp actions need the former; callers control the latter.
func (p *chromePage) bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if p.closed.Load() {
		return nil, nil, ErrNotConnected
	}
	runCtx, cancel := context.WithCancel(p.tab)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}, nil
}

func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, done, err := p.bind(ctx)
	if err != nil {
		return err
	}
	defer done()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return err
	}
	return nil
}

func (p *chromePage) eval(ctx context.Context, script string, res any) error {
	return p.run(ctx, chromedp.Evaluate(script, res))
}

func (p *chromePage) probe(ctx context.Context, sel Selector, tag bool) (probeResult, error) {
	ref := ""
	if tag {
		ref = strconv.FormatUint(p.refs.Add(1), 10)
	}
	var res probeResult
	if err := p.eval(ctx, probeScript(sel, ref), &res); err != nil {
		return probeResult{}, fmt.Errorf("query %s: %w", sel, err)
	}
	return res, nil
}

// waitFor polls sel until cond holds or ctx ends. Evaluation errors while the
// document is being replaced are treated as "not yet".
func (p *chromePage) waitFor(ctx context.Context, sel Selector, what string, cond func(probeResult) bool) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		res, err := p.probe(ctx, sel, false)
		if errors.Is(err, ErrNotConnected) {
			return err
		}
		if err == nil && cond(res) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s to be %s: %w", sel, what, ErrTimeout)
		case <-ticker.C:
		}
	}
}

// resolve tags the element sel points at and returns a CSS selector for it.
func (p *chromePage) resolve(ctx context.Context, sel Selector) (string, error) {
	res, err := p.probe(ctx, sel, true)
	if err != nil {
		return "", err
	}
	if res.Count == 0 {
		return "", fmt.Errorf("%s: %w", sel, ErrElementNotFound)
	}
	return refSelector(res.Ref), nil
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) URL(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("location: %w", err)
	}
	return loc, nil
}

func (p *chromePage) Lang(ctx context.Context) (string, error) {
	var lang string
	if err := p.eval(ctx, langScript, &lang); err != nil {
		return "", fmt.Errorf("document lang: %w", err)
	}
	return lang, nil
}

func (p *chromePage) WaitVisible(ctx context.Context, sel Selector) error {
	return p.waitFor(ctx, sel, "visible", func(r probeResult) bool { return r.Count > 0 && r.Visible })
}

func (p *chromePage) WaitEnabled(ctx context.Context, sel Selector) error {
	return p.waitFor(ctx, sel, "enabled", func(r probeResult) bool { return r.Count > 0 && r.Enabled })
}

func (p *chromePage) WaitDisabled(ctx context.Context, sel Selector) error {
	return p.waitFor(ctx, sel, "disabled", func(r probeResult) bool { return r.Count > 0 && !r.Enabled })
}

func (p *chromePage) WaitGone(ctx context.Context, sel Selector) error {
	return p.waitFor(ctx, sel, "gone", func(r probeResult) bool { return r.Count == 0 })
}

func (p *chromePage) Visible(ctx context.Context, sel Selector) (bool, error) {
	res, err := p.probe(ctx, sel, false)
	if err != nil {
		return false, err
	}
	return res.Count > 0 && res.Visible, nil
}

func (p *chromePage) Count(ctx context.Context, sel Selector) (int, error) {
	res, err := p.probe(ctx, sel, false)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (p *chromePage) Click(ctx context.Context, sel Selector) error {
	css, err := p.resolve(ctx, sel)
	if err != nil {
		return fmt.Errorf("click: %w", err)
	}
	if err := p.run(ctx, chromedp.Click(css, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

func (p *chromePage) Fill(ctx context.Context, sel Selector, value string) error {
	res, err := p.probe(ctx, sel, true)
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	if res.Count == 0 {
		return fmt.Errorf("fill %s: %w", sel, ErrElementNotFound)
	}
	var ok bool
	if err := p.eval(ctx, fillScript(res.Ref, value), &ok); err != nil {
		return fmt.Errorf("fill %s: %w", sel, err)
	}
	if !ok {
		return fmt.Errorf("fill %s: %w", sel, ErrElementNotFound)
	}
	return nil
}

func (p *chromePage) Text(ctx context.Context, sel Selector) (string, error) {
	css, err := p.resolve(ctx, sel)
	if err != nil {
		return "", fmt.Errorf("text: %w", err)
	}
	var text string
	if err := p.run(ctx, chromedp.Text(css, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("text %s: %w", sel, err)
	}
	return text, nil
}

func (p *chromePage) Texts(ctx context.Context, sel Selector) ([]string, error) {
	var texts []string
	if err := p.eval(ctx, textsScript(sel), &texts); err != nil {
		return nil, fmt.Errorf("texts %s: %w", sel, err)
	}
	return texts, nil
}

func (p *chromePage) Attribute(ctx context.Context, sel Selector, name string) (string, bool, error) {
	var res attrResult
	if err := p.eval(ctx, attributeScript(sel, name), &res); err != nil {
		return "", false, fmt.Errorf("attribute %s of %s: %w", name, sel, err)
	}
	if !res.Found {
		return "", false, fmt.Errorf("attribute %s of %s: %w", name, sel, ErrElementNotFound)
	}
	return res.Value, res.OK, nil
}

func (p *chromePage) ChooseFile(ctx context.Context, trigger Selector, path string) error {
	runCtx, done, err := p.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	opened := make(chan cdp.BackendNodeID, 1)
	listenCtx, stopListening := context.WithCancel(runCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev any) {
		if e, ok := ev.(*page.EventFileChooserOpened); ok {
			select {
			case opened <- e.BackendNodeID:
			default:
			}
		}
	})

	if err := chromedp.Run(runCtx, page.SetInterceptFileChooserDialog(true)); err != nil {
		return fmt.Errorf("intercept file chooser: %w", err)
	}
	defer func() {
		if p.closed.Load() {
			return
		}
		if err := chromedp.Run(p.tab, page.SetInterceptFileChooserDialog(false)); err != nil {
			p.logger.Debug("release file chooser intercept failed", "error", err)
		}
	}()

	if err := p.Click(ctx, trigger); err != nil {
		return err
	}

	select {
	case node := <-opened:
		if err := chromedp.Run(runCtx, dom.SetFileInputFiles([]string{path}).WithBackendNodeID(node)); err != nil {
			return fmt.Errorf("set file input: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("file chooser after clicking %s: %w", trigger, ErrTimeout)
	}
}

func (p *chromePage) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	var cookies []*network.Cookie
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("get cookies: %w", err)
	}
	return convertCookies(cookies), nil
}

func convertCookies(in []*network.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(in))
	for _, c := range in {
		hc := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		if c.Expires > 0 {
			hc.Expires = time.Unix(int64(c.Expires), 0)
		}
		out = append(out, hc)
	}
	return out
}

func (p *chromePage) close() {
	p.closed.Store(true)
}
