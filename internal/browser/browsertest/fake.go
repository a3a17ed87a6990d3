// Package browsertest provides an in-memory browser.Page for tests.
//
// The fake DOM is a flat list of elements keyed by the exact CSS string a
// caller uses. State only changes through actions (and their OnClick hooks),
// so a wait whose condition does not already hold fails immediately with
// browser.ErrTimeout instead of blocking.
package browsertest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/vmunix/nbpod/internal/browser"
)

// Element is one node of the fake DOM.
type Element struct {
	CSS      string
	Text     string
	Label    string // aria-label
	Hidden   bool
	Disabled bool
	Attrs    map[string]string

	// OnClick runs after the element is clicked, with the page lock released.
	OnClick func(p *Page)
}

// Call records one page operation.
type Call struct {
	Op    string
	Sel   browser.Selector
	Value string
}

// Page is a scriptable browser.Page.
type Page struct {
	mu         sync.Mutex
	lang       string
	url        string
	elements   []*Element
	calls      []Call
	cookies    []*http.Cookie
	fault      func(Call) error
	stall      func(Call) bool
	onNavigate func(p *Page, url string)
	values     map[string]string
	files      []string
}

var _ browser.Page = (*Page)(nil)

// New returns an empty page at about:blank with lang "en".
func New() *Page {
	return &Page{lang: "en", url: "about:blank", values: make(map[string]string)}
}

// SetLang sets document.documentElement.lang.
func (p *Page) SetLang(lang string) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lang = lang
	return p
}

// Add appends elements to the DOM.
func (p *Page) Add(els ...*Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements = append(p.elements, els...)
	return p
}

// Remove drops every element matching sel.
func (p *Page) Remove(sel browser.Selector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.elements[:0]
	for _, el := range p.elements {
		if !matches(el, sel) {
			kept = append(kept, el)
		}
	}
	p.elements = kept
}

// Reset removes every element.
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements = nil
}

// SetCookies sets what Cookies returns.
func (p *Page) SetCookies(cookies ...*http.Cookie) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cookies = cookies
	return p
}

// OnNavigate registers fn to build the DOM after each navigation. The DOM is
// cleared before fn runs.
func (p *Page) OnNavigate(fn func(p *Page, url string)) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onNavigate = fn
	return p
}

// FailWhen makes every operation for which fn returns an error fail with it.
func (p *Page) FailWhen(fn func(Call) error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fault = fn
	return p
}

// Stall makes unmet waits for which fn returns true block until their
// context is done, like a real wait running into its deadline.
func (p *Page) Stall(fn func(Call) bool) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stall = fn
	return p
}

// Calls returns the operations performed so far.
func (p *Page) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// CallsOf returns the recorded operations named op.
func (p *Page) CallsOf(op string) []Call {
	var out []Call
	for _, c := range p.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Value returns what was last filled into sel.
func (p *Page) Value(sel browser.Selector) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[sel.String()]
}

// Files returns the paths handed to file choosers.
func (p *Page) Files() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.files...)
}

func matches(el *Element, sel browser.Selector) bool {
	return el.CSS == sel.CSS && sel.MatchesText(el.Text, el.Label)
}

// record logs the call and applies any injected fault. Callers hold p.mu.
func (p *Page) record(c Call) error {
	p.calls = append(p.calls, c)
	if p.fault != nil {
		return p.fault(c)
	}
	return nil
}

// find returns all matches and the one an action uses. Callers hold p.mu.
func (p *Page) find(sel browser.Selector) ([]*Element, *Element) {
	var all []*Element
	var first *Element
	for _, el := range p.elements {
		if !matches(el, sel) {
			continue
		}
		all = append(all, el)
		if first == nil && !el.Hidden {
			first = el
		}
	}
	if first == nil && len(all) > 0 {
		first = all[0]
	}
	return all, first
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	if err := p.record(Call{Op: "navigate", Value: url}); err != nil {
		p.mu.Unlock()
		return err
	}
	if err := ctx.Err(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("navigate %s: %w", url, browser.ErrTimeout)
	}
	p.url = url
	p.elements = nil
	fn := p.onNavigate
	p.mu.Unlock()

	if fn != nil {
		fn(p, url)
	}
	return nil
}

func (p *Page) URL(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

func (p *Page) Lang(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "lang"}); err != nil {
		return "", err
	}
	return p.lang, nil
}

func (p *Page) wait(ctx context.Context, op string, sel browser.Selector, cond func(all []*Element, el *Element) bool) error {
	p.mu.Lock()
	call := Call{Op: op, Sel: sel}
	if err := p.record(call); err != nil {
		p.mu.Unlock()
		return err
	}
	if err := ctx.Err(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("%s %s: %w: %w", op, sel, browser.ErrTimeout, err)
	}
	all, el := p.find(sel)
	met := cond(all, el)
	stall := p.stall != nil && p.stall(call)
	p.mu.Unlock()

	if met {
		return nil
	}
	if stall {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s %s: %w: %w", op, sel, browser.ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w", op, sel, browser.ErrTimeout)
}

func (p *Page) WaitVisible(ctx context.Context, sel browser.Selector) error {
	return p.wait(ctx, "wait_visible", sel, func(_ []*Element, el *Element) bool {
		return el != nil && !el.Hidden
	})
}

func (p *Page) WaitEnabled(ctx context.Context, sel browser.Selector) error {
	return p.wait(ctx, "wait_enabled", sel, func(_ []*Element, el *Element) bool {
		return el != nil && !el.Disabled
	})
}

func (p *Page) WaitDisabled(ctx context.Context, sel browser.Selector) error {
	return p.wait(ctx, "wait_disabled", sel, func(_ []*Element, el *Element) bool {
		return el != nil && el.Disabled
	})
}

func (p *Page) WaitGone(ctx context.Context, sel browser.Selector) error {
	return p.wait(ctx, "wait_gone", sel, func(all []*Element, _ *Element) bool {
		return len(all) == 0
	})
}

func (p *Page) Visible(_ context.Context, sel browser.Selector) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "visible", Sel: sel}); err != nil {
		return false, err
	}
	_, el := p.find(sel)
	return el != nil && !el.Hidden, nil
}

func (p *Page) Count(_ context.Context, sel browser.Selector) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "count", Sel: sel}); err != nil {
		return 0, err
	}
	all, _ := p.find(sel)
	return len(all), nil
}

func (p *Page) Click(_ context.Context, sel browser.Selector) error {
	p.mu.Lock()
	if err := p.record(Call{Op: "click", Sel: sel}); err != nil {
		p.mu.Unlock()
		return err
	}
	_, el := p.find(sel)
	if el == nil || el.Hidden {
		p.mu.Unlock()
		return fmt.Errorf("click %s: %w", sel, browser.ErrElementNotFound)
	}
	onClick := el.OnClick
	p.mu.Unlock()

	if onClick != nil {
		onClick(p)
	}
	return nil
}

func (p *Page) Fill(_ context.Context, sel browser.Selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "fill", Sel: sel, Value: value}); err != nil {
		return err
	}
	if _, el := p.find(sel); el == nil {
		return fmt.Errorf("fill %s: %w", sel, browser.ErrElementNotFound)
	}
	p.values[sel.String()] = value
	return nil
}

func (p *Page) Text(_ context.Context, sel browser.Selector) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "text", Sel: sel}); err != nil {
		return "", err
	}
	_, el := p.find(sel)
	if el == nil {
		return "", fmt.Errorf("text %s: %w", sel, browser.ErrElementNotFound)
	}
	return el.Text, nil
}

func (p *Page) Texts(_ context.Context, sel browser.Selector) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "texts", Sel: sel}); err != nil {
		return nil, err
	}
	all, _ := p.find(sel)
	texts := make([]string, 0, len(all))
	for _, el := range all {
		texts = append(texts, el.Text)
	}
	return texts, nil
}

func (p *Page) Attribute(_ context.Context, sel browser.Selector, name string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "attribute", Sel: sel, Value: name}); err != nil {
		return "", false, err
	}
	_, el := p.find(sel)
	if el == nil {
		return "", false, fmt.Errorf("attribute %s of %s: %w", name, sel, browser.ErrElementNotFound)
	}
	v, ok := el.Attrs[name]
	return v, ok, nil
}

func (p *Page) ChooseFile(ctx context.Context, trigger browser.Selector, path string) error {
	if err := p.Click(ctx, trigger); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "choose_file", Sel: trigger, Value: path}); err != nil {
		return err
	}
	p.files = append(p.files, path)
	return nil
}

func (p *Page) Cookies(context.Context) ([]*http.Cookie, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "cookies"}); err != nil {
		return nil, err
	}
	return append([]*http.Cookie(nil), p.cookies...), nil
}
