// Package browser attaches to a running Chrome over the DevTools protocol and
// exposes the page operations the notebook and publish steps are written
// against.
package browser

//go:generate mockgen -source=page.go -destination=mocks/page.go -package=mocks

import (
	"context"
	"net/http"
	"strings"
)

// Selector locates elements. CSS picks candidates; when Text is set only
// candidates whose visible text or aria-label contains it (case and
// whitespace insensitive) match. The first visible match wins.
type Selector struct {
	CSS  string
	Text string
}

// CSS returns a selector with no text filter.
func CSS(css string) Selector {
	return Selector{CSS: css}
}

// Button matches buttons (native or role=button) labelled text.
func Button(text string) Selector {
	return Selector{CSS: "button, [role='button']", Text: text}
}

// WithText returns a copy of s filtered by text.
func (s Selector) WithText(text string) Selector {
	s.Text = text
	return s
}

func (s Selector) String() string {
	if s.Text == "" {
		return s.CSS
	}
	return s.CSS + ` has-text("` + s.Text + `")`
}

// MatchesText applies the Selector text filter to an element's text and
// aria-label. Implementations of Page share it so filtering is uniform.
func (s Selector) MatchesText(text, ariaLabel string) bool {
	if s.Text == "" {
		return true
	}
	want := normalize(s.Text)
	return strings.Contains(normalize(text), want) || strings.Contains(normalize(ariaLabel), want)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Page is one browser tab. Wait methods block until the condition holds or
// ctx is done; callers bound them with context.WithTimeout.
type Page interface {
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	// Lang returns document.documentElement.lang.
	Lang(ctx context.Context) (string, error)

	WaitVisible(ctx context.Context, sel Selector) error
	WaitEnabled(ctx context.Context, sel Selector) error
	WaitDisabled(ctx context.Context, sel Selector) error
	// WaitGone waits until nothing matches sel.
	WaitGone(ctx context.Context, sel Selector) error

	Visible(ctx context.Context, sel Selector) (bool, error)
	Count(ctx context.Context, sel Selector) (int, error)

	Click(ctx context.Context, sel Selector) error
	// Fill replaces the value of an input, or the content of a
	// contenteditable region.
	Fill(ctx context.Context, sel Selector, value string) error
	Text(ctx context.Context, sel Selector) (string, error)
	Texts(ctx context.Context, sel Selector) ([]string, error)
	Attribute(ctx context.Context, sel Selector, name string) (string, bool, error)

	// ChooseFile clicks trigger and answers the file chooser it opens with
	// path.
	ChooseFile(ctx context.Context, trigger Selector, path string) error

	// Cookies returns every cookie in the browser context.
	Cookies(ctx context.Context) ([]*http.Cookie, error)
}
