package browsertest

import (
	"context"
	"sync"

	"github.com/vmunix/nbpod/internal/browser"
)

// Dialer is a browser.Dialer handing out fake pages.
type Dialer struct {
	// NewPage builds the page for each dial. Nil returns New().
	NewPage func() *Page
	// Err, when set, fails every dial from the FailFrom-th on (1-based).
	// FailFrom zero fails them all.
	Err      error
	FailFrom int

	mu    sync.Mutex
	dials int
	conns []*Conn
}

var _ browser.Dialer = (*Dialer)(nil)

func (d *Dialer) Dial(_ context.Context, _ browser.Options) (browser.Conn, error) {
	d.mu.Lock()
	d.dials++
	n := d.dials
	d.mu.Unlock()
	if d.Err != nil && n >= d.FailFrom {
		return nil, d.Err
	}
	page := New()
	if d.NewPage != nil {
		page = d.NewPage()
	}
	c := &Conn{page: page}
	d.mu.Lock()
	d.conns = append(d.conns, c)
	d.mu.Unlock()
	return c, nil
}

// Conns returns every connection dialed so far.
func (d *Dialer) Conns() []*Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Conn(nil), d.conns...)
}

// Conn is a fake session.
type Conn struct {
	page *Page

	mu     sync.Mutex
	closes int
}

func (c *Conn) Page() browser.Page { return c.page }

// FakePage returns the concrete fake behind Page.
func (c *Conn) FakePage() *Page { return c.page }

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

// Closed reports whether Close was called at least once.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes > 0
}
