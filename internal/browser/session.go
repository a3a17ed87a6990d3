package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// MinViewportWidth is the narrowest viewport at which the notebook tool
// renders its three-column layout.
const MinViewportWidth = 1261

// Options configures Connect.
type Options struct {
	Host            string
	Port            int
	ViewportWidth   int
	ViewportHeight  int
	StartURL        string
	NavigateTimeout time.Duration

	// HTTPClient is used for the DevTools HTTP probe. Nil uses a client with
	// a short timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Endpoint returns host:port.
func (o Options) Endpoint() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = "localhost"
	}
	if o.Port == 0 {
		o.Port = 9222
	}
	if o.ViewportWidth < MinViewportWidth {
		o.ViewportWidth = MinViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = 800
	}
	if o.NavigateTimeout <= 0 {
		o.NavigateTimeout = 60 * time.Second
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Conn is a connected session as seen by callers that only need its page.
type Conn interface {
	Page() Page
	Close() error
}

// Dialer opens sessions. ChromeDialer is the production implementation.
type Dialer interface {
	Dial(ctx context.Context, opts Options) (Conn, error)
}

// ChromeDialer dials a running Chrome through Connect.
type ChromeDialer struct{}

func (ChromeDialer) Dial(ctx context.Context, opts Options) (Conn, error) {
	return Connect(ctx, opts)
}

// Session owns one DevTools connection and one tab opened on it.
type Session struct {
	endpoint    string
	page        *chromePage
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	logger      *slog.Logger

	closeOnce sync.Once
}

// Connect attaches to the browser at opts.Endpoint(), opens a new tab, sizes
// the viewport and navigates to opts.StartURL. The browser must already have
// at least one open page. Every failure is a *ConnectionError and releases
// whatever was acquired.
func Connect(ctx context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	endpoint := opts.Endpoint()
	logger := opts.Logger.With("component", "browser", "endpoint", endpoint)
	fail := func(op string, err error) (*Session, error) {
		return nil, &ConnectionError{Endpoint: endpoint, Op: op, Err: err}
	}

	dt := NewDevTools(endpoint, opts.HTTPClient)
	info, err := dt.Version(ctx)
	if err != nil {
		return fail("probe", err)
	}
	targets, err := dt.Targets(ctx)
	if err != nil {
		return fail("list targets", err)
	}
	if PageCount(targets) == 0 {
		return fail("list targets", ErrNoContext)
	}
	logger.Debug("devtools endpoint found", "browser", info.Browser, "pages", PageCount(targets))

	// The allocator outlives ctx: the session ends on Close, not when the
	// caller's dial context does.
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), info.WebSocketDebuggerURL, chromedp.NoModifyURL)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		endpoint:    endpoint,
		page:        newChromePage(tabCtx, logger),
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		logger:      logger,
	}

	// The first Run allocates the connection and must use the tab context
	// itself; its cancellation is what tears the connection down.
	opened := make(chan error, 1)
	go func() { opened <- chromedp.Run(tabCtx) }()
	select {
	case err = <-opened:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		_ = s.Close()
		return fail("open tab", err)
	}
	if err := s.page.run(ctx, emulation.SetDeviceMetricsOverride(int64(opts.ViewportWidth), int64(opts.ViewportHeight), 1, false)); err != nil {
		_ = s.Close()
		return fail("viewport", err)
	}

	if opts.StartURL != "" {
		navCtx, cancel := context.WithTimeout(ctx, opts.NavigateTimeout)
		err := s.page.Navigate(navCtx, opts.StartURL)
		cancel()
		if err != nil {
			_ = s.Close()
			return fail("navigate", err)
		}
	}

	logger.Info("browser session opened", "start_url", opts.StartURL)
	return s, nil
}

// Page returns the session's tab.
func (s *Session) Page() Page {
	return s.page
}

// Close closes the tab and drops the connection. The browser itself keeps
// running. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.page.close()
		s.tabCancel()
		s.allocCancel()
		s.logger.Debug("browser session closed")
	})
	return nil
}

// WithSession dials a session, runs fn with its page and closes the session
// whatever fn returns.
func WithSession(ctx context.Context, d Dialer, opts Options, fn func(ctx context.Context, p Page) error) error {
	conn, err := d.Dial(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := fn(ctx, conn.Page()); err != nil {
		return fmt.Errorf("session %s: %w", opts.Endpoint(), err)
	}
	return nil
}
