package browser

import (
	"errors"
	"fmt"
)

// Sentinel errors for the browser package.
var (
	// ErrConnection is the category every session-level failure belongs to.
	ErrConnection = errors.New("browser connection failed")

	// ErrNoContext is returned when the browser exposes no open page.
	ErrNoContext = errors.New("no browser context available")

	// ErrNotConnected is returned when a page is used after its session closed.
	ErrNotConnected = errors.New("not connected")

	// ErrElementNotFound is returned when a selector matches nothing.
	ErrElementNotFound = errors.New("element not found")

	// ErrTimeout is returned when a wait condition is not met before the
	// context deadline.
	ErrTimeout = errors.New("timed out")
)

// ConnectionError reports a failure while establishing a session. It matches
// both ErrConnection and its cause under errors.Is.
type ConnectionError struct {
	Endpoint string
	Op       string // "probe", "list targets", "open tab", "viewport", "navigate"
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %s: %v", e.Endpoint, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

// IsConnectionError reports whether err belongs to the connection category.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// LaunchHint returns the command line that starts Chrome with a debugging
// endpoint nbpod can attach to.
func LaunchHint(port int) string {
	return fmt.Sprintf("google-chrome --remote-debugging-port=%d --user-data-dir=./chrome-user-data --window-size=1280,800", port)
}
