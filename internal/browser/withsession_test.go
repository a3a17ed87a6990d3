package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/browser/browsertest"
)

func TestWithSession_ClosesOnSuccess(t *testing.T) {
	d := &browsertest.Dialer{}

	var got browser.Page
	err := browser.WithSession(context.Background(), d, browser.Options{}, func(_ context.Context, p browser.Page) error {
		got = p
		return nil
	})

	require.NoError(t, err)
	require.Len(t, d.Conns(), 1)
	assert.Same(t, d.Conns()[0].FakePage(), got)
	assert.True(t, d.Conns()[0].Closed())
}

func TestWithSession_ClosesOnError(t *testing.T) {
	d := &browsertest.Dialer{}
	boom := errors.New("boom")

	err := browser.WithSession(context.Background(), d, browser.Options{}, func(context.Context, browser.Page) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.True(t, d.Conns()[0].Closed())
}

func TestWithSession_DialError(t *testing.T) {
	dialErr := &browser.ConnectionError{Endpoint: "localhost:9222", Op: "probe", Err: errors.New("connection refused")}
	d := &browsertest.Dialer{Err: dialErr}
	called := false

	err := browser.WithSession(context.Background(), d, browser.Options{}, func(context.Context, browser.Page) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.True(t, browser.IsConnectionError(err))
	assert.False(t, called)
}
