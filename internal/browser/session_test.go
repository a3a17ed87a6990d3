package browser

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionsFor(t *testing.T, srv *httptest.Server) Options {
	t.Helper()
	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return Options{Host: host, Port: p, HTTPClient: srv.Client()}
}

func TestConnect_Refused(t *testing.T) {
	srv := devtoolsServer(t, testVersion, `[]`)
	opts := optionsFor(t, srv)
	srv.Close()

	s, err := Connect(context.Background(), opts)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, IsConnectionError(err))

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "probe", connErr.Op)
	assert.Equal(t, opts.Endpoint(), connErr.Endpoint)
}

func TestConnect_NoContext(t *testing.T) {
	srv := devtoolsServer(t, testVersion, `[{"id":"2","type":"service_worker"}]`)

	_, err := Connect(context.Background(), optionsFor(t, srv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoContext)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{ViewportWidth: 800}.withDefaults()

	assert.Equal(t, "localhost", opts.Host)
	assert.Equal(t, 9222, opts.Port)
	assert.Equal(t, MinViewportWidth, opts.ViewportWidth, "viewport is widened to the three-column minimum")
	assert.Equal(t, 800, opts.ViewportHeight)
	assert.NotNil(t, opts.Logger)
	assert.Equal(t, "localhost:9222", opts.Endpoint())
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, IsConnectionError(nil))
	assert.False(t, IsConnectionError(errors.New("other")))
	assert.True(t, IsConnectionError(&ConnectionError{Op: "navigate", Err: ErrTimeout}))
}

func TestLaunchHint(t *testing.T) {
	assert.Contains(t, LaunchHint(9333), "--remote-debugging-port=9333")
}
