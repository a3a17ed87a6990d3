package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// VersionInfo is the subset of /json/version nbpod uses.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	UserAgent            string `json:"User-Agent"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Target is one entry of /json/list.
type Target struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// DevTools queries the HTTP side of a remote-debugging endpoint.
type DevTools struct {
	base   string
	client *http.Client
}

// NewDevTools returns a client for http://endpoint. A nil client uses
// http.DefaultClient.
func NewDevTools(endpoint string, client *http.Client) *DevTools {
	if client == nil {
		client = http.DefaultClient
	}
	return &DevTools{base: "http://" + endpoint, client: client}
}

// Version probes /json/version.
func (d *DevTools) Version(ctx context.Context) (*VersionInfo, error) {
	var info VersionInfo
	if err := d.get(ctx, "/json/version", &info); err != nil {
		return nil, err
	}
	if info.WebSocketDebuggerURL == "" {
		return nil, fmt.Errorf("devtools version: missing webSocketDebuggerUrl")
	}
	return &info, nil
}

// Targets lists /json/list.
func (d *DevTools) Targets(ctx context.Context) ([]Target, error) {
	var targets []Target
	if err := d.get(ctx, "/json/list", &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// PageCount counts targets of type "page".
func PageCount(targets []Target) int {
	n := 0
	for _, t := range targets {
		if t.Type == "page" {
			n++
		}
	}
	return n
}

func (d *DevTools) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.base+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
