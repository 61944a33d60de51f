// Package thermod is the HTTP client for the thermod daemon: immediate and
// long-poll status reads plus best-effort mode changes.
package thermod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// API is the daemon surface the monitor consumes. Implemented by Client and
// by MockClient in tests.
type API interface {
	// GetStatus fetches the current daemon status immediately.
	GetStatus(ctx context.Context) (*Status, error)

	// WaitStatusChange blocks until the daemon reports a change or its own
	// long-poll timeout elapses, then returns the current status.
	WaitStatusChange(ctx context.Context) (*Status, error)

	// SetMode asks the daemon to switch to mode. Repeating the call with the
	// same mode is harmless.
	SetMode(ctx context.Context, mode Mode) error
}

// Client talks to a thermod daemon over plain HTTP.
type Client struct {
	baseURL string
	name    string
	http    *http.Client
	poll    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the daemon at host:port. name identifies
// this monitor on the long-poll endpoint. pollTimeout bounds a single
// long-poll request and should exceed the daemon's own monitor timeout.
func NewClient(host string, port int, name string, pollTimeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		name:    name,
		http:    &http.Client{Timeout: 10 * time.Second},
		poll:    &http.Client{Timeout: pollTimeout},
		logger:  logger,
	}
}

func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	return c.getStatus(ctx, c.http, c.baseURL+"/status", "get status")
}

func (c *Client) WaitStatusChange(ctx context.Context) (*Status, error) {
	u := c.baseURL + "/monitor?name=" + url.QueryEscape(c.name)
	return c.getStatus(ctx, c.poll, u, "monitor")
}

func (c *Client) SetMode(ctx context.Context, mode Mode) error {
	if !mode.Valid() {
		return &DataError{Op: "set mode", Err: fmt.Errorf("invalid mode %q", mode)}
	}

	form := url.Values{"status": {string(mode)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/settings", strings.NewReader(form.Encode()))
	if err != nil {
		return &TransportError{Op: "set mode", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: "set mode", Err: err}
	}
	defer drain(resp.Body)

	if err := checkResponse(resp, "set mode"); err != nil {
		return err
	}

	c.logger.Debug("mode change accepted", zap.String("mode", string(mode)))
	return nil
}

func (c *Client) getStatus(ctx context.Context, hc *http.Client, rawURL, op string) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer drain(resp.Body)

	if err := checkResponse(resp, op); err != nil {
		return nil, err
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &DataError{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	if !status.Mode.Valid() {
		return nil, &DataError{Op: op, Err: fmt.Errorf("unknown mode %q", status.Mode)}
	}
	return &status, nil
}

// checkResponse maps non-2xx answers onto the error taxonomy: 5xx means the
// daemon is struggling (retryable), anything else unexpected is a data error.
func checkResponse(resp *http.Response, op string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return &TransportError{Op: op, Err: fmt.Errorf("daemon returned %s", resp.Status)}
	default:
		return &DataError{Op: op, Err: fmt.Errorf("daemon returned %s", resp.Status)}
	}
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
