// Package api is the HTTP client for the Money Manager API. It attaches the
// bearer credential to every request outside a fixed no-auth allow-list and
// centralizes the response-failure policy: 401 tears the session down, 5xx
// and transport failures surface as distinct error kinds, and nothing is
// retried automatically.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mymoneyhq/moneyctl/internal/common"
	"github.com/mymoneyhq/moneyctl/internal/session"
)

// noAuthPaths never receive a credential, even when a token is cached.
// Matched by substring, the same contract the endpoints advertise.
var noAuthPaths = []string{"/login", "/register", "/status", "/activate", "/about"}

const defaultTimeout = 30 * time.Second

// Error is a non-5xx, non-auth API rejection carrying the server's message.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

// Client issues requests against the Money Manager API. Each call is
// independent: no queuing, batching, or deduplication — request volume is
// low and user-initiated.
type Client struct {
	httpClient     *http.Client
	creds          *session.Store
	onUnauthorized func()
	baseURL        string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUnauthorizedHook registers a callback invoked exactly once per call
// that fails with 401, after credentials have been cleared. Callers use it
// to route the user back to login.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// NewClient creates a client rooted at baseURL using creds for the bearer
// token.
func NewClient(baseURL string, creds *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requiresAuth reports whether the path is outside the no-auth allow-list.
func requiresAuth(path string) bool {
	for _, p := range noAuthPaths {
		if strings.Contains(path, p) {
			return false
		}
	}
	return true
}

// do issues one request and decodes a JSON response into out (which may be
// nil). body, if non-nil, is sent as JSON.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// doRaw issues one request and returns the raw response body, for binary
// endpoints like the spreadsheet download.
func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if requiresAuth(path) {
		if token, ok := c.creds.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	slog.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", common.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.unauthorized(method, path)
	case resp.StatusCode >= 500:
		slog.Debug("server fault", "method", method, "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s %s returned %d", common.ErrServer, method, path, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, &Error{Status: resp.StatusCode, Message: serverMessage(respBody)}
	}

	return respBody, nil
}

// unauthorized handles the centralized 401 policy: clear credentials, fire
// the hook once, and report ErrAuth. "Token absent" and "token invalid" are
// not distinguished; both mean the user must authenticate again.
func (c *Client) unauthorized(method, path string) error {
	slog.Debug("unauthorized, clearing session", "method", method, "path", path)
	if err := c.creds.Clear(); err != nil {
		slog.Warn("failed to clear credentials after 401", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return fmt.Errorf("%w: %s %s", common.ErrAuth, method, path)
}

// transportError classifies a failure where no response was received.
func (c *Client) transportError(method, path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s %s: %v", common.ErrTimeout, method, path, err)
	}
	return fmt.Errorf("%w: %s %s: %v", common.ErrNetwork, method, path, err)
}

// serverMessage extracts the "message" field the API uses for rejections.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
