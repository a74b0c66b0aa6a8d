// Package api is the HTTP client for the EZBooks backend. It owns the
// wire formats: everything crossing this boundary is normalized into
// internal/model types, including the backend's two spellings of the
// receipt identifier.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ezbooks/ezb/internal/service"
	"github.com/ezbooks/ezb/internal/session"
)

// Client satisfies the backend contract the controller drives.
var _ service.Backend = (*Client)(nil)

// tokenResolveTimeout bounds how long a request waits for the session
// provider before going out unauthenticated.
const tokenResolveTimeout = 5 * time.Second

// RequestError is any non-2xx backend response.
type RequestError struct {
	Body   string
	Status int
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client talks to the EZBooks API. Cookies and the bearer header are
// both sent, supporting either auth mode the backend runs in.
type Client struct {
	baseURL    string
	session    session.Provider
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an API client rooted at baseURL (the /api prefix
// included), authenticating through provider.
func NewClient(baseURL string, provider session.Provider, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: provider,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// newRequest builds a request with auth, correlation, and credential
// headers attached. Token resolution is bounded: a session provider
// that cannot answer in time means the request goes out without a
// bearer header rather than hanging.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())

	tokenCtx, cancel := context.WithTimeout(ctx, tokenResolveTimeout)
	token, err := c.session.Token(tokenCtx)
	cancel()
	if err != nil {
		slog.Debug("Session token unavailable, sending unauthenticated request",
			"method", method, "path", path, "error", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes req and returns the body. Non-2xx responses become a
// *RequestError carrying the status and body text.
func (c *Client) do(req *http.Request) (body []byte, contentType string, err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &RequestError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	mediaType := resp.Header.Get("Content-Type")
	if parsed, _, parseErr := mime.ParseMediaType(mediaType); parseErr == nil {
		mediaType = parsed
	}

	return data, mediaType, nil
}

// isJSON reports whether a response content type declares JSON.
func isJSON(contentType string) bool {
	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}
