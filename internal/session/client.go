package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

var errNotSupported = errors.New("operation not supported by this session provider")

// resolveTimeout bounds how long Token may block on a refresh before
// the caller proceeds unauthenticated.
const resolveTimeout = 5 * time.Second

// Client is a Provider backed by a GoTrue-style auth service: password
// and refresh-token grants against {baseURL}/token, sign-up against
// /signup, recovery against /recover. Session state is persisted so a
// login survives across invocations.
type Client struct {
	baseURL    string
	apiKey     string
	statePath  string
	httpClient *http.Client

	mu      sync.Mutex
	token   *oauth2.Token
	email   string
	subs    map[int]func()
	nextSub int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithStatePath overrides where session state is saved.
func WithStatePath(path string) Option {
	return func(c *Client) { c.statePath = path }
}

// NewClient creates a session client and loads any saved session.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		subs: make(map[int]func()),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.statePath == "" {
		path, err := defaultStatePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session state path: %w", err)
		}
		c.statePath = path
	}

	if state, err := loadState(c.statePath); err == nil {
		c.token = state.oauthToken()
		c.email = state.Email
		slog.Debug("Loaded saved session", "email", state.Email, "state_file", c.statePath)
	}

	return c, nil
}

// Email returns the signed-in address, or "" when signed out.
func (c *Client) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// Token returns the current access token, refreshing it when expired.
// A missing session or a refresh that cannot complete within the
// resolve timeout yields an empty token, never an error: requests go
// out unauthenticated and the backend decides.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	tok := c.token
	c.mu.Unlock()

	if tok == nil {
		return "", nil
	}
	if tok.Valid() {
		return tok.AccessToken, nil
	}
	if tok.RefreshToken == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	refreshed, err := c.refresh(ctx, tok.RefreshToken)
	if err != nil {
		slog.Debug("Session refresh failed, proceeding unauthenticated", "error", err)
		return "", nil
	}

	c.setToken(refreshed, c.Email())
	return refreshed.AccessToken, nil
}

// TokenSource adapts the client to oauth2.TokenSource for libraries
// that speak that interface directly.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	c.mu.Lock()
	tok := c.token
	c.mu.Unlock()
	return oauth2.ReuseTokenSource(tok, &refresher{client: c, ctx: ctx})
}

// Subscribe registers a session-change callback.
func (c *Client) Subscribe(fn func()) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// SignIn performs a password grant and persists the session.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	tok, err := c.grant(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	c.setToken(tok, email)
	return nil
}

// SignUp registers a new account. Some deployments require email
// confirmation before the first sign-in succeeds.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/signup", body, nil); err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}
	return nil
}

// SignOut revokes the session server-side (best effort) and always
// clears local state.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	tok := c.token
	c.mu.Unlock()

	if tok != nil && tok.AccessToken != "" {
		if err := c.postAuthed(ctx, "/logout", tok.AccessToken); err != nil {
			slog.Debug("Server-side logout failed, clearing local session anyway", "error", err)
		}
	}

	c.setToken(nil, "")
	return nil
}

// ResetPassword triggers the provider's password recovery email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	if err := c.post(ctx, "/recover", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	return nil
}

// grantResponse is the token payload shared by password and refresh grants.
type grantResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		Email string `json:"email"`
	} `json:"user"`
}

func (c *Client) grant(ctx context.Context, grantType string, body map[string]string) (*oauth2.Token, error) {
	var resp grantResponse
	path := "/token?grant_type=" + grantType
	if err := c.post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("auth provider returned no access token")
	}

	tok := &oauth2.Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
	}
	if resp.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return tok, nil
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return c.grant(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

func (c *Client) post(ctx context.Context, path string, body map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("auth provider error: %d - %s", resp.StatusCode, string(text))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postAuthed(ctx context.Context, path, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("auth provider error: %d - %s", resp.StatusCode, string(text))
	}
	return nil
}

// setToken swaps the session, persists it, and notifies subscribers.
// Subscribers run outside the lock so one may unsubscribe itself.
func (c *Client) setToken(tok *oauth2.Token, email string) {
	c.mu.Lock()
	c.token = tok
	c.email = email

	if tok == nil {
		if err := clearState(c.statePath); err != nil {
			slog.Debug("Failed to clear session state", "error", err)
		}
	} else {
		if err := saveState(c.statePath, newState(tok, email)); err != nil {
			slog.Debug("Failed to save session state", "error", err)
		}
	}

	subs := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// refresher implements oauth2.TokenSource over the refresh grant.
type refresher struct {
	client *Client
	ctx    context.Context
}

func (r *refresher) Token() (*oauth2.Token, error) {
	r.client.mu.Lock()
	tok := r.client.token
	r.client.mu.Unlock()

	if tok == nil || tok.RefreshToken == "" {
		return nil, errors.New("no session to refresh")
	}

	refreshed, err := r.client.refresh(r.ctx, tok.RefreshToken)
	if err != nil {
		return nil, err
	}

	r.client.setToken(refreshed, r.client.Email())
	return refreshed, nil
}
