// Package upstream is the client for the food-delivery backend.
//
// A Client holds the base address and the fixed timeout. Console code never uses
// it directly; it binds a Requester to a console session. The Requester attaches
// the session's bearer token to every call and reacts to 401 answers by clearing
// the session, unless the call was made from a login page.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/routes"
)

const (
	defaultTimeout = 15 * time.Second

	// maxBodySize caps how much of an answer is read.
	maxBodySize = 4 << 20
)

// Config holds the upstream connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}, nil
}

// SetHTTPClient replaces the HTTP client, mainly for tests.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// TokenSource yields the current bearer token; "" means none.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token() (string, error) { return f() }

// BindOptions configures a Requester.
type BindOptions struct {
	// Tokens is read before every request.
	Tokens TokenSource

	// Page is the console path the call is made for. Calls from login pages
	// never trigger OnUnauthorized.
	Page string

	// OnUnauthorized clears the session and returns the login path to redirect to.
	OnUnauthorized func() string
}

type primedToken struct {
	mu    sync.RWMutex
	token string
}

// Requester issues calls on behalf of one console session.
type Requester struct {
	client *Client
	opts   BindOptions
	primed *primedToken
}

// Bind creates a Requester for a console session.
func (c *Client) Bind(opts BindOptions) *Requester {
	return &Requester{client: c, opts: opts, primed: &primedToken{}}
}

// ForPage returns a Requester for the same session bound to another console page.
func (r *Requester) ForPage(page string) *Requester {
	cp := *r
	cp.opts.Page = page

	return &cp
}

// SetDefaultToken primes the token used when no TokenSource is bound.
func (r *Requester) SetDefaultToken(token string) {
	r.primed.mu.Lock()
	r.primed.token = token
	r.primed.mu.Unlock()
}

// ClearDefaultToken drops the primed token.
func (r *Requester) ClearDefaultToken() {
	r.SetDefaultToken("")
}

// DefaultToken returns the primed token.
func (r *Requester) DefaultToken() string {
	r.primed.mu.RLock()
	defer r.primed.mu.RUnlock()

	return r.primed.token
}

func (r *Requester) bearer() string {
	if r.opts.Tokens == nil {
		return r.DefaultToken()
	}

	token, err := r.opts.Tokens.Token()
	if err != nil {
		// the backend rejects the call and the 401 path cleans up
		log.Warn().Err(err).Msg("failed to read session token")

		return ""
	}

	return token
}

// Get issues a GET and decodes the answer into out.
func (r *Requester) Get(ctx context.Context, path string, out any) error {
	return r.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the answer into out.
func (r *Requester) Post(ctx context.Context, path string, in, out any) error {
	return r.Do(ctx, http.MethodPost, path, in, out)
}

// Do issues a call. out may be nil.
func (r *Requester) Do(ctx context.Context, method, path string, in, out any) error {
	req, err := r.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return r.unauthorized(body)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Code: resp.StatusCode, Body: body}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}

func (r *Requester) unauthorized(body []byte) error {
	if routes.IsLoginPath(r.opts.Page) || r.opts.OnUnauthorized == nil {
		return &UnauthorizedError{Body: body}
	}

	redirect := r.opts.OnUnauthorized()

	log.Info().Str("page", r.opts.Page).Str("redirect", redirect).Msg("upstream rejected session token")

	return &UnauthorizedError{Redirect: redirect, Body: body}
}

// Fire issues a call in the background and ignores the answer.
// It never blocks the caller and is detached from the caller's context.
func (r *Requester) Fire(method, path string, in any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.client.timeout)
		defer cancel()

		if err := r.Do(ctx, method, path, in, nil); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("fire-and-forget call failed")
		}
	}()
}

func (r *Requester) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}

		body = bytes.NewReader(data)
	}

	target := r.client.baseURL.String() + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token := r.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}
