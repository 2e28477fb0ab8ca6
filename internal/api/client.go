package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kagwathi/movenow-dashboard/internal/observability"
)

// TokenSource yields the bearer token for outgoing requests, if any.
// The session layer implements this on top of its persistence store.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// UnauthorizedHook runs whenever the API answers 401, before the error is
// returned to the caller. The session layer uses it to clear persisted
// credentials so the next page load lands on the login view.
type UnauthorizedHook func(ctx context.Context)

// Client talks to the MoveNow REST API. It attaches a bearer token when
// one is available, decodes JSON bodies, and maps failures to *APIError.
// One round trip per call: no retries, no backoff.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHook

	estimates *estimateCache
}

type Option func(*Client)

// WithTokenSource wires the bearer-token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook wires the global 401 side effect.
func WithUnauthorizedHook(h UnauthorizedHook) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// WithEstimateCacheTTL enables the local price-estimate cache.
func WithEstimateCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.estimates = newEstimateCache(ttl)
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do issues one request and decodes the response into out (when non-nil).
// scope labels the upstream metrics; it is the endpoint group, not the path.
func (c *Client) do(ctx context.Context, scope, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(ctx); ok && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.APIRequestDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.APIRequestsTotal.WithLabelValues(scope, "network_error").Inc()
		return &APIError{Status: 0, Message: genericNetworkMessage, cause: err}
	}
	defer resp.Body.Close()
	observability.APIRequestsTotal.WithLabelValues(scope, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		observability.ForcedLogouts.Inc()
		return errorFromResponse(resp)
	}
	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, scope, path string, out any) error {
	return c.do(ctx, scope, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, scope, path string, in, out any) error {
	return c.do(ctx, scope, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, scope, path string, in, out any) error {
	return c.do(ctx, scope, http.MethodPut, path, in, out)
}

func (c *Client) delete(ctx context.Context, scope, path string) error {
	return c.do(ctx, scope, http.MethodDelete, path, nil, nil)
}
