// Package blistapi is the single chokepoint for requests to the blist.xyz REST API.
//
// Every call goes through Client.Do, which attaches the token, decodes JSON and classifies failures
// into the platform/errors taxonomy. No retries, no caching; timeout policy belongs to the
// injected *http.Client.
package blistapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pscheid92/blist/internal/adapter/metrics"
	apperrors "github.com/pscheid92/blist/internal/platform/errors"
	"github.com/pscheid92/blist/internal/platform/version"
)

const (
	DefaultBaseURL = "https://blist.xyz"
	apiPrefix      = "/api/v2"
	maxBodyBytes   = 4 << 20
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	metrics    *metrics.APIMetrics
}

type Option func(*Client)

// WithBaseURL points the client at another deployment (tests use an httptest server).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the transport. Its Timeout is the only timeout applied to requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client. An empty token is allowed; authenticated endpoints then fail with a
// configuration error and lookups are sent without an Authorization header.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasToken reports whether authenticated endpoints can be called.
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

// Do sends method to the API path (relative to /api/v2) and returns the JSON body of a 2xx response.
// An empty 2xx body is returned as JSON null.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	endpoint := endpointLabel(path)
	start := time.Now()

	raw, err := c.do(ctx, method, path, body)

	elapsed := time.Since(start)
	if err != nil {
		structuredErr := apperrors.AsStructuredError(err)
		c.metrics.Observe(method, endpoint, string(structuredErr.Type), elapsed)
		attrs := append([]any{"method", method, "endpoint", endpoint, "latency", elapsed}, structuredErr.LogAttrs()...)
		slog.DebugContext(ctx, "blist API request failed", attrs...)
		return nil, err
	}

	c.metrics.Observe(method, endpoint, "success", elapsed)
	slog.DebugContext(ctx, "blist API request", "method", method, "endpoint", endpoint, "latency", elapsed)
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.ConfigurationError("request body is not JSON-encodable").
				WithContext("path", path).
				WithContext("cause", err.Error())
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, apperrors.TransportError("failed to build request", 0, err).WithContext("path", path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.TransportError("request failed", 0, err).
			WithContext("method", method).
			WithContext("path", path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.TransportError("failed to read response body", resp.StatusCode, err).
			WithContext("method", method).
			WithContext("path", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.FromStatus(resp.StatusCode, fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode)).
			WithContext("method", method).
			WithContext("path", path)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return nil, apperrors.TransportError("response body is not JSON", resp.StatusCode, nil).
			WithContext("method", method).
			WithContext("path", path)
	}
	return json.RawMessage(data), nil
}

// endpointLabel collapses identifiers so metric labels stay bounded: /bot/42/votes -> bot/:id/votes.
func endpointLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := range parts {
		if i%2 == 1 {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
