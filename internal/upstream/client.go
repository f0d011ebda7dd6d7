// Package upstream is the console's single HTTP client for the business API that owns
// every record the console edits.
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
	"time"

	"github.com/bloomhouse/admin-console/internal/config"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

// TokenFunc returns the bearer token to forward for the request carried by ctx
type TokenFunc func(ctx context.Context) string

// Client issues JSON requests against the upstream API
type Client struct {
	baseURL      string
	httpClient   *http.Client
	serviceToken string
	healthPath   string
	tokenFunc    TokenFunc
	logger       *zap.Logger
}

// Option customises a Client
type Option func(*Client)

// WithTokenFunc forwards the staff token found in the request context
func WithTokenFunc(fn TokenFunc) Option {
	return func(c *Client) {
		c.tokenFunc = fn
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the configured upstream base URL
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}

	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		serviceToken: cfg.Token,
		healthPath:   cfg.HealthPath,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends a request and decodes a successful JSON response into out (when non-nil).
// Non-2xx responses are returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("upstream %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newError(method, path, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upstream response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrap(raw), out); err != nil {
		return fmt.Errorf("failed to decode upstream response for %s %s: %w", method, path, err)
	}
	return nil
}

// Ping checks that the upstream answers its health path
func (c *Client) Ping(ctx context.Context) error {
	path := c.healthPath
	if path == "" {
		path = "/"
	}
	return c.Do(ctx, http.MethodGet, path, nil, nil, nil)
}

func (c *Client) token(ctx context.Context) string {
	if c.tokenFunc != nil {
		if t := c.tokenFunc(ctx); t != "" {
			return t
		}
	}
	return c.serviceToken
}

// unwrap strips the {"data": ...} or {"items": ...} envelope some upstream endpoints use.
// Objects that carry an "id" are records, not envelopes, and are returned unchanged.
func unwrap(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return trimmed
	}
	if _, isRecord := obj["id"]; isRecord {
		return trimmed
	}
	for _, key := range []string{"data", "items", "result"} {
		inner, ok := obj[key]
		if !ok {
			continue
		}
		// an empty list may be sent as null
		if inner = bytes.TrimSpace(inner); len(inner) == 0 || string(inner) == "null" {
			return []byte("null")
		}
		return unwrap(inner)
	}
	return trimmed
}
