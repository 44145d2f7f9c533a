// ABOUTME: HTTP client wrapper for Pushover API communication.
// ABOUTME: Manages the lazily created connection and response decoding.
package pushover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	defaultBaseURL = "https://api.pushover.net/1"
	requestTimeout = 30 * time.Second
)

// Client wraps HTTP access to the Pushover API. The underlying HTTP
// connection is created on first use and can be released with Close,
// after which the next call creates a fresh one.
type Client struct {
	token     string
	userKey   string
	baseURL   string
	userAgent string

	mu         sync.Mutex
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Intended for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// NewClient returns a client for the given credentials.
func NewClient(token, userKey string, opts ...Option) *Client {
	c := &Client{
		token:     token,
		userKey:   userKey,
		baseURL:   defaultBaseURL,
		userAgent: fmt.Sprintf("pushover-mcp-server/1.0 (%s)", runtime.GOOS),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// httpc returns the shared HTTP client, creating it if absent.
func (c *Client) httpc() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: requestTimeout}
	}
	return c.httpClient
}

// Close releases the HTTP connection if open. Idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
	c.httpClient = nil
}

// postForm issues a form-encoded POST and returns the parsed JSON
// body. Pushover reports API rejections inside the body with a
// non-success status field, so HTTP error codes are not treated as
// transport failures as long as the body parses.
func (c *Client) postForm(ctx context.Context, path string, values url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc().Do(req)
	if err != nil {
		return nil, fmt.Errorf("pushover request: %w", err)
	}
	return decodeBody(resp)
}

// getJSON issues a GET with query parameters and returns the parsed
// JSON body.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc().Do(req)
	if err != nil {
		return nil, fmt.Errorf("pushover request: %w", err)
	}
	return decodeBody(resp)
}

func decodeBody(resp *http.Response) (map[string]any, error) {
	defer func() { _ = resp.Body.Close() }()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// truncate limits s to at most limit characters.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func stringSlice(payload map[string]any, key string) []string {
	out := []string{}
	items, ok := payload[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intField(payload map[string]any, key string) int {
	// encoding/json decodes numbers into float64 when the target is any.
	if v, ok := payload[key].(float64); ok {
		return int(v)
	}
	return 0
}

func int64Field(payload map[string]any, key string) int64 {
	if v, ok := payload[key].(float64); ok {
		return int64(v)
	}
	return 0
}
