// Package client is the HTTP gateway to the kicks API. Every call sends the
// session cookie, and non-2xx JSON responses come back as *APIError so their
// messages can be shown as they are.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"time"
)

// APIError is a non-2xx response whose body was JSON.
type APIError struct {
	StatusCode int
	// Messages holds the server's messages in order. Object bodies are
	// flattened to "field message" entries.
	Messages []string
	Body     []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Client talks to one kicks server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient bases the underlying HTTP client on a copy of hc, so later
// options and the cookie jar never modify hc. A cookie jar is added when it
// has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// do sends a JSON request and decodes a 2xx body into out, which may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if apiErr := parseAPIError(resp.StatusCode, data); apiErr != nil {
			return apiErr
		}
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// parseAPIError returns nil when data is not JSON.
func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: data}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		apiErr.Messages = list
		return apiErr
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		switch v := obj[key].(type) {
		case string:
			apiErr.Messages = append(apiErr.Messages, key+" "+v)
		case []any:
			for _, item := range v {
				apiErr.Messages = append(apiErr.Messages, fmt.Sprintf("%s %v", key, item))
			}
		default:
			apiErr.Messages = append(apiErr.Messages, fmt.Sprintf("%s %v", key, v))
		}
	}
	return apiErr
}

// CloseIdleConnections closes keep-alive connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
