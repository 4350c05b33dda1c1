// Package fetch retrieves remote layouts, stylesheets, scripts and images over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for fetch operations.
var (
	// ErrFetch indicates the request failed or the server answered with a non-2xx status.
	ErrFetch = errors.New("an error occurred fetching content")

	// ErrEmptyContent indicates an empty body where content was required.
	ErrEmptyContent = errors.New("content is empty")
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// MaxBodySize caps downloaded bodies (32MB).
const MaxBodySize = 32 << 20

// Client fetches resources over HTTP. No retries are attempted.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with the given per-request timeout.
// A non-positive timeout uses DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewClientWith wraps an existing http.Client (tests use httptest clients).
func NewClientWith(c *http.Client) *Client {
	return &Client{http: c}
}

// Fetch GETs url and returns the body.
// Protocol-relative references ("//host/x") are fetched over https.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalizeURL(url), nil)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrFetch, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The cause stays wrapped so callers can detect timeouts.
		return nil, fmt.Errorf("%w (%w)", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w (%d %s)", ErrFetch, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrFetch, err)
	}
	return body, nil
}

// FetchText GETs url and returns the body as a string.
// If failIfEmpty is set, an empty body returns ErrEmptyContent.
func (c *Client) FetchText(ctx context.Context, url string, failIfEmpty bool) (string, error) {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if failIfEmpty && len(body) == 0 {
		return "", ErrEmptyContent
	}
	return string(body), nil
}

func normalizeURL(url string) string {
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}
