// Package edgar talks to the SEC EDGAR submissions index and filing archive.
//
// EDGAR requires every request to carry a User-Agent that identifies the
// caller with a contact address, and asks clients to stay under 10 requests
// per second.
package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultSubmissionsURL = "https://data.sec.gov/submissions"
	DefaultArchiveURL     = "https://www.sec.gov/Archives/edgar/data"
	DefaultUserAgent      = "secfetch/1.0 (contact@example.com)"

	defaultRequestsPerSecond = 10
)

// Client fetches submissions indexes and filing documents.
type Client struct {
	submissionsURL string
	archiveURL     string
	userAgent      string
	client         *http.Client
	limiter        *rate.Limiter
	debug          bool
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithUserAgent sets the identifying User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithBaseURLs overrides the submissions index and archive endpoints.
// Empty values keep the defaults.
func WithBaseURLs(submissionsURL, archiveURL string) Option {
	return func(c *Client) {
		if submissionsURL != "" {
			c.submissionsURL = strings.TrimRight(submissionsURL, "/")
		}
		if archiveURL != "" {
			c.archiveURL = strings.TrimRight(archiveURL, "/")
		}
	}
}

// WithDebug logs every archive request.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithRateLimit caps outgoing requests per second. A value <= 0 disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// NewClient creates a Client with EDGAR's public endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		submissionsURL: DefaultSubmissionsURL,
		archiveURL:     DefaultArchiveURL,
		userAgent:      DefaultUserAgent,
		client:         &http.Client{Timeout: 30 * time.Second},
		limiter:        rate.NewLimiter(defaultRequestsPerSecond, defaultRequestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned when EDGAR answers with a 4xx or 5xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
