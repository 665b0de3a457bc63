// Package httpx provides the HTTP client behind the browserless YouTube
// strategies, with retry on transient failures and token-bucket pacing.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"ytscrape/internal/retry"
)

// Config holds HTTP client configuration.
type Config struct {
	// Timeout bounds individual HTTP requests.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64

	// Retry configures backoff for transient failures.
	Retry retry.Config
}

// DefaultConfig returns defaults aligned with YouTube's tolerance for
// anonymous API traffic.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		RequestsPerSecond: 2.5,
		Retry:             retry.DefaultConfig(),
	}
}

// Response is a fully-read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Client wraps http.Client with retry logic and request pacing.
type Client struct {
	base     *http.Client
	cfg      *Config
	limiter  *rate.Limiter
	classify retry.ErrorClassifier
}

// New creates a client from the given configuration. A nil config uses
// DefaultConfig.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Client{
		base: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		cfg:      cfg,
		classify: IsTransient,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Get performs a GET request with pacing and retry.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

// PostJSON performs a POST with a JSON-encoded payload.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// do runs the request with pacing, converts non-2xx statuses to typed
// errors, and retries transient ones.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (*Response, error) {
	var out *Response

	err := retry.Do(ctx, c.cfg.Retry, c.classify, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := build()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
		}

		if err := statusError(resp, body); err != nil {
			return err
		}
		out = &Response{StatusCode: resp.StatusCode, Body: body, Header: resp.Header}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// statusError maps error statuses to typed errors.
func statusError(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusServiceUnavailable:
		return &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode == http.StatusForbidden:
		return &RateLimitError{StatusCode: resp.StatusCode, IsBotDetection: true}
	default:
		return &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}
}

// parseRetryAfter handles the delay-seconds form of the Retry-After header.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	var secs int
	if _, err := fmt.Sscanf(value, "%d", &secs); err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
