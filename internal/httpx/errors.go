package httpx

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for HTTP operations.
var (
	// ErrRequestFailed indicates the request itself failed (network error).
	ErrRequestFailed = errors.New("http request failed")
)

// RateLimitError indicates the server rate limited or blocked the request.
type RateLimitError struct {
	// StatusCode is the HTTP status code (429, 503, or 403).
	StatusCode int
	// RetryAfter indicates how long to wait before retrying, when known.
	RetryAfter time.Duration
	// IsBotDetection indicates this may be anti-bot protection (403).
	IsBotDetection bool
}

// Error returns a string representation of the rate limit error.
func (e *RateLimitError) Error() string {
	if e.IsBotDetection {
		return fmt.Sprintf("bot detection (status %d)", e.StatusCode)
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (status %d): retry after %v", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
}

// HTTPError indicates a non-2xx HTTP response that is not a rate limit.
type HTTPError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Body is the response body.
	Body []byte
}

// Error returns a string representation of the HTTP error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// IsTransient classifies errors worth retrying: network failures, rate
// limits with a backoff hint, and server-side 5xx responses. Bot detection
// and client errors are permanent.
func IsTransient(err error) bool {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return !rle.IsBotDetection
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= 500
	}
	return errors.Is(err, ErrRequestFailed)
}
