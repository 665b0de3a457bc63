package youtube

import (
	"context"
	"fmt"
)

// Lister enumerates the videos behind a channel or playlist URL.
// Different implementations use different strategies: BrowserLister scrolls
// the listing page in a headless browser, InnertubeLister pages through the
// Innertube browse API.
type Lister interface {
	// List fetches the videos behind the given listing URL.
	List(ctx context.Context, listURL string, opts *ListOptions) (*Listing, error)
}

// ListOptions configures video listing behavior.
type ListOptions struct {
	// MaxVideos limits the number of videos returned. 0 means no limit.
	MaxVideos int

	// Patience is the number of consecutive no-growth scroll attempts
	// tolerated before the browser lister stops. 0 uses DefaultPatience.
	// Ignored by listers that paginate instead of scrolling.
	Patience int

	// MaxScrolls is a hard cap on scroll attempts for very large channels.
	// 0 uses DefaultMaxScrolls.
	MaxScrolls int

	// OnProgress, when non-nil, is called after each scroll or page of
	// results with a human-readable status line.
	OnProgress func(message string)
}

// Default listing limits, matching the scroll heuristics of the listing page.
const (
	DefaultPatience   = 5
	DefaultMaxScrolls = 200
)

// Listing is the result of enumerating a channel or playlist.
type Listing struct {
	// Videos are the discovered videos in page order, deduplicated by URL.
	Videos []VideoRef

	// Complete reports whether the lister believes it saw the whole
	// listing. The browser lister sets this to false when the hard scroll
	// cap stopped the scan before the listing went quiet; the Innertube
	// lister sets it to true once pagination drains. A patience stop with
	// no growth counts as complete-as-far-as-observable.
	Complete bool

	// Scrolls is the number of scroll attempts (browser lister) or pages
	// fetched (Innertube lister).
	Scrolls int
}

// ListerError wraps errors during video listing with the strategy and URL
// that failed.
type ListerError struct {
	// Source identifies the lister ("browser" or "innertube").
	Source string
	// URL is the listing URL that failed.
	URL string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the listing failure.
func (e *ListerError) Error() string {
	return fmt.Sprintf("list %s via %s: %v", e.URL, e.Source, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ListerError) Unwrap() error {
	return e.Err
}
