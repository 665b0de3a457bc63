package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// TranscriptFetcher fetches the ordered transcript segments for one video,
// or fails. Implementations own all page-structure knowledge; callers only
// see VideoRef in and Transcript out, so strategies can be swapped or mocked
// without touching the worker pool or the formatter.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, ref VideoRef) (*Transcript, error)
}

// TranscriptError wraps errors during transcript extraction.
type TranscriptError struct {
	// VideoID is the video whose transcript failed.
	VideoID string
	// Source identifies the fetcher ("browser" or "timedtext").
	Source string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the extraction failure.
func (e *TranscriptError) Error() string {
	return fmt.Sprintf("transcript %s via %s: %v", e.VideoID, e.Source, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *TranscriptError) Unwrap() error {
	return e.Err
}

// ChainFetcher tries each fetcher in order and returns the first success.
// A video with no transcript anywhere yields the last fetcher's error.
type ChainFetcher []TranscriptFetcher

// Fetch tries each fetcher until one returns segments.
func (c ChainFetcher) Fetch(ctx context.Context, ref VideoRef) (*Transcript, error) {
	if len(c) == 0 {
		return nil, errors.New("youtube: empty fetcher chain")
	}

	var lastErr error
	for i, f := range c {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t, err := f.Fetch(ctx, ref)
		if err == nil {
			return t, nil
		}
		lastErr = err
		if i < len(c)-1 {
			log.Printf("youtube: fetcher %T failed for %s, falling back to %T", f, ref.ID, c[i+1])
		}
	}
	return nil, lastErr
}
