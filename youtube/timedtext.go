package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ytscrape/internal/httpx"
)

// TimedtextFetcher fetches captions from YouTube's /api/timedtext endpoint.
// It is the browserless fallback when the transcript panel cannot be opened;
// it only works for videos whose caption tracks are served without a player
// token, which covers most videos with regular or auto-generated captions.
type TimedtextFetcher struct {
	client  *httpx.Client
	baseURL string

	// Language is the caption language code to request. Default "en".
	Language string
}

// NewTimedtextFetcher creates a timedtext fetcher. A nil client uses
// httpx defaults.
func NewTimedtextFetcher(client *httpx.Client) *TimedtextFetcher {
	if client == nil {
		client = httpx.New(nil)
	}
	return &TimedtextFetcher{
		client:   client,
		baseURL:  "https://www.youtube.com/api/timedtext",
		Language: "en",
	}
}

// timedtextResponse is the json3 shape of a timedtext response.
type timedtextResponse struct {
	Events []timedtextEvent `json:"events"`
}

// timedtextEvent is a single timed event; only events carrying text
// segments matter for transcripts.
type timedtextEvent struct {
	StartMs    int64              `json:"tStartMs"`
	DurationMs int64              `json:"dDurationMs,omitempty"`
	Segs       []timedtextSegment `json:"segs,omitempty"`
}

type timedtextSegment struct {
	UTF8 string `json:"utf8"`
}

// Fetch queries the timedtext API for the video's captions.
func (f *TimedtextFetcher) Fetch(ctx context.Context, ref VideoRef) (*Transcript, error) {
	if ref.ID == "" {
		return nil, &TranscriptError{Source: "timedtext", Err: errors.New("video ID is required")}
	}
	lang := f.Language
	if lang == "" {
		lang = "en"
	}

	params := url.Values{}
	params.Set("v", ref.ID)
	params.Set("lang", lang)
	params.Set("fmt", "json3")

	resp, err := f.client.Get(ctx, f.baseURL+"?"+params.Encode())
	if err != nil {
		var he *httpx.HTTPError
		if errors.As(err, &he) && he.StatusCode == 404 {
			err = fmt.Errorf("%w: no %s captions", ErrNoTranscript, lang)
		}
		var rle *httpx.RateLimitError
		if errors.As(err, &rle) {
			err = fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return nil, &TranscriptError{VideoID: ref.ID, Source: "timedtext", Err: err}
	}

	segments, err := parseTimedtext(resp.Body)
	if err != nil {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "timedtext",
			Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(segments) == 0 {
		return nil, &TranscriptError{VideoID: ref.ID, Source: "timedtext", Err: ErrNoTranscript}
	}

	return &Transcript{Video: ref, Segments: segments, Source: "timedtext"}, nil
}

// parseTimedtext converts a json3 timedtext body into ordered segments.
// Events without text (window styling, music markers) are skipped, and
// newlines inside a segment collapse to spaces.
func parseTimedtext(body []byte) ([]Segment, error) {
	// An empty body means the track exists but has no captions.
	if len(body) == 0 {
		return nil, nil
	}

	var resp timedtextResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	var segments []Segment
	for _, ev := range resp.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		start := time.Duration(ev.StartMs) * time.Millisecond
		segments = append(segments, Segment{
			Start:     start,
			Timestamp: FormatTimestamp(start),
			Text:      text,
		})
	}
	return segments, nil
}
