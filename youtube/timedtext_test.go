package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ytscrape/internal/httpx"
	"ytscrape/internal/retry"
)

func TestParseTimedtext(t *testing.T) {
	body := []byte(`{
		"events": [
			{"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "hello "}, {"utf8": "world"}]},
			{"tStartMs": 2000, "segs": []},
			{"tStartMs": 4000, "segs": [{"utf8": "line one\nline two"}]},
			{"tStartMs": 65000, "segs": [{"utf8": "  past the minute  "}]}
		]
	}`)

	segments, err := parseTimedtext(body)
	if err != nil {
		t.Fatalf("parseTimedtext() error = %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("parseTimedtext() returned %d segments, want 3", len(segments))
	}

	if segments[0].Text != "hello world" {
		t.Errorf("segments[0].Text = %q, want %q", segments[0].Text, "hello world")
	}
	if segments[0].Start != 0 || segments[0].Timestamp != "0:00" {
		t.Errorf("segments[0] start = %v/%q, want 0/0:00", segments[0].Start, segments[0].Timestamp)
	}
	if segments[1].Text != "line one line two" {
		t.Errorf("segments[1].Text = %q, newlines should collapse to spaces", segments[1].Text)
	}
	if segments[2].Start != 65*time.Second || segments[2].Timestamp != "1:05" {
		t.Errorf("segments[2] start = %v/%q, want 65s/1:05", segments[2].Start, segments[2].Timestamp)
	}
	if segments[2].Text != "past the minute" {
		t.Errorf("segments[2].Text = %q, want trimmed", segments[2].Text)
	}
}

func TestParseTimedtext_Empty(t *testing.T) {
	segments, err := parseTimedtext(nil)
	if err != nil {
		t.Fatalf("parseTimedtext(nil) error = %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("parseTimedtext(nil) = %v, want no segments", segments)
	}
}

func TestParseTimedtext_Malformed(t *testing.T) {
	if _, err := parseTimedtext([]byte(`not json`)); err == nil {
		t.Error("parseTimedtext() on garbage expected error, got nil")
	}
}

// newTestTimedtextFetcher points a fetcher at a test server with retries off.
func newTestTimedtextFetcher(serverURL string) *TimedtextFetcher {
	client := httpx.New(&httpx.Config{
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Retry:             retry.Config{MaxRetries: 0, InitialBackoff: time.Millisecond},
	})
	f := NewTimedtextFetcher(client)
	f.baseURL = serverURL
	return f
}

func TestTimedtextFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("v"); got != "dQw4w9WgXcQ" {
			t.Errorf("v param = %q, want video ID", got)
		}
		if got := r.URL.Query().Get("fmt"); got != "json3" {
			t.Errorf("fmt param = %q, want json3", got)
		}
		w.Write([]byte(`{"events":[{"tStartMs":0,"segs":[{"utf8":"never gonna"}]}]}`))
	}))
	defer server.Close()

	f := newTestTimedtextFetcher(server.URL)
	transcript, err := f.Fetch(context.Background(), VideoRef{ID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if transcript.Source != "timedtext" {
		t.Errorf("Source = %q, want timedtext", transcript.Source)
	}
	if len(transcript.Segments) != 1 || transcript.Segments[0].Text != "never gonna" {
		t.Errorf("Segments = %+v, want one segment", transcript.Segments)
	}
}

func TestTimedtextFetcher_NoCaptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := newTestTimedtextFetcher(server.URL)
	_, err := f.Fetch(context.Background(), VideoRef{ID: "dQw4w9WgXcQ"})
	if !errors.Is(err, ErrNoTranscript) {
		t.Errorf("Fetch() error = %v, want ErrNoTranscript", err)
	}
}

func TestTimedtextFetcher_EmptyTrack(t *testing.T) {
	// 200 with an empty events list means the track exists but is empty.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events":[]}`))
	}))
	defer server.Close()

	f := newTestTimedtextFetcher(server.URL)
	_, err := f.Fetch(context.Background(), VideoRef{ID: "dQw4w9WgXcQ"})
	if !errors.Is(err, ErrNoTranscript) {
		t.Errorf("Fetch() error = %v, want ErrNoTranscript", err)
	}
}

func TestTimedtextFetcher_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := newTestTimedtextFetcher(server.URL)
	_, err := f.Fetch(context.Background(), VideoRef{ID: "dQw4w9WgXcQ"})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Fetch() error = %v, want ErrRateLimited", err)
	}
}

func TestTimedtextFetcher_MissingID(t *testing.T) {
	f := NewTimedtextFetcher(nil)
	if _, err := f.Fetch(context.Background(), VideoRef{}); err == nil {
		t.Error("Fetch() without video ID expected error, got nil")
	}
}
