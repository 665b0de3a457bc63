package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"ytscrape/youtube"
)

// Status records the outcome of one video's extraction attempt.
type Status string

const (
	// StatusSuccess means the transcript was extracted and written.
	StatusSuccess Status = "success"
	// StatusNoTranscript means the video has no transcript to extract.
	StatusNoTranscript Status = "no_transcript"
	// StatusFailed covers every other per-video failure, including write
	// failures after a successful fetch.
	StatusFailed Status = "failed"
)

// Result is the per-video entry in the batch summary.
type Result struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Status Status `json:"status"`

	// File and RawFile are the written file names on success.
	File    string `json:"file,omitempty"`
	RawFile string `json:"raw_file,omitempty"`

	// Error is the human-readable failure reason.
	Error string `json:"error,omitempty"`

	// Segments is how many transcript segments were extracted.
	Segments int `json:"segments,omitempty"`
}

// BatchSummary aggregates one batch run. It is built incrementally as
// workers complete and written once at the end.
type BatchSummary struct {
	BatchID    string    `json:"batch_id"`
	InputURL   string    `json:"input_url"`
	Kind       string    `json:"kind"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// ListingComplete and Scrolls surface whether the video-list
	// extraction drained the listing or gave up early.
	ListingComplete bool `json:"listing_complete"`
	Scrolls         int  `json:"scrolls,omitempty"`

	// Results holds one entry per input video, in input order.
	Results []Result `json:"results"`
}

// NewBatchSummary starts a summary for the given input.
func NewBatchSummary(inputURL string, kind youtube.Kind) *BatchSummary {
	return &BatchSummary{
		BatchID:   uuid.NewString(),
		InputURL:  inputURL,
		Kind:      kind.String(),
		StartedAt: time.Now().UTC(),
	}
}

// Saver persists one fetched transcript and returns the written file names.
type Saver interface {
	SaveTranscript(t *youtube.Transcript) (file, rawFile string, err error)
}

// Pool runs fetch-and-save tasks over a batch of videos with bounded
// concurrency. The gate is a counting semaphore owned by the pool value;
// nothing is shared through package state.
type Pool struct {
	// Limit caps concurrently active fetches. Values below 1 mean 1.
	Limit int

	// Fetcher extracts one video's transcript.
	Fetcher youtube.TranscriptFetcher

	// Saver writes the transcript files. A nil Saver skips writing
	// (used by dry runs).
	Saver Saver

	// Progress receives per-video events. May be nil.
	Progress ProgressFunc
}

// Run processes every ref exactly once and returns one Result per input in
// input order. A task's failure is recorded and never cancels or blocks its
// siblings; only context cancellation stops the batch early, and already
// admitted tasks still run to completion.
func (p *Pool) Run(ctx context.Context, refs []youtube.VideoRef) []Result {
	limit := p.Limit
	if limit < 1 {
		limit = 1
	}

	results := make([]Result, len(refs))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	// completed feeds the Done/Total progress counters; each worker
	// updates it exactly once at its own completion point.
	var completed int
	var mu sync.Mutex

	for i, ref := range refs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			// Remaining inputs are recorded as failed, not silently
			// dropped: every ref appears in the summary exactly once.
			for j := i; j < len(refs); j++ {
				results[j] = Result{
					ID: refs[j].ID, URL: refs[j].URL, Title: refs[j].Title,
					Status: StatusFailed, Error: ctx.Err().Error(),
				}
			}
			wg.Wait()
			return results
		}

		wg.Add(1)
		go func(i int, ref youtube.VideoRef) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = p.runOne(ctx, ref)

			mu.Lock()
			completed++
			n := completed
			mu.Unlock()
			p.Progress.emit(Event{
				Stage:   StageSave,
				Message: statusLine(results[i]),
				VideoID: ref.ID,
				Done:    n,
				Total:   len(refs),
			})
		}(i, ref)
	}

	wg.Wait()
	return results
}

// runOne fetches, formats, and saves a single video. All failures are
// caught here and folded into the Result.
func (p *Pool) runOne(ctx context.Context, ref youtube.VideoRef) Result {
	res := Result{ID: ref.ID, URL: ref.URL, Title: ref.Title}

	p.Progress.emit(Event{
		Stage:   StageFetch,
		Message: "starting " + shortTitle(ref),
		VideoID: ref.ID,
	})

	t, err := p.Fetcher.Fetch(ctx, ref)
	if err != nil {
		if errors.Is(err, youtube.ErrNoTranscript) {
			res.Status = StatusNoTranscript
		} else {
			res.Status = StatusFailed
		}
		res.Error = err.Error()
		return res
	}

	// The fetcher may have read the real title off the page.
	if t.Video.Title != "" {
		res.Title = t.Video.Title
	}
	res.Segments = len(t.Segments)

	if p.Saver != nil {
		file, rawFile, err := p.Saver.SaveTranscript(t)
		if err != nil {
			res.Status = StatusFailed
			res.Error = "save: " + err.Error()
			return res
		}
		res.File = file
		res.RawFile = rawFile
	}

	res.Status = StatusSuccess
	return res
}

// Finish folds results into the summary and stamps the end time.
func (s *BatchSummary) Finish(results []Result) {
	s.Results = results
	s.Attempted = len(results)
	s.Succeeded = 0
	s.Failed = 0
	for _, r := range results {
		if r.Status == StatusSuccess {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	s.FinishedAt = time.Now().UTC()
}

func statusLine(r Result) string {
	switch r.Status {
	case StatusSuccess:
		return "saved " + r.File
	case StatusNoTranscript:
		return "no transcript: " + shortTitle(youtube.VideoRef{ID: r.ID, Title: r.Title})
	default:
		return "failed: " + r.Error
	}
}

// shortTitle truncates long titles for log lines.
func shortTitle(ref youtube.VideoRef) string {
	title := ref.Title
	if title == "" {
		title = ref.ID
	}
	if runes := []rune(title); len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return title
}
