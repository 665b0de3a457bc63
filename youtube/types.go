package youtube

import (
	"fmt"
	"time"
)

// VideoRef identifies a single video discovered during listing.
// It is immutable once discovered; the title may be empty for single-video
// input and is filled in from the watch page during transcript extraction.
type VideoRef struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// URL is the canonical watch URL for the video.
	URL string `json:"url"`

	// Title is the video title, if known at discovery time.
	Title string `json:"title,omitempty"`
}

// Segment is one timestamped chunk of transcript text as exposed by the
// video page or the timedtext API.
type Segment struct {
	// Start is the offset of the segment from the beginning of the video.
	// Zero when the source only exposed a display timestamp.
	Start time.Duration `json:"start"`

	// Timestamp is the display form of the offset (e.g., "1:02:03").
	// Derived from Start when the source exposed a numeric offset.
	Timestamp string `json:"timestamp"`

	// Text is the transcript text of the segment.
	Text string `json:"text"`
}

// Transcript is the ordered sequence of segments fetched for one video.
// Source order is preserved.
type Transcript struct {
	Video    VideoRef  `json:"video"`
	Segments []Segment `json:"segments"`

	// Source records which fetcher produced the transcript
	// ("browser" or "timedtext").
	Source string `json:"source"`
}

// FormatTimestamp renders an offset the way YouTube displays it:
// "M:SS" under an hour, "H:MM:SS" above.
func FormatTimestamp(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
