package format

import (
	"strings"
	"testing"
	"time"

	"ytscrape/youtube"
)

func seg(ts, text string) youtube.Segment {
	return youtube.Segment{Timestamp: ts, Text: text}
}

func TestRaw(t *testing.T) {
	segments := []youtube.Segment{
		seg("0:00", "hello everyone"),
		seg("0:05", "welcome back"),
		seg("0:12", "to the channel"),
	}

	got := Raw(segments)
	want := "[0:00] hello everyone\n[0:05] welcome back\n[0:12] to the channel\n"
	if got != want {
		t.Errorf("Raw() = %q, want %q", got, want)
	}
}

func TestRaw_SkipsEmptyText(t *testing.T) {
	segments := []youtube.Segment{
		seg("0:00", "first"),
		seg("0:05", ""),
		seg("0:10", "second"),
	}

	got := Raw(segments)
	if strings.Contains(got, "0:05") {
		t.Errorf("Raw() = %q, empty segments should be skipped", got)
	}
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("Raw() = %q, non-empty segments missing", got)
	}
}

func TestRaw_MissingTimestamp(t *testing.T) {
	got := Raw([]youtube.Segment{seg("", "no timestamp here")})
	want := "no timestamp here\n"
	if got != want {
		t.Errorf("Raw() = %q, want %q (no bracket prefix)", got, want)
	}
}

func TestRaw_Empty(t *testing.T) {
	if got := Raw(nil); got != "" {
		t.Errorf("Raw(nil) = %q, want empty", got)
	}
}

func TestClean_SentenceSplitting(t *testing.T) {
	segments := []youtube.Segment{
		seg("0:00", "This is the first sentence of the talk."),
		seg("0:04", "Here comes the second one!"),
		seg("0:08", "And now a longer question arrives?"),
		seg("0:12", "A fourth sentence ends the paragraph."),
		seg("0:16", "The fifth sentence starts a new paragraph."),
	}

	got := Clean(segments, DefaultOptions())
	paragraphs := strings.Split(got, "\n\n")
	if len(paragraphs) != 2 {
		t.Fatalf("Clean() produced %d paragraphs, want 2:\n%s", len(paragraphs), got)
	}
	if !strings.HasPrefix(paragraphs[0], "This is the first sentence") {
		t.Errorf("paragraphs[0] = %q", paragraphs[0])
	}
	if !strings.HasPrefix(paragraphs[1], "The fifth sentence") {
		t.Errorf("paragraphs[1] = %q", paragraphs[1])
	}
}

func TestClean_MinSentenceChars(t *testing.T) {
	// "Dr." and "vs." style periods must not close a sentence while the
	// accumulated text is still short.
	segments := []youtube.Segment{
		seg("0:00", "Dr. Smith explained the whole thing very carefully."),
	}

	got := Clean(segments, DefaultOptions())
	if strings.Contains(got, "\n\n") {
		t.Errorf("Clean() = %q, short-prefix period should not split", got)
	}
	if !strings.HasPrefix(got, "Dr. Smith") {
		t.Errorf("Clean() = %q, want text kept intact", got)
	}
}

func TestClean_NoTerminalPunctuation(t *testing.T) {
	// Auto-captions often carry no punctuation at all. Everything becomes
	// one trailing sentence.
	segments := []youtube.Segment{
		seg("0:00", "so today we are going to look at"),
		seg("0:03", "something really interesting"),
	}

	got := Clean(segments, DefaultOptions())
	want := "so today we are going to look at something really interesting"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_CollapsesDoubleSpaces(t *testing.T) {
	segments := []youtube.Segment{
		seg("0:00", "spaced  out"),
		seg("0:02", "text"),
	}

	got := Clean(segments, DefaultOptions())
	if strings.Contains(got, "  ") {
		t.Errorf("Clean() = %q, double spaces should collapse", got)
	}
}

func TestClean_Empty(t *testing.T) {
	if got := Clean(nil, DefaultOptions()); got != "" {
		t.Errorf("Clean(nil) = %q, want empty", got)
	}
	if got := Clean([]youtube.Segment{seg("0:00", "")}, DefaultOptions()); got != "" {
		t.Errorf("Clean(empty segments) = %q, want empty", got)
	}
}

func TestClean_ZeroOptionsUseDefaults(t *testing.T) {
	segments := []youtube.Segment{
		{Start: 0, Timestamp: "0:00", Text: "A sentence long enough to close properly."},
		{Start: 4 * time.Second, Timestamp: "0:04", Text: "Another sentence long enough to close."},
	}

	got := Clean(segments, Options{})
	// Both sentences fit in one default-sized paragraph.
	if strings.Contains(got, "\n\n") {
		t.Errorf("Clean() = %q, want single paragraph with default grouping", got)
	}
}

func TestClean_Idempotent(t *testing.T) {
	segments := []youtube.Segment{
		seg("0:00", "This is the first sentence of the talk."),
		seg("0:04", "Here comes the second one!"),
		seg("0:08", "And now a longer question arrives?"),
		seg("0:12", "A fourth sentence ends the paragraph."),
		seg("0:16", "The fifth sentence starts a new paragraph."),
	}

	first := Clean(segments, DefaultOptions())
	second := Clean(segments, DefaultOptions())
	if first != second {
		t.Errorf("Clean() is not stable across runs:\n%q\nvs\n%q", first, second)
	}

	// Feeding the clean output back through as segments keeps the same
	// paragraph count: sentence boundaries are already settled.
	var resegmented []youtube.Segment
	for _, p := range strings.Split(first, "\n\n") {
		resegmented = append(resegmented, seg("", p))
	}
	reclean := Clean(resegmented, DefaultOptions())

	firstCount := len(strings.Split(first, "\n\n"))
	recleanCount := len(strings.Split(reclean, "\n\n"))
	if firstCount != recleanCount {
		t.Errorf("paragraph count changed on re-clean: %d vs %d\nfirst:\n%s\nreclean:\n%s",
			firstCount, recleanCount, first, reclean)
	}
}

func TestClean_CustomGrouping(t *testing.T) {
	segments := []youtube.Segment{
		seg("0:00", "Sentence number one is here now."),
		seg("0:03", "Sentence number two is here now."),
		seg("0:06", "Sentence number three is here now."),
	}

	got := Clean(segments, Options{MinSentenceChars: 20, SentencesPerParagraph: 1})
	paragraphs := strings.Split(got, "\n\n")
	if len(paragraphs) != 3 {
		t.Errorf("Clean() produced %d paragraphs, want 3 with 1 sentence each:\n%s", len(paragraphs), got)
	}
}
