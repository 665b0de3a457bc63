// Package format renders transcript segments into the two text forms
// written to disk: a raw timestamped listing and a cleaned prose form
// re-split into paragraphs.
package format

import (
	"strings"

	"ytscrape/youtube"
)

// Options controls paragraph grouping in the clean rendering.
type Options struct {
	// MinSentenceChars is the minimum accumulated length before a
	// sentence-ending punctuation mark closes a sentence. Guards against
	// abbreviations and stray periods producing one-word sentences.
	MinSentenceChars int

	// SentencesPerParagraph is how many sentences are grouped into one
	// paragraph.
	SentencesPerParagraph int
}

// DefaultOptions matches the grouping used by the transcript files.
func DefaultOptions() Options {
	return Options{
		MinSentenceChars:      20,
		SentencesPerParagraph: 4,
	}
}

// Raw renders one line per segment, prefixed with its display timestamp.
// Segments with empty text are skipped; a missing timestamp omits the
// prefix rather than printing empty brackets.
func Raw(segments []youtube.Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		if seg.Timestamp != "" {
			sb.WriteString("[")
			sb.WriteString(seg.Timestamp)
			sb.WriteString("] ")
		}
		sb.WriteString(seg.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Clean concatenates segment text and re-splits it into readable
// paragraphs. Splitting is purely punctuation- and length-based: sentences
// end at '.', '!' or '?' once MinSentenceChars have accumulated, and
// SentencesPerParagraph sentences form a paragraph.
func Clean(segments []youtube.Segment, opts Options) string {
	if opts.MinSentenceChars <= 0 {
		opts.MinSentenceChars = DefaultOptions().MinSentenceChars
	}
	if opts.SentencesPerParagraph <= 0 {
		opts.SentencesPerParagraph = DefaultOptions().SentencesPerParagraph
	}

	var parts []string
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	text := strings.Join(parts, " ")
	text = strings.TrimSpace(strings.ReplaceAll(text, "  ", " "))
	if text == "" {
		return ""
	}

	sentences := splitSentences(text, opts.MinSentenceChars)

	var paragraphs []string
	var current []string
	for i, sentence := range sentences {
		current = append(current, sentence)
		if len(current) >= opts.SentencesPerParagraph || i == len(sentences)-1 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// splitSentences walks the text rune by rune, closing a sentence at
// sentence-ending punctuation once minChars have accumulated.
func splitSentences(text string, minChars int) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && current.Len() > minChars {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
