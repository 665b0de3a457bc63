package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"ytscrape/format"
	"ytscrape/youtube"
)

// fileTimestamp is the layout used in output file names.
const fileTimestamp = "20060102_150405"

// headerSeparator is the divider between the header block and the body.
var headerSeparator = strings.Repeat("=", 80)

// unsafeTitleChars matches everything stripped from titles when building
// file names. Letters and digits in any script are kept; regexp \w would
// only keep ASCII.
var unsafeTitleChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// Writer persists per-video transcript files and batch summaries into one
// output directory.
type Writer struct {
	dir  string
	opts format.Options

	// now is swappable for tests.
	now func() time.Time
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return &Writer{dir: dir, opts: format.DefaultOptions(), now: time.Now}, nil
}

// SetFormatOptions overrides the paragraph grouping used for the clean
// rendering.
func (w *Writer) SetFormatOptions(opts format.Options) {
	w.opts = opts
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// SaveTranscript writes the clean and raw renderings of one transcript.
// Both files start with the same header block; the clean file carries the
// paragraph rendering, the raw file one timestamped line per segment.
// It returns the two file names (not paths) that were written.
func (w *Writer) SaveTranscript(t *youtube.Transcript) (file, rawFile string, err error) {
	now := w.now()
	base := fmt.Sprintf("%s_%s", SafeTitle(t.Video.Title, t.Video.ID), now.Format(fileTimestamp))
	file = base + ".txt"
	rawFile = base + "_raw.txt"

	header := w.header(t.Video, now)

	if err := w.writeFile(file, header+format.Clean(t.Segments, w.opts)); err != nil {
		return "", "", err
	}
	if err := w.writeFile(rawFile, header+format.Raw(t.Segments)); err != nil {
		return "", "", err
	}
	return file, rawFile, nil
}

// WriteSummary serializes the batch summary to summary_<timestamp>.json,
// atomically. It returns the written file name.
func (w *Writer) WriteSummary(summary any) (string, error) {
	name := fmt.Sprintf("summary_%s.json", w.now().Format(fileTimestamp))
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", &StorageError{Op: "write", Path: path, Err: err}
	}

	aw, err := NewAtomicWriter(path)
	if err != nil {
		return "", &StorageError{Op: "write", Path: path, Err: err}
	}
	if _, err := aw.Write(data); err != nil {
		aw.Abort()
		return "", &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := aw.Commit(); err != nil {
		return "", &StorageError{Op: "write", Path: path, Err: err}
	}
	return name, nil
}

// header renders the fixed header block at the top of every transcript file.
func (w *Writer) header(ref youtube.VideoRef, now time.Time) string {
	title := ref.Title
	if title == "" {
		title = ref.ID
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Video: %s\n", title)
	fmt.Fprintf(&sb, "URL: %s\n", ref.URL)
	fmt.Fprintf(&sb, "Downloaded: %s\n", now.Format("2006-01-02 15:04:05"))
	sb.WriteString(headerSeparator)
	sb.WriteString("\n\n")
	return sb.String()
}

func (w *Writer) writeFile(name, content string) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// SafeTitle derives a filesystem-safe base name from a video title:
// everything but letters, digits, underscores, spaces, and hyphens is
// stripped and the result capped at 100 runes. An empty result falls back
// to the video ID.
func SafeTitle(title, videoID string) string {
	safe := unsafeTitleChars.ReplaceAllString(title, "")
	if runes := []rune(safe); len(runes) > 100 {
		safe = string(runes[:100])
	}
	safe = strings.TrimSpace(safe)
	if safe == "" {
		return videoID
	}
	return safe
}
