package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.txt", "first transcript")
	b := writeTestFile(t, dir, "b.txt", "second transcript")
	dest := filepath.Join(dir, "merged_transcripts.txt")

	skipped, err := MergeFiles([]string{a, b}, dest)
	if err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read merged file: %v", err)
	}
	text := string(content)
	if !strings.HasPrefix(text, "MERGED TRANSCRIPTS\n") {
		t.Errorf("merged file missing header:\n%s", text)
	}
	if !strings.Contains(text, "Total files: 2") {
		t.Errorf("merged header missing file count:\n%s", text)
	}
	if !strings.Contains(text, "first transcript") || !strings.Contains(text, "second transcript") {
		t.Errorf("merged file missing source content:\n%s", text)
	}
	if strings.Index(text, "first transcript") > strings.Index(text, "second transcript") {
		t.Error("merged content out of order")
	}
}

func TestMergeFiles_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.txt", "present")
	gone := filepath.Join(dir, "gone.txt")
	dest := filepath.Join(dir, "merged.txt")

	skipped, err := MergeFiles([]string{a, gone}, dest)
	if err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}
	if len(skipped) != 1 || skipped[0] != gone {
		t.Errorf("skipped = %v, want the missing file", skipped)
	}

	content, _ := os.ReadFile(dest)
	if !strings.Contains(string(content), "present") {
		t.Errorf("surviving file content missing:\n%s", content)
	}
}

func TestMergeAll(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "video_b_20240101_000000.txt", "transcript b")
	writeTestFile(t, dir, "video_a_20240101_000000.txt", "transcript a")
	writeTestFile(t, dir, "video_a_20240101_000000_raw.txt", "raw a")
	writeTestFile(t, dir, "summary_20240101_000000.json", "{}")
	writeTestFile(t, dir, "merged_old.txt", "old merge")
	dest := filepath.Join(dir, "merged_transcripts.txt")

	n, err := MergeAll(dir, dest)
	if err != nil {
		t.Fatalf("MergeAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("MergeAll() merged %d files, want 2 clean transcripts", n)
	}

	content, _ := os.ReadFile(dest)
	text := string(content)
	if strings.Contains(text, "raw a") || strings.Contains(text, "old merge") {
		t.Errorf("merged file picked up excluded files:\n%s", text)
	}
	// Sorted by name, a before b.
	if strings.Index(text, "transcript a") > strings.Index(text, "transcript b") {
		t.Error("merged content not sorted by file name")
	}
}

func TestMergeAll_ExcludesDest(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "video.txt", "only transcript")
	dest := filepath.Join(dir, "combined.txt")

	// First merge creates the dest inside the scanned directory.
	if _, err := MergeAll(dir, dest); err != nil {
		t.Fatalf("MergeAll() error = %v", err)
	}
	// Second merge must not fold the previous result into itself.
	n, err := MergeAll(dir, dest)
	if err != nil {
		t.Fatalf("MergeAll() second run error = %v", err)
	}
	if n != 1 {
		t.Errorf("MergeAll() merged %d files, want 1 (dest excluded)", n)
	}
}

func TestMergeAll_Empty(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "merged.txt")

	n, err := MergeAll(dir, dest)
	if err != nil {
		t.Fatalf("MergeAll() error = %v", err)
	}
	if n != 0 {
		t.Errorf("MergeAll() = %d, want 0", n)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("MergeAll() should not create a dest with nothing to merge")
	}
}

func TestIsCleanTranscript(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"My Video_20240101_000000.txt", true},
		{"My Video_20240101_000000_raw.txt", false},
		{"summary_20240101_000000.json", false},
		{"summary_20240101_000000.txt", false},
		{"merged_transcripts.txt", false},
		{"notes.md", false},
	}

	for _, tt := range tests {
		if got := IsCleanTranscript(tt.name); got != tt.want {
			t.Errorf("IsCleanTranscript(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
