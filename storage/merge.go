package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// mergeSeparator divides transcripts inside a merged file.
var mergeSeparator = "\n\n" + strings.Repeat("=", 80) + "\n\n"

// MergeFiles concatenates the given transcript files into one file at
// destPath, with a merge header listing the source count. Files that have
// gone missing are skipped and reported in the returned list.
func MergeFiles(paths []string, destPath string) (skipped []string, err error) {
	aw, err := NewAtomicWriter(destPath)
	if err != nil {
		return nil, &StorageError{Op: "merge", Path: destPath, Err: err}
	}

	var sb strings.Builder
	sb.WriteString("MERGED TRANSCRIPTS\n")
	fmt.Fprintf(&sb, "Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Total files: %d\n", len(paths))
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n\n")
	if _, err := aw.Write([]byte(sb.String())); err != nil {
		aw.Abort()
		return nil, &StorageError{Op: "merge", Path: destPath, Err: err}
	}

	wrote := 0
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, path)
			continue
		}
		if wrote > 0 {
			if _, err := aw.Write([]byte(mergeSeparator)); err != nil {
				aw.Abort()
				return nil, &StorageError{Op: "merge", Path: destPath, Err: err}
			}
		}
		if _, err := aw.Write(content); err != nil {
			aw.Abort()
			return nil, &StorageError{Op: "merge", Path: destPath, Err: err}
		}
		wrote++
	}

	if err := aw.Commit(); err != nil {
		return nil, &StorageError{Op: "merge", Path: destPath, Err: err}
	}
	return skipped, nil
}

// MergeAll merges every clean transcript in dir into destPath, sorted by
// name. Raw transcripts, summaries, and previous merge results are
// excluded. It returns the number of files merged.
func MergeAll(dir, destPath string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, &StorageError{Op: "merge", Path: dir, Err: err}
	}

	var paths []string
	absDest, _ := filepath.Abs(destPath)
	for _, entry := range entries {
		if entry.IsDir() || !IsCleanTranscript(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if abs, _ := filepath.Abs(path); abs == absDest {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return 0, nil
	}
	if _, err := MergeFiles(paths, destPath); err != nil {
		return 0, err
	}
	return len(paths), nil
}

// IsCleanTranscript reports whether a file name looks like a clean
// per-video transcript written by this tool.
func IsCleanTranscript(name string) bool {
	return strings.HasSuffix(name, ".txt") &&
		!strings.HasSuffix(name, "_raw.txt") &&
		!strings.HasPrefix(name, "summary_") &&
		!strings.HasPrefix(name, "merged_")
}
