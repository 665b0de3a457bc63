// Package storage persists transcripts, batch summaries, and the extraction
// history to local files.
package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for storage operations.
var (
	// ErrLockTimeout indicates the history file lock could not be
	// acquired in time.
	ErrLockTimeout = errors.New("storage: file lock timeout")

	// ErrHistoryCorrupt indicates the history file could not be parsed.
	ErrHistoryCorrupt = errors.New("storage: history file corrupt")
)

// StorageError wraps errors during storage operations with the operation
// and path that failed.
type StorageError struct {
	// Op is the operation that failed ("write", "merge", "lock", ...).
	Op string
	// Path is the file involved.
	Path string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the storage failure.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *StorageError) Unwrap() error {
	return e.Err
}
