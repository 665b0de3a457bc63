package ytscrape

import (
	"ytscrape/storage"
	"ytscrape/youtube"
)

// Error types and sentinels re-exported for library users.
//
// From the youtube package:
//   - youtube.ErrInvalidURL: input is not a recognizable YouTube URL
//   - youtube.ErrNoTranscript: video has no transcript to extract
//   - youtube.ErrRateLimited: YouTube rate limited the request
//   - youtube.ListerError: error during video listing
//   - youtube.TranscriptError: error during transcript extraction
//
// From the storage package:
//   - storage.ErrLockTimeout: history file lock timeout
//   - storage.ErrHistoryCorrupt: history file corruption detected
//   - storage.StorageError: general storage operation error

// Sentinel errors re-exported from sub-packages.
var (
	ErrInvalidURL   = youtube.ErrInvalidURL
	ErrNoTranscript = youtube.ErrNoTranscript
	ErrRateLimited  = youtube.ErrRateLimited
)

// Type aliases for convenient error handling.
type (
	// ListerError wraps errors during video listing.
	ListerError = youtube.ListerError
	// TranscriptError wraps errors during transcript extraction.
	TranscriptError = youtube.TranscriptError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)
