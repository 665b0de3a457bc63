package storage

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"
)

const (
	historyVersion = "1.0"
	lockTimeout    = 5 * time.Second
)

// VideoRecord is one video's extraction outcome, kept across runs.
type VideoRecord struct {
	VideoID     string    `json:"video_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Status      string    `json:"status"`
	File        string    `json:"file,omitempty"`
	BatchID     string    `json:"batch_id"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// historyData is the top-level JSON structure of the history file.
type historyData struct {
	Version   string                  `json:"version"`
	UpdatedAt time.Time               `json:"updated_at"`
	Videos    map[string]*VideoRecord `json:"videos"`
}

// History records per-video outcomes across runs in a single JSON file,
// guarded by a file lock against concurrent instances of the tool. It backs
// the skip-already-extracted feature.
type History struct {
	path string
	lock *FileLock
	data *historyData
	mu   sync.RWMutex
}

// OpenHistory loads (or creates) the history file at path and acquires its
// lock. Callers must Close the history when done.
func OpenHistory(path string) (*History, error) {
	h := &History{
		path: path,
		lock: NewFileLock(path),
	}

	if err := h.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}
	if err := h.load(); err != nil {
		h.lock.Unlock()
		return nil, err
	}
	return h, nil
}

// load reads the JSON file into memory, starting empty if it doesn't exist.
func (h *History) load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.data = &historyData{
				Version: historyVersion,
				Videos:  make(map[string]*VideoRecord),
			}
			return nil
		}
		return &StorageError{Op: "read", Path: h.path, Err: err}
	}

	h.data = &historyData{}
	if err := json.Unmarshal(data, h.data); err != nil {
		return &StorageError{Op: "read", Path: h.path, Err: ErrHistoryCorrupt}
	}
	if h.data.Videos == nil {
		h.data.Videos = make(map[string]*VideoRecord)
	}
	return nil
}

// Done reports whether the video was already extracted successfully.
func (h *History) Done(videoID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rec, ok := h.data.Videos[videoID]
	return ok && rec.Status == "success"
}

// Record stores or replaces the outcome for one video.
func (h *History) Record(rec VideoRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := rec
	h.data.Videos[rec.VideoID] = &r
}

// Save writes the history back to disk atomically.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.data.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(h.data, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: h.path, Err: err}
	}

	aw, err := NewAtomicWriter(h.path)
	if err != nil {
		return &StorageError{Op: "write", Path: h.path, Err: err}
	}
	if _, err := aw.Write(data); err != nil {
		aw.Abort()
		return &StorageError{Op: "write", Path: h.path, Err: err}
	}
	if err := aw.Commit(); err != nil {
		return &StorageError{Op: "write", Path: h.path, Err: err}
	}
	return nil
}

// Close saves and releases the file lock.
func (h *History) Close() error {
	err := h.Save()
	if unlockErr := h.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}
