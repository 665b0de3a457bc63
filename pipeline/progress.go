// Package pipeline runs the bounded-concurrency fetch, format, and write
// loop over a batch of videos and aggregates the batch summary.
package pipeline

import "fmt"

// Stage identifies which part of the pipeline emitted a progress event.
type Stage string

const (
	// StageListing covers URL classification and video enumeration.
	StageListing Stage = "listing"
	// StageFetch covers per-video transcript extraction.
	StageFetch Stage = "fetch"
	// StageSave covers per-video file writes.
	StageSave Stage = "save"
	// StageDone is the final batch completion event.
	StageDone Stage = "done"
)

// Event is one progress update. The pipeline never writes to the terminal;
// the presentation layer renders events however it likes.
type Event struct {
	// Stage is the pipeline phase that emitted the event.
	Stage Stage
	// Message is a human-readable status line.
	Message string
	// VideoID is set for per-video events.
	VideoID string
	// Done and Total carry batch progress for fetch/save events; both are
	// zero when not applicable.
	Done  int
	Total int
}

// ProgressFunc receives progress events. Implementations must be safe for
// concurrent calls; workers emit from their own goroutines.
type ProgressFunc func(Event)

// emit is a nil-safe send.
func (fn ProgressFunc) emit(e Event) {
	if fn != nil {
		fn(e)
	}
}

// Logf emits a formatted status message at the given stage. Safe to call
// on a nil ProgressFunc.
func (fn ProgressFunc) Logf(stage Stage, format string, args ...any) {
	fn.emit(Event{Stage: stage, Message: fmt.Sprintf(format, args...)})
}
