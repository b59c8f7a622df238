package pipeline

import "fmt"

// Stage identifies one step of the save pipeline.
type Stage int

const (
	StageExtract Stage = iota + 1
	StageResolve
	StageAssemble
	StageWrite
	StageRender
	StageRecord
)

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageExtract:
		return "extract entry source"
	case StageResolve:
		return "resolve dependencies"
	case StageAssemble:
		return "assemble script"
	case StageWrite:
		return "write artifact bundle"
	case StageRender:
		return "render figure"
	case StageRecord:
		return "record dependency graph"
	default:
		return "unknown"
	}
}

// ProgressStatus tracks the lifecycle of one stage for one figure.
type ProgressStatus string

const (
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressEvent is emitted as each stage starts, completes, or fails.
type ProgressEvent struct {
	Figure  string
	Stage   Stage
	Status  ProgressStatus
	Message string
}

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressWorking:
		return fmt.Sprintf("  ● [%s] %s...", event.Figure, event.Stage)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ [%s] %s", event.Figure, event.Stage)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ [%s] %s failed: %s", event.Figure, event.Stage, event.Message)
	default:
		return fmt.Sprintf("  ? [%s] %s (unknown status)", event.Figure, event.Stage)
	}
}
