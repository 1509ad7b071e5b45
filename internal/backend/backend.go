package backend

import (
	"context"
	"time"
)

// Status is the terminal state of a synthesis process.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
	StatusCanceled  Status = "canceled"
)

// Backend defines the core interface for synthesis backends.
type Backend interface {
	Invoker

	// Provider returns the backend identifier.
	Provider() string

	// Close cleans up resources.
	Close() error
}

// Invoker runs one synthesis and reports how it ended.
type Invoker interface {
	// Invoke blocks until the synthesis process exits, times out, or ctx is done.
	// The returned error is reserved for failures to prepare the invocation;
	// process failures are reported through the Outcome.
	Invoke(ctx context.Context, inv *Invocation) (*Outcome, error)
}

// Invocation encapsulates all parameters for a synthesis call.
type Invocation struct {
	// InputPath is the file holding the text to synthesize.
	InputPath string

	// OutputPath is where the process must write the audio.
	OutputPath string

	// Name is the artifact base name.
	Name string

	// VoiceMode selects the voice preset.
	VoiceMode int
}

// Outcome describes a finished synthesis process.
type Outcome struct {
	Status      Status        `json:"status"`
	Stderr      string        `json:"stderr,omitempty"`
	ExitCode    int           `json:"exit_code"`
	Duration    time.Duration `json:"duration"`
	AudioExists bool          `json:"audio_exists"` // checked right after exit
}

// Succeeded reports whether the process exited cleanly.
func (o *Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}
