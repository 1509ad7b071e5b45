package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ekisa-team/napcast/internal/artifact"
	"github.com/ekisa-team/napcast/internal/backend"
	"github.com/ekisa-team/napcast/internal/events"
	"github.com/ekisa-team/napcast/internal/job"
	"github.com/ekisa-team/napcast/internal/voice"
)

const (
	// DefaultName is the artifact base name used when a request does not set one.
	DefaultName = "napcast"

	// MaxNameLength is the maximum artifact base name length in characters.
	MaxNameLength = 50

	// AudioRoute is the URL prefix under which generated audio is served.
	AudioRoute = "/voice-generation/audio/"

	publishTimeout = 5 * time.Second
)

// JobStore records generation attempts.
type JobStore interface {
	Create(ctx context.Context, filename string, voiceMode int) (*job.Job, error)
	Finish(ctx context.Context, id string, status job.Status, kind, message string) error
	Get(ctx context.Context, id string) (*job.Job, error)
	List(ctx context.Context, f job.Filter) ([]*job.Job, error)
}

// GenerationRequest asks for text to be turned into audio.
// Nil fields take their defaults.
type GenerationRequest struct {
	Text      string
	VoiceMode *int
	Name      *string
}

// Result references a generated audio artifact.
type Result struct {
	AudioRef    string
	VoiceMode   int
	JobID       string
	GeneratedAt time.Time
}

// AudioPath returns the URL path the artifact is served from.
func (r *Result) AudioPath() string {
	return AudioRoute + r.AudioRef
}

// Voice orchestrates artifact storage and synthesis.
type Voice struct {
	store     *artifact.Store
	invoker   backend.Invoker
	jobs      JobStore
	publisher events.Publisher
	inflight  *inflight
	now       func() time.Time
}

// NewVoice creates a new voice service. A nil publisher discards events.
func NewVoice(store *artifact.Store, invoker backend.Invoker, jobs JobStore, publisher events.Publisher) *Voice {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Voice{
		store:     store,
		invoker:   invoker,
		jobs:      jobs,
		publisher: publisher,
		inflight:  newInflight(),
		now:       time.Now,
	}
}

// Generate synthesizes req.Text and blocks until the audio artifact exists
// or the attempt has failed. The synthesis process is stopped when ctx is done.
func (s *Voice) Generate(ctx context.Context, req *GenerationRequest) (*Result, error) {
	text, mode, name, verr := validate(req)
	if verr != nil {
		return nil, verr
	}

	if !s.inflight.acquire(name) {
		return nil, &Error{
			Kind:    KindNameInUse,
			Message: fmt.Sprintf("Audio %q is already being generated", name),
		}
	}
	defer s.inflight.release(name)

	h, err := s.store.Handle(name)
	if err != nil {
		if errors.Is(err, artifact.ErrInvalidName) {
			return nil, validationError(FieldError{Field: "filename", Message: "Filename must not contain path separators"})
		}
		return nil, storageError(err)
	}

	j, err := s.jobs.Create(ctx, h.AudioName(), mode)
	if err != nil {
		return nil, storageError(err)
	}

	res, gerr := s.generate(ctx, text, mode, h)
	s.finish(ctx, j.ID, gerr)
	if gerr != nil {
		slog.Error("Audio generation failed", "name", name, "job_id", j.ID, "kind", gerr.Kind, "error", gerr)
		return nil, gerr
	}

	res.JobID = j.ID
	slog.Info("Audio generated", "filename", res.AudioRef, "voice_mode", mode, "job_id", j.ID)

	s.publish(ctx, res)
	return res, nil
}

func (s *Voice) generate(ctx context.Context, text string, mode int, h *artifact.Handle) (*Result, *Error) {
	if err := s.store.EnsureDir(); err != nil {
		return nil, storageError(err)
	}

	// A previous artifact with this name must not count as this run's output.
	if err := s.store.Remove(h.AudioPath); err != nil {
		return nil, storageError(err)
	}

	defer func() {
		if err := s.store.Remove(h.TextPath); err != nil {
			slog.Warn("Failed to remove text artifact", "name", h.BaseName, "error", err)
		}
	}()

	if err := s.store.WriteText(h.TextPath, text); err != nil {
		return nil, storageError(err)
	}

	outcome, err := s.invoker.Invoke(ctx, &backend.Invocation{
		InputPath:  h.TextPath,
		OutputPath: h.AudioPath,
		Name:       h.BaseName,
		VoiceMode:  mode,
	})
	if err != nil {
		return nil, &Error{
			Kind:    KindSynthesisFailed,
			Message: "Failed to generate audio",
			Detail:  "synthesis could not be started",
			Err:     err,
		}
	}

	if !outcome.Succeeded() {
		return nil, &Error{
			Kind:    KindSynthesisFailed,
			Message: "Failed to generate audio",
			Detail:  outcomeDetail(outcome),
		}
	}

	if !outcome.AudioExists {
		return nil, &Error{
			Kind:    KindOutputMissing,
			Message: "Audio file was not generated",
		}
	}

	return &Result{
		AudioRef:    h.AudioName(),
		VoiceMode:   mode,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// finish records the terminal job state even when ctx was canceled.
func (s *Voice) finish(ctx context.Context, id string, gerr *Error) {
	ctx = context.WithoutCancel(ctx)

	status, kind, message := job.StatusSucceeded, "", ""
	if gerr != nil {
		status, kind, message = job.StatusFailed, string(gerr.Kind), gerr.Message
		if gerr.Detail != "" {
			message += ": " + gerr.Detail
		}
	}

	if err := s.jobs.Finish(ctx, id, status, kind, message); err != nil {
		slog.Error("Failed to record job outcome", "job_id", id, "error", err)
	}
}

func (s *Voice) publish(ctx context.Context, res *Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := s.publisher.PublishGenerated(ctx, &events.AudioGenerated{
		JobID:       res.JobID,
		Filename:    res.AudioRef,
		AudioPath:   res.AudioPath(),
		VoiceMode:   res.VoiceMode,
		GeneratedAt: res.GeneratedAt,
	})
	if err != nil {
		slog.Warn("Failed to publish generation event", "job_id", res.JobID, "error", err)
	}
}

// Open opens a generated artifact for reading. The caller must close it.
func (s *Voice) Open(filename string) (*artifact.Artifact, error) {
	a, err := s.store.Open(filename)
	if err != nil {
		return nil, artifactError(filename, err)
	}
	return a, nil
}

// Delete removes a generated artifact.
func (s *Voice) Delete(filename string) error {
	if err := s.store.Delete(filename); err != nil {
		return artifactError(filename, err)
	}

	slog.Info("Audio deleted", "filename", filename)
	return nil
}

// Modes returns the available voice presets.
func (s *Voice) Modes() []voice.Preset {
	return voice.All()
}

// Job returns a recorded generation attempt.
func (s *Voice) Job(ctx context.Context, id string) (*job.Job, error) {
	j, err := s.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Message: "Job not found"}
		}
		return nil, storageError(err)
	}
	return j, nil
}

// Jobs lists recorded generation attempts, newest first.
func (s *Voice) Jobs(ctx context.Context, f job.Filter) ([]*job.Job, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationError(FieldError{Field: "status", Message: "Status must be one of running, succeeded, failed"})
	}

	jobs, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, storageError(err)
	}
	return jobs, nil
}

// validate applies defaults and checks every field before anything touches disk.
func validate(req *GenerationRequest) (text string, mode int, name string, verr *Error) {
	var fields []FieldError

	text = req.Text
	if strings.TrimSpace(text) == "" {
		fields = append(fields, FieldError{Field: "text", Message: "Text is required for audio generation"})
	}

	mode = voice.DefaultMode
	if req.VoiceMode != nil {
		mode = *req.VoiceMode
		if !voice.Valid(mode) {
			fields = append(fields, FieldError{
				Field:   "voice_mode",
				Message: fmt.Sprintf("Voice mode must be an integer between %d and %d", voice.MinMode, voice.MaxMode),
			})
		}
	}

	name = DefaultName
	if req.Name != nil {
		name = *req.Name
		switch n := utf8.RuneCountInString(name); {
		case n < 1 || n > MaxNameLength:
			fields = append(fields, FieldError{
				Field:   "filename",
				Message: fmt.Sprintf("Filename must be between 1 and %d characters", MaxNameLength),
			})
		case !safeName(name):
			fields = append(fields, FieldError{Field: "filename", Message: "Filename must not contain path separators"})
		}
	}

	if len(fields) > 0 {
		return "", 0, "", validationError(fields...)
	}
	return text, mode, name, nil
}

func safeName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, "/\\\x00")
}

func artifactError(filename string, err error) *Error {
	if errors.Is(err, artifact.ErrNotFound) || errors.Is(err, artifact.ErrInvalidName) {
		return &Error{Kind: KindNotFound, Message: "Audio file not found", Err: err}
	}
	slog.Error("Failed to access audio artifact", "filename", filename, "error", err)
	return storageError(err)
}

func outcomeDetail(o *backend.Outcome) string {
	stderr := strings.TrimSpace(o.Stderr)

	var reason string
	switch o.Status {
	case backend.StatusTimedOut:
		reason = "synthesis timed out"
	case backend.StatusCanceled:
		reason = "synthesis canceled"
	default:
		if stderr == "" {
			return fmt.Sprintf("synthesis exited with code %d", o.ExitCode)
		}
		return stderr
	}

	if stderr == "" {
		return reason
	}
	return reason + ": " + stderr
}
