package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ekisa-team/napcast/internal/job"
	"github.com/ekisa-team/napcast/internal/service"
	"github.com/ekisa-team/napcast/internal/voice"
)

type (
	GenerateAudioRequestDTO struct {
		_         struct{} `json:"-" additionalProperties:"true"`
		Text      string   `json:"text,omitempty" doc:"Text to synthesize"`
		VoiceMode *int     `json:"voice_mode,omitempty" doc:"Voice preset, 0 to 8" example:"0"`
		Filename  *string  `json:"filename,omitempty" doc:"Artifact base name, 1 to 50 characters" example:"napcast"`
	}

	GeneratedAudioDTO struct {
		AudioPath   string    `json:"audio_path"`
		Filename    string    `json:"filename"`
		VoiceMode   int       `json:"voice_mode"`
		JobID       string    `json:"job_id"`
		GeneratedAt time.Time `json:"generated_at"`
	}

	GenerateAudioResponseDTO struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    GeneratedAudioDTO `json:"data"`
	}

	MessageResponseDTO struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	VoiceModesResponseDTO struct {
		Success bool           `json:"success"`
		Data    []voice.Preset `json:"data"`
	}

	JobResponseDTO struct {
		Success bool     `json:"success"`
		Data    *job.Job `json:"data"`
	}

	JobsResponseDTO struct {
		Success bool       `json:"success"`
		Data    []*job.Job `json:"data"`
		Page    int        `json:"page"`
		Limit   int        `json:"limit"`
	}
)

type (
	GenerateAudioInput struct {
		Body GenerateAudioRequestDTO
	}

	GenerateAudioOutput struct {
		Body GenerateAudioResponseDTO
	}

	AudioInput struct {
		Filename string `path:"filename" doc:"Audio file name, for example napcast.mp3"`
	}

	MessageOutput struct {
		Body MessageResponseDTO
	}

	VoiceModesOutput struct {
		Body VoiceModesResponseDTO
	}

	JobInput struct {
		ID string `path:"id"`
	}

	JobOutput struct {
		Body JobResponseDTO
	}

	JobsInput struct {
		Status string `query:"status" doc:"Filter by status: running, succeeded or failed"`
		Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"20"`
		Page   int    `query:"page" minimum:"1" default:"1"`
	}

	JobsOutput struct {
		Body JobsResponseDTO
	}
)

// VoiceHandler handles HTTP requests for voice generation.
type VoiceHandler struct {
	service *service.Voice
}

// NewVoiceHandler creates a new VoiceHandler instance.
func NewVoiceHandler(api huma.API, service *service.Voice) *VoiceHandler {
	h := &VoiceHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "generate-audio",
		Method:        http.MethodPost,
		Path:          "/voice-generation/generate-audio",
		Summary:       "Generate audio from text",
		Tags:          []string{"voice-generation"},
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError},
	}, h.handleGenerate)

	huma.Register(api, huma.Operation{
		OperationID: "get-audio",
		Method:      http.MethodGet,
		Path:        "/voice-generation/audio/{filename}",
		Summary:     "Download a generated audio file",
		Tags:        []string{"voice-generation"},
		Errors:      []int{http.StatusNotFound},
	}, h.handleFetch)

	huma.Register(api, huma.Operation{
		OperationID: "delete-audio",
		Method:      http.MethodDelete,
		Path:        "/voice-generation/audio/{filename}",
		Summary:     "Delete a generated audio file",
		Tags:        []string{"voice-generation"},
		Errors:      []int{http.StatusNotFound},
	}, h.handleDelete)

	huma.Register(api, huma.Operation{
		OperationID: "list-voice-modes",
		Method:      http.MethodGet,
		Path:        "/voice-generation/voice-modes",
		Summary:     "List voice presets",
		Tags:        []string{"voice-generation"},
	}, h.handleModes)

	huma.Register(api, huma.Operation{
		OperationID: "get-job",
		Method:      http.MethodGet,
		Path:        "/voice-generation/jobs/{id}",
		Summary:     "Get a generation job",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusNotFound},
	}, h.handleJob)

	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/voice-generation/jobs",
		Summary:     "List generation jobs, newest first",
		Tags:        []string{"jobs"},
	}, h.handleJobs)

	return h
}

// handleGenerate handles the generate-audio operation.
func (h *VoiceHandler) handleGenerate(ctx context.Context, input *GenerateAudioInput) (*GenerateAudioOutput, error) {
	res, err := h.service.Generate(ctx, &service.GenerationRequest{
		Text:      input.Body.Text,
		VoiceMode: input.Body.VoiceMode,
		Name:      input.Body.Filename,
	})
	if err != nil {
		return nil, serviceError(err)
	}

	return &GenerateAudioOutput{
		Body: GenerateAudioResponseDTO{
			Success: true,
			Message: "Audio generated successfully",
			Data: GeneratedAudioDTO{
				AudioPath:   res.AudioPath(),
				Filename:    res.AudioRef,
				VoiceMode:   res.VoiceMode,
				JobID:       res.JobID,
				GeneratedAt: res.GeneratedAt,
			},
		},
	}, nil
}

// handleFetch streams a generated audio file.
func (h *VoiceHandler) handleFetch(ctx context.Context, input *AudioInput) (*huma.StreamResponse, error) {
	a, err := h.service.Open(input.Filename)
	if err != nil {
		return nil, serviceError(err)
	}

	return &huma.StreamResponse{
		Body: func(hctx huma.Context) {
			defer a.Close()

			hctx.SetHeader("Content-Type", a.ContentType)
			hctx.SetHeader("Content-Length", strconv.FormatInt(a.Size, 10))
			hctx.SetHeader("Cache-Control", "no-cache")
			hctx.SetStatus(http.StatusOK)

			if _, err := io.Copy(hctx.BodyWriter(), a); err != nil {
				slog.Warn("Failed to stream audio", "filename", a.Name, "error", err)
			}
		},
	}, nil
}

// handleDelete handles the delete-audio operation.
func (h *VoiceHandler) handleDelete(ctx context.Context, input *AudioInput) (*MessageOutput, error) {
	if err := h.service.Delete(input.Filename); err != nil {
		return nil, serviceError(err)
	}

	return &MessageOutput{
		Body: MessageResponseDTO{Success: true, Message: "Audio file deleted"},
	}, nil
}

// handleModes handles the list-voice-modes operation.
func (h *VoiceHandler) handleModes(ctx context.Context, _ *struct{}) (*VoiceModesOutput, error) {
	return &VoiceModesOutput{
		Body: VoiceModesResponseDTO{Success: true, Data: h.service.Modes()},
	}, nil
}

// handleJob handles the get-job operation.
func (h *VoiceHandler) handleJob(ctx context.Context, input *JobInput) (*JobOutput, error) {
	j, err := h.service.Job(ctx, input.ID)
	if err != nil {
		return nil, serviceError(err)
	}

	return &JobOutput{Body: JobResponseDTO{Success: true, Data: j}}, nil
}

// handleJobs handles the list-jobs operation.
func (h *VoiceHandler) handleJobs(ctx context.Context, input *JobsInput) (*JobsOutput, error) {
	jobs, err := h.service.Jobs(ctx, job.Filter{
		Status: job.Status(input.Status),
		Limit:  input.Limit,
		Offset: (input.Page - 1) * input.Limit,
	})
	if err != nil {
		return nil, serviceError(err)
	}

	if jobs == nil {
		jobs = []*job.Job{}
	}

	return &JobsOutput{
		Body: JobsResponseDTO{Success: true, Data: jobs, Page: input.Page, Limit: input.Limit},
	}, nil
}
