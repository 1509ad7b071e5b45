package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ekisa-team/napcast/internal/service"
)

// FieldErrorDTO reports a single invalid request field.
type FieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorDTO is the body of every error response.
type ErrorDTO struct {
	status int

	Success bool            `json:"success"`
	Message string          `json:"message"`
	Detail  string          `json:"error,omitempty"`
	Errors  []FieldErrorDTO `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDTO) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorDTO) GetStatus() int {
	return e.status
}

// newError replaces huma's problem+json errors with the API error envelope.
// Request validation failures are reported as 400 with per-field details.
func newError(status int, msg string, errs ...error) huma.StatusError {
	e := &ErrorDTO{status: status, Message: msg}

	if status == http.StatusUnprocessableEntity {
		e.status = http.StatusBadRequest
		e.Message = "Validation failed"
	}

	for _, err := range errs {
		if err == nil {
			continue
		}

		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			d := detailer.ErrorDetail()
			e.Errors = append(e.Errors, FieldErrorDTO{
				Field:   fieldName(d.Location),
				Message: d.Message,
			})
			continue
		}

		if status < http.StatusInternalServerError {
			e.Detail = err.Error()
		}
	}

	return e
}

// fieldName turns a huma location such as "body.voice_mode" into "voice_mode".
func fieldName(location string) string {
	for _, prefix := range []string{"body.", "query.", "path.", "header."} {
		if strings.HasPrefix(location, prefix) {
			return strings.TrimPrefix(location, prefix)
		}
	}
	return location
}

// serviceError maps a service error to an HTTP response.
func serviceError(err error) error {
	var serr *service.Error
	if !errors.As(err, &serr) {
		return &ErrorDTO{
			status:  http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}

	e := &ErrorDTO{
		status:  statusFor(serr.Kind),
		Message: serr.Message,
		Detail:  serr.Detail,
	}
	for _, f := range serr.Fields {
		e.Errors = append(e.Errors, FieldErrorDTO{Field: f.Field, Message: f.Message})
	}

	return e
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidationFailed:
		return http.StatusBadRequest
	case service.KindNameInUse:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
