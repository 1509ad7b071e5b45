package service

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindValidationFailed Kind = "ValidationFailed"
	KindNameInUse        Kind = "NameInUse"
	KindSynthesisFailed  Kind = "SynthesisFailed"
	KindOutputMissing    Kind = "OutputMissing"
	KindStorageError     Kind = "StorageError"
	KindNotFound         Kind = "NotFound"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidationFailed = &Error{Kind: KindValidationFailed}
	ErrNameInUse        = &Error{Kind: KindNameInUse}
	ErrSynthesisFailed  = &Error{Kind: KindSynthesisFailed}
	ErrOutputMissing    = &Error{Kind: KindOutputMissing}
	ErrStorageError     = &Error{Kind: KindStorageError}
	ErrNotFound         = &Error{Kind: KindNotFound}
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned by the voice service. Message is safe to show to callers;
// Detail carries diagnostics such as process stderr. Err is never exposed.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of err, or "" when err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationError(fields ...FieldError) *Error {
	return &Error{
		Kind:    KindValidationFailed,
		Message: "Validation failed",
		Fields:  fields,
	}
}

func storageError(err error) *Error {
	return &Error{
		Kind:    KindStorageError,
		Message: "Server error during voice generation",
		Err:     err,
	}
}
