package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. Handlers branch on it to pick a status code.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindConflict   Kind = "CONFLICT_ERROR"
	KindNotFound   Kind = "NOT_FOUND_ERROR"
	KindStore      Kind = "STORE_ERROR"
	KindUnhandled  Kind = "UNHANDLED_ERROR"
)

// FieldError is a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the tagged error returned across the service boundary.
type Error struct {
	Kind    Kind
	Message string
	// Field and Value describe the offending input for conflicts.
	Field  string
	Value  string
	Fields []FieldError
	cause  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches on Kind so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func NewValidation(fields []FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation error",
		Fields:  fields,
	}
}

func NewConflict(field, value string, cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("A user with this %s already exists", field),
		Field:   field,
		Value:   value,
		cause:   cause,
	}
}

func NewRelatedRecords(cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: "Operation failed due to related records",
		cause:   cause,
	}
}

func NewNotFound(resource, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Field:   "id",
		Value:   id,
	}
}

// NewStore keeps the raw store message so operators see what the driver said.
func NewStore(cause error) *Error {
	msg := "An unexpected error occurred"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return &Error{
		Kind:    KindStore,
		Message: msg,
		cause:   cause,
	}
}

func NewUnhandled(message string, cause error) *Error {
	return &Error{
		Kind:    KindUnhandled,
		Message: message,
		cause:   cause,
	}
}

// KindOf reports the Kind of err, or KindUnhandled for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnhandled
}

// HTTPStatus maps a Kind onto the status code the routing layer responds with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
