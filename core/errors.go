package core

import "github.com/pkg/errors"

// FieldError blames one request field, e.g. the "uid"/"token" pair of a
// password-reset confirmation or a "role" grant above the caller's own.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a 400-class failure of the auth and user APIs. Err keeps
// the underlying cause for logging; Fields carries what the client gets back.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

// NewFieldError is shorthand for a ValidationError blaming a single field.
func NewFieldError(field, msg string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Error: msg}}}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldMap flattens Fields into the field -> message object the API's
// error handler serializes. Nil when no field is blamed.
func (err ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(err.Fields))
	for _, fErr := range err.Fields {
		m[fErr.Field] = fErr.Error
	}
	return m
}

// shutdown requests a graceful stop of the server; the HTTP error handler
// turns it into a shutdown signal instead of a 500.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err, or its cause, requests a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
