package store

import "errors"

// ErrNotFound is returned when an operation targets a post id that does not
// resolve to an existing record.
var ErrNotFound = errors.New("post not found")

// ErrMissingImage is returned when a post is created without image metadata.
var ErrMissingImage = errors.New("post image is required")

// ValidationError reports a missing or invalid client-supplied field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}
