package services

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; the concrete *Error carries the client-facing message.
var (
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrReferenceNotFound indicates a forward reference to a document that does not exist.
	ErrReferenceNotFound = errors.New("referenced entity not found")
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the operation would break a reference invariant.
	ErrConflict = errors.New("conflict")
)

// Error is a classified catalog error.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message of a classified error, or "" otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
