package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors unwrap to one of these so callers can
// branch with errors.Is.
var (
	ErrTimeout          = errors.New("timed out")
	ErrNotFound         = errors.New("document not found")
	ErrUnauthorized     = errors.New("authentication failed")
	ErrRemote           = errors.New("remote request failed")
	ErrMalformedData    = errors.New("malformed data")
	ErrValidation       = errors.New("validation failed")
	ErrNotAuthenticated = errors.New("admin login required")
	ErrFeedbackDisabled = errors.New("live feedback is not enabled")
	ErrNoSyncTarget     = errors.New("sync target not configured")
)

// RemoteError describes a failed call to the document store or counter service.
type RemoteError struct {
	Kind       error
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("%v (status %d): %s", e.Kind, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v (status %d)", e.Kind, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return e.Kind.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// RemoteErrorFromStatus maps an HTTP status to its error kind.
func RemoteErrorFromStatus(status int, message string) *RemoteError {
	kind := ErrRemote
	switch status {
	case 404:
		kind = ErrNotFound
	case 401, 403:
		kind = ErrUnauthorized
	}
	return &RemoteError{Kind: kind, StatusCode: status, Message: message}
}

// ValidationError rejects user input before any state is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
