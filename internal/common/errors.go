// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrAuth indicates the server rejected our credentials (HTTP 401).
	// The session is cleared centrally before this is returned.
	ErrAuth = errors.New("authentication required")
	// ErrServer indicates a server fault (HTTP 5xx). Not retried.
	ErrServer = errors.New("server error")
	// ErrTimeout indicates the request deadline elapsed with no response.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork indicates a transport failure with no response received.
	ErrNetwork = errors.New("network error")

	// ErrValidation indicates input rejected client-side, before any
	// network call.
	ErrValidation = errors.New("validation failed")
	// ErrUpload indicates the external image upload failed.
	ErrUpload = errors.New("image upload failed")

	// ErrLoggedOut indicates no usable session exists and the user must
	// authenticate again.
	ErrLoggedOut = errors.New("not logged in")

	// ErrMissingConfig indicates required configuration is absent.
	ErrMissingConfig = errors.New("missing configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
