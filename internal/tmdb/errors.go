package tmdb

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus indicates the API answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from movie API")

	// ErrInvalidPayload indicates the response body could not be decoded or
	// failed validation.
	ErrInvalidPayload = errors.New("invalid movie API payload")

	// ErrInvalidArgument indicates a caller passed a page or id below 1.
	ErrInvalidArgument = errors.New("invalid argument")
)

// maxErrorBody bounds how much of an error response body is kept.
const maxErrorBody = 512

// StatusError carries the status and a truncated body of a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("movie API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("movie API returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
