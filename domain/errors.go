package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the response classes callers branch on with errors.Is.
var (
	// ErrAuth marks rejected credentials. It is fatal at the up-front
	// authentication checks and a counted per-item failure anywhere else.
	ErrAuth = errors.New("authentication rejected")

	// ErrConflict marks a create that raced an already existing resource.
	ErrConflict = errors.New("resource already exists")

	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited marks a rate limit that persisted through the retry.
	ErrRateLimited = errors.New("rate limited")
)

// ServerError is any other non-success HTTP response, kept with enough
// context for the per-item failure log.
type ServerError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}
