package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotFoundError is returned when a record ID does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError is returned for malformed input. It is never retried
// and never triggers a token refresh.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthenticationError is returned when credentials are missing, expired
// or rejected (HTTP 401 on the real transport).
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// NetworkError is a transient transport failure: connection errors,
// timeouts, and the mock store's injected faults all surface through
// this type so callers cannot tell simulated faults from real ones.
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("network timeout during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx backend response that is not covered by a
// more specific error type.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err has
// no status semantics.
func StatusCode(err error) int {
	var srv *ServerError
	if errors.As(err, &srv) {
		return srv.Status
	}
	var auth *AuthenticationError
	if errors.As(err, &auth) {
		return 401
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return 404
	}
	var val *ValidationError
	if errors.As(err, &val) {
		return 422
	}
	return 0
}

// RetryExhaustedError wraps the last underlying error after the retry
// engine has used up all attempts.
type RetryExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts in %s: %v", e.Attempts, e.Elapsed, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }
