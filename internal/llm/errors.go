package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials indicates no provider API key is configured.
	ErrMissingCredentials = errors.New("llm provider credentials missing")

	// ErrAuthFailed indicates the provider rejected the credentials.
	ErrAuthFailed = errors.New("llm provider rejected credentials")

	// ErrRateLimited indicates the provider quota or rate limit was hit.
	ErrRateLimited = errors.New("llm provider rate limited")

	// ErrUpstream indicates a transport failure or other non-2xx response.
	ErrUpstream = errors.New("llm provider request failed")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)

// StatusError is a non-2xx provider response. It unwraps to the sentinel
// matching its status class.
type StatusError struct {
	StatusCode int
	Body       string
	kind       error
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.StatusCode, body)
}

func (e *StatusError) Unwrap() error { return e.kind }

func statusError(code int, body string) *StatusError {
	kind := ErrUpstream
	switch {
	case code == 401 || code == 403:
		kind = ErrAuthFailed
	case code == 429:
		kind = ErrRateLimited
	}
	return &StatusError{StatusCode: code, Body: body, kind: kind}
}

// ErrorCode returns a short stable code for logs and metrics.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredentials):
		return "MISSING_CREDENTIALS"
	case errors.Is(err, ErrAuthFailed):
		return "AUTH"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrUpstream):
		return "UPSTREAM"
	default:
		return "UNKNOWN"
	}
}
