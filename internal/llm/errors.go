package llm

import (
	"fmt"
	"time"
)

// ErrUnavailable indicates the generation service is down or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service unavailable: %v", e.Err)
	}
	return "generation service unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrTimeout indicates the call was abandoned after the configured deadline.
// The service is slow under load; timed-out calls are not retried.
type ErrTimeout struct {
	After time.Duration
	Err   error
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("generation request timed out after %s: %v", e.After, e.Err)
}

func (e *ErrTimeout) Unwrap() error { return e.Err }

// ErrBadStatus indicates the service answered with a non-success HTTP status.
type ErrBadStatus struct {
	StatusCode int
	Body       string
}

func (e *ErrBadStatus) Error() string {
	return fmt.Sprintf("generation service returned HTTP %d: %s", e.StatusCode, e.Body)
}

// ErrEmptyResponse indicates the service answered 200 with no generated text.
type ErrEmptyResponse struct{}

func (e *ErrEmptyResponse) Error() string {
	return "generation service returned an empty response"
}
