package domain

import "errors"

var (
	// ErrDuplicateEvent is returned when an event_id has already been recorded.
	// Redeliveries hit this; the message is dropped, not requeued.
	ErrDuplicateEvent = errors.New("event already recorded")

	// ErrInvalidEvent is returned when an envelope is malformed
	ErrInvalidEvent = errors.New("invalid event envelope")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
