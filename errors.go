package qrng

import (
	"errors"
	"fmt"
)

// ErrInvalidWidth is returned when a circuit is requested with fewer than one
// qubit, or when a circuit is too narrow to cover the requested range.
var ErrInvalidWidth = errors.New("circuit width must cover at least one qubit")

// ErrInvalidRange is returned when low exceeds high.
var ErrInvalidRange = errors.New("low end of range must not exceed high end")

// ErrInsufficientShots is returned when the requested shot count is not
// positive. Caller error, not worth retrying.
var ErrInsufficientShots = errors.New("shot count must be positive")

// ErrBackendUnavailable is returned when the selected backend cannot be
// reached, the remote job fails, or a concurrent-job quota rejects the
// submission. Transient: safe to retry with backoff.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ErrBackendTimeout is returned when a remote job exceeds the caller's
// deadline. Retry with the same or a reduced shot count.
var ErrBackendTimeout = errors.New("backend timed out")

// ErrEmptyValidOutcomeSet is returned when rejection sampling filters out
// every observed outcome. Retry with more shots or reconsider the range.
var ErrEmptyValidOutcomeSet = errors.New("no observed outcome fell inside the requested range")

/*
RunError wraps a failure from a generator run with the parameters that
produced it, so a caller deciding whether to retry sees the backend, the shot
count and the requested range without parsing the message.
*/
type RunError struct {
	Backend string
	Shots   int
	Low     int64
	High    int64
	Err     error
}

func (e *RunError) Error() string {
	return fmt.Sprintf(
		"qrng run on %s (shots=%d range=[%d,%d]): %v",
		e.Backend, e.Shots, e.Low, e.High, e.Err,
	)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
