package qrng

import (
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
CircuitState represents the state of the circuit breaker guarding the remote
transport as it transitions between operational modes.
*/
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation, submissions allowed
	CircuitOpen                         // Remote faults exceeded threshold, submissions rejected
	CircuitHalfOpen                     // Probationary, limited submissions to test recovery
)

/*
CircuitBreaker stops hammering a failing remote backend. Remote submissions
are billable and queue-limited, so once consecutive faults pass the threshold
the breaker rejects further submissions locally (surfaced as
ErrBackendUnavailable) until the reset timeout elapses, then lets a bounded
number of probes through before closing again.
*/
type CircuitBreaker struct {
	mu               sync.Mutex
	maxFailures      int           // Consecutive failures before opening
	resetTimeout     time.Duration // Wait before probing a failed backend again
	halfOpenMax      int           // Probe submissions allowed while half-open
	failureCount     int
	state            CircuitState
	openTime         time.Time
	halfOpenAttempts int
}

// NewCircuitBreaker creates a breaker in the closed state.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, halfOpenMax int) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		halfOpenMax:  halfOpenMax,
		state:        CircuitClosed,
	}
}

// RecordFailure counts a remote fault and opens the circuit once the
// threshold is reached. A fault during the half-open probe reopens it.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	if cb.failureCount >= cb.maxFailures {
		if cb.state == CircuitHalfOpen {
			cb.state = CircuitOpen
			cb.openTime = time.Now()
			errnie.Info("backend breaker reopened from half-open state")
		} else if cb.state == CircuitClosed {
			cb.state = CircuitOpen
			cb.openTime = time.Now()
			errnie.Info("backend breaker opened after %d consecutive faults", cb.failureCount)
		}
	}
}

// RecordSuccess resets the failure count and, after enough half-open probes
// succeed, closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitHalfOpen {
		cb.halfOpenAttempts++
		if cb.halfOpenAttempts >= cb.halfOpenMax {
			cb.state = CircuitClosed
			cb.failureCount = 0
			cb.halfOpenAttempts = 0
			errnie.Info("backend breaker closed from half-open")
		}
	} else if cb.state == CircuitClosed {
		cb.failureCount = 0
	}
}

// Allow reports whether a submission may proceed, transitioning an expired
// open circuit to half-open.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.openTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			cb.halfOpenAttempts = 0
			return true
		}
		return false
	case CircuitHalfOpen:
		return cb.halfOpenAttempts < cb.halfOpenMax
	default:
		return false
	}
}
