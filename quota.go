package qrng

import (
	"sync"
)

/*
QuotaLimiter enforces a remote account's concurrent-job quota locally, so a
submission the provider would reject anyway never leaves the process. The
quota is an external constraint of the account, not a tunable of this
library: a rejected acquisition is surfaced as ErrBackendUnavailable and the
caller may retry once an in-flight job completes.
*/
type QuotaLimiter struct {
	mu       sync.Mutex
	inFlight int
	maxJobs  int
}

// NewQuotaLimiter creates a limiter for the given concurrent-job quota.
// A quota below one disables limiting.
func NewQuotaLimiter(maxJobs int) *QuotaLimiter {
	return &QuotaLimiter{maxJobs: maxJobs}
}

// Acquire claims one job slot, reporting false when the quota is exhausted.
func (ql *QuotaLimiter) Acquire() bool {
	if ql == nil {
		return true
	}

	ql.mu.Lock()
	defer ql.mu.Unlock()

	if ql.maxJobs > 0 && ql.inFlight >= ql.maxJobs {
		return false
	}
	ql.inFlight++
	return true
}

// Release returns a job slot claimed by Acquire.
func (ql *QuotaLimiter) Release() {
	if ql == nil {
		return
	}

	ql.mu.Lock()
	defer ql.mu.Unlock()

	if ql.inFlight > 0 {
		ql.inFlight--
	}
}

// InFlight returns the number of currently claimed job slots.
func (ql *QuotaLimiter) InFlight() int {
	if ql == nil {
		return 0
	}

	ql.mu.Lock()
	defer ql.mu.Unlock()
	return ql.inFlight
}
