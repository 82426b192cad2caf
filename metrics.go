package qrng

import (
	"sync"
	"time"
)

/*
Metrics tracks the remote execution telemetry of a device backend. Remote
submissions are billable and slow, so the numbers that matter are how many
jobs went out, how many failed, how often retries were needed, and how long
the queue kept us waiting.
*/
type Metrics struct {
	mu sync.RWMutex

	Submissions    int64
	Failures       int64
	Retries        int64
	TotalQueueTime time.Duration
	LastSubmission time.Time
}

func newMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordSubmission(start time.Time, err error) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Submissions++
	m.TotalQueueTime += time.Since(start)
	m.LastSubmission = start
	if err != nil {
		m.Failures++
	}
}

func (m *Metrics) recordRetry() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retries++
}

// Export returns a snapshot of the telemetry for logging or dashboards.
func (m *Metrics) Export() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avg := time.Duration(0)
	if m.Submissions > 0 {
		avg = m.TotalQueueTime / time.Duration(m.Submissions)
	}

	return map[string]any{
		"submissions":    m.Submissions,
		"failures":       m.Failures,
		"retries":        m.Retries,
		"avg_queue_time": avg.Milliseconds(),
	}
}
