package qrng

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
)

/*
Transport is the provider-owned boundary to a live quantum backend. Network,
queueing, authentication and accounting all live behind it; this library only
sees the counts contract. Submit blocks until the remote job finishes or the
context ends. Cancel is best effort: providers without job cancellation may
return an error, which is logged and swallowed.
*/
type Transport interface {
	Submit(ctx context.Context, job *Job) (Counts, error)
	Cancel(ctx context.Context, jobID string) error
}

/*
Device executes circuits on a remote quantum backend through a Transport.
Every submission consumes billable, quota-limited resources, so the device
wraps the transport in the guards a paid remote dependency deserves: a
concurrent-job quota limiter, a circuit breaker across repeated faults,
bounded retries with backoff for transient failures, and a per-job deadline
with best-effort remote cancellation.

Before submission the circuit is transformed per the configured error
suppression; after a successful job the reported counts are corrected per the
configured error mitigation. Failures pass through untouched.
*/
type Device struct {
	mu         sync.Mutex
	name       string
	transport  Transport
	mitigation MitigationConfig
	quota      *QuotaLimiter
	breaker    *CircuitBreaker
	metrics    *Metrics
	timeout    time.Duration
	attempts   uint
	retryDelay time.Duration
	rng        *rand.Rand
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithDeviceName labels the device in errors and logs.
func WithDeviceName(name string) DeviceOption {
	return func(d *Device) {
		d.name = name
	}
}

// WithJobTimeout bounds how long one remote job may take, queue time
// included. Zero leaves the deadline to the caller's context.
func WithJobTimeout(timeout time.Duration) DeviceOption {
	return func(d *Device) {
		d.timeout = timeout
	}
}

// WithJobQuota caps concurrent remote jobs to the account's quota.
func WithJobQuota(maxJobs int) DeviceOption {
	return func(d *Device) {
		d.quota = NewQuotaLimiter(maxJobs)
	}
}

// WithSubmitRetries sets the total submission attempts and the initial
// backoff delay for transient remote faults.
func WithSubmitRetries(attempts uint, delay time.Duration) DeviceOption {
	return func(d *Device) {
		d.attempts = attempts
		d.retryDelay = delay
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(breaker *CircuitBreaker) DeviceOption {
	return func(d *Device) {
		d.breaker = breaker
	}
}

// WithDeviceSeed makes the twirling randomization deterministic, for tests.
func WithDeviceSeed(seed uint64) DeviceOption {
	return func(d *Device) {
		d.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// NewDevice creates a remote device backend on top of the given transport.
func NewDevice(transport Transport, mitigation MitigationConfig, opts ...DeviceOption) *Device {
	d := &Device{
		name:       "device",
		transport:  transport,
		mitigation: mitigation,
		breaker:    NewCircuitBreaker(5, 30*time.Second, 2),
		metrics:    newMetrics(),
		attempts:   3,
		retryDelay: 2 * time.Second,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) Name() string {
	return d.name
}

// Metrics returns the device's submission telemetry.
func (d *Device) Metrics() *Metrics {
	return d.metrics
}

/*
Execute submits one job for the full shot count and blocks until counts come
back or the deadline passes. Either the complete counts mapping is returned
or the call fails; the remote job is canceled on timeout when the provider
supports it.
*/
func (d *Device) Execute(ctx context.Context, circuit *Circuit, shots int) (Counts, error) {
	if circuit == nil || circuit.Width() < 1 {
		return nil, ErrInvalidWidth
	}
	if shots < 1 {
		return nil, ErrInsufficientShots
	}

	if !d.breaker.Allow() {
		return nil, fmt.Errorf("%w: breaker open for %s", ErrBackendUnavailable, d.name)
	}
	if !d.quota.Acquire() {
		return nil, fmt.Errorf("%w: concurrent job quota exhausted on %s", ErrBackendUnavailable, d.name)
	}
	defer d.quota.Release()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	d.mu.Lock()
	submitted := applySuppression(circuit, d.mitigation, d.rng)
	d.mu.Unlock()

	job := &Job{
		ID:          uuid.NewString(),
		Circuit:     submitted,
		Shots:       shots,
		SubmittedAt: time.Now(),
	}

	errnie.Info("submitting job %s to %s: %d qubits, %d shots", job.ID, d.name, circuit.Width(), shots)

	counts, err := retry.NewWithData[Counts](
		retry.Context(ctx),
		retry.Attempts(d.attempts),
		retry.Delay(d.retryDelay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrBackendUnavailable)
		}),
		retry.OnRetry(func(n uint, err error) {
			d.metrics.recordRetry()
			errnie.Info("job %s attempt %d failed transiently: %v", job.ID, n+1, err)
		}),
		retry.LastErrorOnly(true),
	).Do(func() (Counts, error) {
		return d.transport.Submit(ctx, job)
	})
	d.metrics.recordSubmission(job.SubmittedAt, err)

	if err != nil {
		d.breaker.RecordFailure()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			d.cancelRemote(job.ID)
			return nil, fmt.Errorf("%w: job %s exceeded deadline on %s", ErrBackendTimeout, job.ID, d.name)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			d.cancelRemote(job.ID)
			return nil, fmt.Errorf("job %s canceled on %s: %w", job.ID, d.name, context.Canceled)
		}
		if errors.Is(err, ErrBackendUnavailable) {
			return nil, fmt.Errorf("job %s on %s: %w", job.ID, d.name, err)
		}
		return nil, fmt.Errorf("%w: job %s on %s: %v", ErrBackendUnavailable, job.ID, d.name, err)
	}

	if got := counts.Shots(); got != uint64(shots) {
		d.breaker.RecordFailure()
		return nil, fmt.Errorf("%w: %s reported %d shots for job %s, want %d",
			ErrBackendUnavailable, d.name, got, job.ID, shots)
	}
	d.breaker.RecordSuccess()

	if d.mitigation.ReadoutMitigation {
		return mitigateReadout(counts, circuit.Width(), d.mitigation.ReadoutErrorRate, uint64(shots))
	}
	return counts, nil
}

// cancelRemote asks the provider to abandon a timed-out job so it stops
// accruing cost. The parent context is already dead, so a short independent
// deadline is used.
func (d *Device) cancelRemote(jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.transport.Cancel(ctx, jobID); err != nil {
		errnie.Info("cancel of job %s failed: %v", jobID, err)
	}
}
