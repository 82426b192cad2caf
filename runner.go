package qrng

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
RangePolicy decides what happens to outcomes above the requested range when
the outcome space 2^width is larger than the range.
*/
type RangePolicy int

const (
	// RejectionSampling discards out-of-range outcomes and renormalizes.
	// Unbiased, at the cost of wasted shots; the default.
	RejectionSampling RangePolicy = iota
	// ModuloFolding maps every outcome to low + (value mod range size).
	// No shot is wasted, but when 2^width is not an exact multiple of the
	// range size the low end of the range is favored. Opt-in only.
	ModuloFolding
)

func (p RangePolicy) String() string {
	switch p {
	case RejectionSampling:
		return "rejection-sampling"
	case ModuloFolding:
		return "modulo-folding"
	default:
		return "unknown"
	}
}

// Result is one sampled random integer plus the diagnostics of the
// distribution it was drawn from. Counts is the raw backend output, kept for
// inspection; the statistics are computed before any range filtering.
type Result struct {
	Value  int64
	Stats  DistributionStats
	Counts Counts
}

/*
Runner dispatches a circuit to a backend and reduces the returned counts to a
single random integer with distribution statistics. A Runner holds no state
across runs beyond its configuration; concurrent Run calls are independent.
*/
type Runner struct {
	backend Backend
	policy  RangePolicy

	mu  sync.Mutex
	rng *rand.Rand
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRangePolicy selects how out-of-range outcomes are handled.
func WithRangePolicy(policy RangePolicy) RunnerOption {
	return func(r *Runner) {
		r.policy = policy
	}
}

// WithDrawSeed makes the final weighted draw deterministic, for tests. The
// quantum randomness in the counts is unaffected.
func WithDrawSeed(seed uint64) RunnerOption {
	return func(r *Runner) {
		r.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// NewRunner creates a runner bound to a backend. The default range policy is
// rejection sampling.
func NewRunner(backend Backend, opts ...RunnerOption) *Runner {
	r := &Runner{
		backend: backend,
		policy:  RejectionSampling,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate builds the narrowest circuit covering [low, high] and runs it in
// one call, for callers that do not need to reuse the circuit.
func Generate(ctx context.Context, backend Backend, shots int, low, high int64, opts ...RunnerOption) (*Result, error) {
	circuit, err := CircuitForRange(low, high)
	if err != nil {
		return nil, &RunError{Backend: backend.Name(), Shots: shots, Low: low, High: high, Err: err}
	}
	return NewRunner(backend, opts...).Run(ctx, circuit, shots, low, high)
}

/*
Run executes the circuit for the given number of shots and post-processes the
counts: bitstrings become integers, statistics are computed over the full
outcome space, outcomes outside [low, high] are handled per the range policy,
and one integer is drawn from the surviving counts weighted by observed
frequency — the equivalent of picking one uniformly random shot among the
valid ones.

The call blocks until the backend returns or ctx ends. Every error is a
*RunError wrapping one of the package's sentinel errors.
*/
func (r *Runner) Run(ctx context.Context, circuit *Circuit, shots int, low, high int64) (*Result, error) {
	fail := func(err error) (*Result, error) {
		return nil, &RunError{
			Backend: r.backend.Name(),
			Shots:   shots,
			Low:     low,
			High:    high,
			Err:     err,
		}
	}

	if circuit == nil || circuit.Width() < 1 {
		return fail(ErrInvalidWidth)
	}
	if shots < 1 {
		return fail(ErrInsufficientShots)
	}
	if low > high {
		return fail(ErrInvalidRange)
	}

	// Unsigned span so the full int64 range does not wrap. rangeSize zero
	// means the range holds all 2^64 values.
	rangeSize := uint64(high) - uint64(low) + 1
	if rangeSize == 0 {
		if circuit.Width() < 64 {
			return fail(fmt.Errorf("%w: %d qubits cover %d outcomes, range needs 2^64",
				ErrInvalidWidth, circuit.Width(), circuit.Outcomes()))
		}
	} else if circuit.Outcomes() < rangeSize {
		return fail(fmt.Errorf("%w: %d qubits cover %d outcomes, range needs %d",
			ErrInvalidWidth, circuit.Width(), circuit.Outcomes(), rangeSize))
	}

	counts, err := r.backend.Execute(ctx, circuit, shots)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fail(fmt.Errorf("%w: %v", ErrBackendTimeout, err))
		}
		return fail(err)
	}

	if got := counts.Shots(); got != uint64(shots) {
		return fail(fmt.Errorf("%w: backend reported %d shots, want %d", ErrBackendUnavailable, got, shots))
	}

	values, err := counts.Values(circuit.Width())
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrBackendUnavailable, err))
	}

	stats := summarize(values, circuit.Width(), uint64(shots))
	errnie.Info("run on %s: %d/%v outcomes observed, normalized std %v",
		r.backend.Name(), stats.Observed, stats.Outcomes, stats.NormalizedStd)

	valid := r.applyRangePolicy(values, low, rangeSize)
	if len(valid) == 0 {
		return fail(ErrEmptyValidOutcomeSet)
	}

	return &Result{
		Value:  r.draw(valid),
		Stats:  stats,
		Counts: counts,
	}, nil
}

// applyRangePolicy maps raw outcome values onto [low, high] counts, either
// dropping or folding everything at and above the range size. A rangeSize of
// zero is the full 2^64 space: nothing is dropped and folding is the
// identity.
func (r *Runner) applyRangePolicy(values map[uint64]uint64, low int64, rangeSize uint64) map[int64]uint64 {
	valid := make(map[int64]uint64, len(values))
	for v, n := range values {
		switch r.policy {
		case ModuloFolding:
			if rangeSize != 0 {
				v %= rangeSize
			}
			valid[low+int64(v)] += n
		default:
			if rangeSize == 0 || v < rangeSize {
				valid[low+int64(v)] += n
			}
		}
	}
	return valid
}

// draw picks one integer from the valid counts, weighted by frequency. Keys
// are walked in sorted order so a seeded runner reproduces its draws.
func (r *Runner) draw(valid map[int64]uint64) int64 {
	keys := make([]int64, 0, len(valid))
	var total uint64
	for k, n := range valid {
		keys = append(keys, k)
		total += n
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	r.mu.Lock()
	target := r.rng.Uint64N(total)
	r.mu.Unlock()

	var cumulative uint64
	for _, k := range keys {
		cumulative += valid[k]
		if target < cumulative {
			return k
		}
	}
	return keys[len(keys)-1]
}
