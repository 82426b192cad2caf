package qrng

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
NoiseConfig approximates the imperfections of a real device for offline
development. Zero values mean an ideal backend.
*/
type NoiseConfig struct {
	// GateError is the probability that a random Pauli follows each gate,
	// the depolarizing approximation of gate infidelity.
	GateError float64 `koanf:"gate_error"`
	// ReadoutError is the probability a measured bit is reported flipped.
	ReadoutError float64 `koanf:"readout_error"`
	// AmplitudeDamping is the per-gate energy relaxation strength,
	// shifting outcomes toward the all-zeros bitstring.
	AmplitudeDamping float64 `koanf:"amplitude_damping"`
}

func (nc NoiseConfig) validate() error {
	for name, p := range map[string]float64{
		"gate_error":        nc.GateError,
		"readout_error":     nc.ReadoutError,
		"amplitude_damping": nc.AmplitudeDamping,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("noise parameter %s=%v is not a probability", name, p)
		}
	}
	return nil
}

/*
Simulator executes circuits locally, shot by shot, under a configured noise
model. It is CPU bound with no external resource contention; concurrent
Execute calls are safe.
*/
type Simulator struct {
	mu    sync.Mutex
	noise NoiseConfig
	rng   *rand.Rand
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSeed makes the simulator deterministic, for tests and reproductions.
func WithSeed(seed uint64) SimulatorOption {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// NewSimulator creates a local simulator backend with the given noise model.
func NewSimulator(noise NoiseConfig, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		noise: noise,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Name() string {
	return "simulator"
}

/*
Execute samples the circuit the requested number of shots and aggregates the
measured bitstrings into counts. Cancellation is honored between shots; a
canceled run returns no partial counts.
*/
func (s *Simulator) Execute(ctx context.Context, circuit *Circuit, shots int) (Counts, error) {
	if circuit == nil || circuit.Width() < 1 {
		return nil, ErrInvalidWidth
	}
	if shots < 1 {
		return nil, ErrInsufficientShots
	}
	if err := s.noise.validate(); err != nil {
		return nil, err
	}

	errnie.Info("simulator executing %d qubit circuit for %d shots", circuit.Width(), shots)

	ops := circuit.Ops()
	counts := make(Counts)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < shots; i++ {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		reg := newRegister(circuit.Width(), s.noise, s.rng)
		bs, err := reg.shot(ops)
		if err != nil {
			return nil, err
		}
		counts[bs]++
	}

	return counts, nil
}
