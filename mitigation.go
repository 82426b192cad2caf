package qrng

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/theapemachine/errnie"
)

/*
MitigationConfig names the error-suppression and error-mitigation techniques
a device backend applies around a remote execution. Suppression transforms
the circuit before submission; mitigation corrects the reported counts
afterward. Neither touches failure signals: a failed job stays failed.
*/
type MitigationConfig struct {
	// DynamicalDecoupling inserts a decoupling pulse sequence on every
	// qubit between state preparation and measurement, suppressing
	// dephasing while the job idles in hardware.
	DynamicalDecoupling bool `koanf:"dynamical_decoupling"`
	// DDSequence selects the decoupling sequence; "XY4" (the default) is
	// the only sequence currently shipped.
	DDSequence string `koanf:"dd_sequence"`
	// TwirlGates randomizes coherent gate errors into stochastic ones by
	// surrounding the idle window with a random self-canceling Pauli pair.
	TwirlGates bool `koanf:"twirl_gates"`
	// ReadoutMitigation inverts the calibrated readout error channel on
	// the returned counts.
	ReadoutMitigation bool `koanf:"readout_mitigation"`
	// ReadoutErrorRate is the calibrated per-qubit readout flip
	// probability used by the inversion. Must be below 0.5.
	ReadoutErrorRate float64 `koanf:"readout_error_rate"`
}

// Widest register the counts-vector inversion will handle. Above this the
// 2^width working vector stops being worth the memory.
const maxMitigationWidth = 24

/*
applySuppression derives the circuit actually submitted to hardware. The
input circuit is never modified: decoupling and twirling operations are
inserted before the measurement block on a copy.
*/
func applySuppression(circuit *Circuit, cfg MitigationConfig, rng *rand.Rand) *Circuit {
	var inserted []Op

	if cfg.DynamicalDecoupling {
		// XY4: X-Y-X-Y on every qubit, identity up to global phase.
		for q := 0; q < circuit.Width(); q++ {
			inserted = append(inserted,
				Op{Kind: OpPauliX, Qubit: q},
				Op{Kind: OpPauliY, Qubit: q},
				Op{Kind: OpPauliX, Qubit: q},
				Op{Kind: OpPauliY, Qubit: q},
			)
		}
	}

	if cfg.TwirlGates {
		for q := 0; q < circuit.Width(); q++ {
			kind := OpPauliX
			if rng.IntN(2) == 1 {
				kind = OpPauliY
			}
			// A doubled Pauli cancels itself; only the randomization of
			// the error channel in between survives.
			inserted = append(inserted,
				Op{Kind: kind, Qubit: q},
				Op{Kind: kind, Qubit: q},
			)
		}
	}

	if len(inserted) == 0 {
		return circuit
	}
	return circuit.extend(inserted)
}

/*
mitigateReadout inverts a symmetric per-qubit readout error channel on the
reported counts. The channel on one bit is the matrix [[1-e, e], [e, 1-e]];
its inverse is applied along every bit position of the 2^width counts vector,
then negative artifacts are clamped and the vector rescaled so the counts
still sum to the shot count.

Mitigated counts are a statistical correction: individual entries are
estimates, but the invariants the runner relies on (fixed-width keys, sum
equal to shots) are preserved exactly.
*/
func mitigateReadout(counts Counts, width int, eps float64, shots uint64) (Counts, error) {
	if eps <= 0 {
		return counts, nil
	}
	if eps >= 0.5 {
		errnie.Info("readout error rate %v is uninvertible, returning counts unmitigated", eps)
		return counts, nil
	}
	if width > maxMitigationWidth {
		errnie.Info("register width %d exceeds mitigation limit %d, returning counts unmitigated", width, maxMitigationWidth)
		return counts, nil
	}

	values, err := counts.Values(width)
	if err != nil {
		return nil, err
	}

	size := uint64(1) << width
	vec := make([]float64, size)
	for v, n := range values {
		vec[v] = float64(n)
	}

	// Inverse of the one-bit channel, applied bit position by bit position.
	// The tensor structure of independent readout errors makes the full
	// 2^width inversion a sequence of 2x2 inversions.
	inv := 1 / (1 - 2*eps)
	for bit := 0; bit < width; bit++ {
		stride := uint64(1) << bit
		for i := uint64(0); i < size; i++ {
			if i&stride != 0 {
				continue
			}
			a, b := vec[i], vec[i|stride]
			vec[i] = inv * ((1-eps)*a - eps*b)
			vec[i|stride] = inv * ((1-eps)*b - eps*a)
		}
	}

	var total float64
	for i, v := range vec {
		if v < 0 {
			vec[i] = 0
			continue
		}
		total += v
	}
	if total <= 0 {
		errnie.Info("readout mitigation annihilated the distribution, returning counts unmitigated")
		return counts, nil
	}

	return quantize(vec, width, shots), nil
}

// quantize rescales a nonnegative vector to integer counts summing exactly
// to shots, assigning the rounding remainder by largest fractional part.
func quantize(vec []float64, width int, shots uint64) Counts {
	var total float64
	for _, v := range vec {
		total += v
	}

	type entry struct {
		value uint64
		whole uint64
		frac  float64
	}

	entries := make([]entry, 0, len(vec))
	var assigned uint64
	for i, v := range vec {
		if v <= 0 {
			continue
		}
		scaled := v * float64(shots) / total
		whole := uint64(math.Floor(scaled))
		entries = append(entries, entry{value: uint64(i), whole: whole, frac: scaled - float64(whole)})
		assigned += whole
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].frac != entries[j].frac {
			return entries[i].frac > entries[j].frac
		}
		return entries[i].value < entries[j].value
	})

	remainder := shots - assigned
	for i := range entries {
		if remainder == 0 {
			break
		}
		entries[i].whole++
		remainder--
	}

	mitigated := make(Counts, len(entries))
	for _, e := range entries {
		if e.whole > 0 {
			mitigated[Bitstring(e.value, width)] = e.whole
		}
	}
	return mitigated
}
