package qrng

import (
	"fmt"
	"math/rand/v2"
)

/*
register holds the per-qubit amplitudes for one shot of a circuit. Because
the gate set is strictly single-qubit, the register state is always a product
state and never needs the full 2^width state vector.
*/
type register struct {
	qubits []*Qubit
	rng    *rand.Rand
	noise  NoiseConfig
}

func newRegister(width int, noise NoiseConfig, rng *rand.Rand) *register {
	qubits := make([]*Qubit, width)
	for i := range qubits {
		qubits[i] = NewQubit()
	}
	return &register{qubits: qubits, rng: rng, noise: noise}
}

/*
apply runs one operation against the register. Gate error is modeled as a
depolarizing kick: with the configured probability a uniformly random Pauli
follows the intended gate. Amplitude damping relaxes the qubit after every
gate, mirroring energy loss during the gate's duration on hardware.
*/
func (r *register) apply(op Op) (int, error) {
	if op.Qubit < 0 || op.Qubit >= len(r.qubits) {
		return 0, fmt.Errorf("operation targets qubit %d outside register of width %d", op.Qubit, len(r.qubits))
	}
	q := r.qubits[op.Qubit]

	switch op.Kind {
	case OpHadamard:
		q.ApplyHadamard()
	case OpPauliX:
		q.ApplyPauliX()
	case OpPauliY:
		q.ApplyPauliY()
	case OpMeasure:
		bit := q.Measure(r.rng.Float64())
		if r.rng.Float64() < r.noise.ReadoutError {
			bit = 1 - bit
		}
		return bit, nil
	default:
		return 0, fmt.Errorf("unknown operation kind %d", op.Kind)
	}

	if r.rng.Float64() < r.noise.GateError {
		switch r.rng.IntN(3) {
		case 0:
			q.ApplyPauliX()
		case 1:
			q.ApplyPauliY()
		case 2:
			q.ApplyPauliZ()
		}
	}
	q.Damp(r.noise.AmplitudeDamping)

	return 0, nil
}

/*
shot executes the full operation sequence once and returns the resulting
bitstring, classical bit 0 rendered as the least significant position.
*/
func (r *register) shot(ops []Op) (string, error) {
	bits := make([]byte, len(r.qubits))
	for i := range bits {
		bits[i] = '0'
	}

	for _, op := range ops {
		bit, err := r.apply(op)
		if err != nil {
			return "", err
		}
		if op.Kind == OpMeasure {
			if op.Clbit < 0 || op.Clbit >= len(bits) {
				return "", fmt.Errorf("measurement targets classical bit %d outside register of width %d", op.Clbit, len(bits))
			}
			// Bitstring keys read most significant bit first.
			bits[len(bits)-1-op.Clbit] = byte('0' + bit)
		}
	}

	return string(bits), nil
}
