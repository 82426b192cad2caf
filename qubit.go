package qrng

import (
	"math"
	"math/cmplx"
)

// Qubit tracks the |0⟩ and |1⟩ amplitudes of a single two-outcome degree of
// freedom. The generator circuit never entangles qubits, so a slice of these
// is a complete state description of the whole register.
type Qubit struct {
	alpha complex128 // |0⟩ amplitude
	beta  complex128 // |1⟩ amplitude
}

// NewQubit returns a qubit prepared in |0⟩.
func NewQubit() *Qubit {
	return &Qubit{alpha: 1, beta: 0}
}

func (q *Qubit) ApplyHadamard() {
	// H = 1/√2 * [1  1]
	//           [1 -1]
	newAlpha := (q.alpha + q.beta) / complex(math.Sqrt2, 0)
	newBeta := (q.alpha - q.beta) / complex(math.Sqrt2, 0)
	q.alpha = newAlpha
	q.beta = newBeta
}

func (q *Qubit) ApplyPauliX() {
	q.alpha, q.beta = q.beta, q.alpha
}

func (q *Qubit) ApplyPauliY() {
	q.alpha, q.beta = -1i*q.beta, 1i*q.alpha
}

func (q *Qubit) ApplyPauliZ() {
	q.beta = -q.beta
}

/*
Damp applies amplitude damping with strength gamma, shifting probability
weight from |1⟩ toward |0⟩ the way energy relaxation does on hardware. The
Kraus map is applied to the probabilities and the amplitudes rescaled, which
is exact for the product states this register produces.
*/
func (q *Qubit) Damp(gamma float64) {
	if gamma <= 0 {
		return
	}
	p1 := q.ProbabilityOne() * (1 - gamma)
	p0 := 1 - p1

	phase0 := complex(1, 0)
	if abs := cmplx.Abs(q.alpha); abs > 0 {
		phase0 = q.alpha / complex(abs, 0)
	}
	phase1 := complex(1, 0)
	if abs := cmplx.Abs(q.beta); abs > 0 {
		phase1 = q.beta / complex(abs, 0)
	}

	q.alpha = phase0 * complex(math.Sqrt(p0), 0)
	q.beta = phase1 * complex(math.Sqrt(p1), 0)
}

// ProbabilityOne returns the chance a measurement yields 1, normalized in
// case numerical noise drifted the amplitudes off the unit sphere.
func (q *Qubit) ProbabilityOne() float64 {
	p0 := cmplx.Abs(q.alpha)
	p0 *= p0
	p1 := cmplx.Abs(q.beta)
	p1 *= p1

	total := p0 + p1
	if total == 0 {
		return 0
	}
	return p1 / total
}

/*
Measure collapses the qubit using the supplied uniform draw r in [0,1): the
cumulative probability over the two basis states decides the outcome, and the
amplitudes snap to the measured state.
*/
func (q *Qubit) Measure(r float64) int {
	if r < q.ProbabilityOne() {
		q.alpha, q.beta = 0, 1
		return 1
	}
	q.alpha, q.beta = 1, 0
	return 0
}
