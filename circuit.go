package qrng

import (
	"math/bits"
)

// OpKind identifies a single-qubit operation in a circuit.
type OpKind int

const (
	OpHadamard OpKind = iota // Equal-superposition preparation
	OpPauliX                 // Bit flip
	OpPauliY                 // Bit and phase flip
	OpMeasure                // Measurement into a classical bit
)

// Op is one operation applied to one qubit. Entangling operations do not
// exist in this gate set: every outcome bit is an independent coin flip.
type Op struct {
	Kind  OpKind
	Qubit int
	Clbit int // Target classical bit, only meaningful for OpMeasure
}

/*
Circuit is an ordered sequence of single-qubit operations over a fixed
register width, ending in one measurement per qubit. It is immutable once
built; the randomness lives entirely in execution-time measurement, never in
the circuit itself, so building the same width twice yields the same circuit.
*/
type Circuit struct {
	width int
	ops   []Op
}

/*
NewCircuit builds the generator circuit for a register of the given width:
one Hadamard per qubit to prepare the uniform superposition over all 2^width
bitstrings, then one measurement per qubit mapping qubit i to classical
bit i.

Returns ErrInvalidWidth when width is less than one.
*/
func NewCircuit(width int) (*Circuit, error) {
	if width < 1 {
		return nil, ErrInvalidWidth
	}

	ops := make([]Op, 0, 2*width)
	for q := 0; q < width; q++ {
		ops = append(ops, Op{Kind: OpHadamard, Qubit: q})
	}
	for q := 0; q < width; q++ {
		ops = append(ops, Op{Kind: OpMeasure, Qubit: q, Clbit: q})
	}

	return &Circuit{width: width, ops: ops}, nil
}

/*
CircuitForRange builds the narrowest generator circuit able to cover the
integer range [low, high]: the minimal width with 2^width >= high-low+1.

Returns ErrInvalidRange when low exceeds high.
*/
func CircuitForRange(low, high int64) (*Circuit, error) {
	if low > high {
		return nil, ErrInvalidRange
	}
	return NewCircuit(WidthForRange(low, high))
}

// WidthForRange returns the minimal qubit count whose outcome space covers
// [low, high]. A single-value range still needs one qubit; the full int64
// range needs all 64. The span is computed in unsigned arithmetic so a range
// crossing the whole signed space does not wrap.
func WidthForRange(low, high int64) int {
	span := uint64(high) - uint64(low)
	if span == 0 {
		return 1
	}
	return bits.Len64(span)
}

// Width returns the number of qubits (and classical bits) in the circuit.
func (c *Circuit) Width() int {
	return c.width
}

// Ops returns a copy of the operation sequence.
func (c *Circuit) Ops() []Op {
	ops := make([]Op, len(c.ops))
	copy(ops, c.ops)
	return ops
}

// Outcomes returns the size of the outcome space, 2^width, saturating at
// MaxUint64 for widths of 64 and above.
func (c *Circuit) Outcomes() uint64 {
	if c.width >= 64 {
		return ^uint64(0)
	}
	return uint64(1) << c.width
}

// extend returns a new circuit with the given operations inserted before the
// measurement block. The receiver is never modified; pre-execution
// transformations in the device path work on the copy.
func (c *Circuit) extend(inserted []Op) *Circuit {
	ops := make([]Op, 0, len(c.ops)+len(inserted))
	for _, op := range c.ops {
		if op.Kind == OpMeasure {
			break
		}
		ops = append(ops, op)
	}
	ops = append(ops, inserted...)
	for _, op := range c.ops {
		if op.Kind == OpMeasure {
			ops = append(ops, op)
		}
	}
	return &Circuit{width: c.width, ops: ops}
}
