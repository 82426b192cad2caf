package qrng

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewCircuit(t *testing.T) {
	Convey("Given a requested register width", t, func() {
		Convey("The circuit carries one Hadamard and one measurement per qubit", func() {
			for _, width := range []int{1, 2, 5, 16} {
				circuit, err := NewCircuit(width)
				So(err, ShouldBeNil)
				So(circuit.Width(), ShouldEqual, width)

				hadamards := 0
				measures := 0
				touched := make(map[int]bool)
				for _, op := range circuit.Ops() {
					switch op.Kind {
					case OpHadamard:
						hadamards++
					case OpMeasure:
						measures++
						touched[op.Clbit] = true
						So(op.Clbit, ShouldEqual, op.Qubit)
					}
				}
				So(hadamards, ShouldEqual, width)
				So(measures, ShouldEqual, width)
				So(len(touched), ShouldEqual, width)
			}
		})

		Convey("Every operation targets a single qubit", func() {
			circuit, err := NewCircuit(4)
			So(err, ShouldBeNil)
			for _, op := range circuit.Ops() {
				So(op.Qubit, ShouldBeBetweenOrEqual, 0, 3)
			}
		})

		Convey("A width below one is rejected", func() {
			for _, width := range []int{0, -1, -100} {
				circuit, err := NewCircuit(width)
				So(circuit, ShouldBeNil)
				So(err, ShouldEqual, ErrInvalidWidth)
			}
		})

		Convey("Building the same width twice yields the same structure", func() {
			a, err := NewCircuit(3)
			So(err, ShouldBeNil)
			b, err := NewCircuit(3)
			So(err, ShouldBeNil)
			So(a.Ops(), ShouldResemble, b.Ops())
		})

		Convey("Mutating the returned op slice leaves the circuit untouched", func() {
			circuit, err := NewCircuit(2)
			So(err, ShouldBeNil)
			ops := circuit.Ops()
			ops[0].Kind = OpPauliX
			So(circuit.Ops()[0].Kind, ShouldEqual, OpHadamard)
		})
	})
}

func TestCircuitForRange(t *testing.T) {
	Convey("Given an integer range", t, func() {
		Convey("The derived width is the minimal one covering the range", func() {
			cases := []struct {
				low, high int64
				width     int
			}{
				{0, 0, 1},
				{0, 1, 1},
				{0, 3, 2},
				{0, 4, 3},
				{0, 7, 3},
				{0, 255, 8},
				{10, 17, 3},
				{-4, 3, 3},
				{math.MinInt64, math.MinInt64 + 3, 2},
				{math.MaxInt64 - 7, math.MaxInt64, 3},
				{math.MinInt64, math.MaxInt64, 64},
			}
			for _, tc := range cases {
				circuit, err := CircuitForRange(tc.low, tc.high)
				So(err, ShouldBeNil)
				So(circuit.Width(), ShouldEqual, tc.width)
			}
		})

		Convey("An inverted range is rejected", func() {
			circuit, err := CircuitForRange(5, 4)
			So(circuit, ShouldBeNil)
			So(err, ShouldEqual, ErrInvalidRange)
		})
	})
}

func TestCircuitExtend(t *testing.T) {
	Convey("Given a circuit and an inserted operation block", t, func() {
		circuit, err := NewCircuit(2)
		So(err, ShouldBeNil)

		derived := circuit.extend([]Op{
			{Kind: OpPauliX, Qubit: 0},
			{Kind: OpPauliX, Qubit: 0},
		})

		Convey("The insertion lands between preparation and measurement", func() {
			ops := derived.Ops()
			So(len(ops), ShouldEqual, 6)
			So(ops[0].Kind, ShouldEqual, OpHadamard)
			So(ops[1].Kind, ShouldEqual, OpHadamard)
			So(ops[2].Kind, ShouldEqual, OpPauliX)
			So(ops[3].Kind, ShouldEqual, OpPauliX)
			So(ops[4].Kind, ShouldEqual, OpMeasure)
			So(ops[5].Kind, ShouldEqual, OpMeasure)
		})

		Convey("The original circuit is unchanged", func() {
			So(len(circuit.Ops()), ShouldEqual, 4)
		})
	})
}
