package qrng

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQubit(t *testing.T) {
	Convey("Given a qubit prepared in |0⟩", t, func() {
		q := NewQubit()
		So(q.ProbabilityOne(), ShouldAlmostEqual, 0, 1e-12)

		Convey("Hadamard prepares the equal superposition", func() {
			q.ApplyHadamard()
			So(q.ProbabilityOne(), ShouldAlmostEqual, 0.5, 1e-12)

			Convey("A second Hadamard undoes it", func() {
				q.ApplyHadamard()
				So(q.ProbabilityOne(), ShouldAlmostEqual, 0, 1e-12)
			})
		})

		Convey("Pauli X flips the outcome", func() {
			q.ApplyPauliX()
			So(q.ProbabilityOne(), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Pauli Y flips the outcome up to phase", func() {
			q.ApplyPauliY()
			So(q.ProbabilityOne(), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Pauli Z leaves the outcome distribution alone", func() {
			q.ApplyHadamard()
			q.ApplyPauliZ()
			So(q.ProbabilityOne(), ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("Full amplitude damping relaxes everything to |0⟩", func() {
			q.ApplyPauliX()
			q.Damp(1)
			So(q.ProbabilityOne(), ShouldAlmostEqual, 0, 1e-12)
		})

		Convey("Partial damping shifts weight toward |0⟩", func() {
			q.ApplyHadamard()
			q.Damp(0.2)
			So(q.ProbabilityOne(), ShouldAlmostEqual, 0.4, 1e-12)
		})

		Convey("Measurement collapses via the cumulative probability draw", func() {
			q.ApplyHadamard()
			So(q.Measure(0.2), ShouldEqual, 1)
			// Collapsed: every later draw agrees.
			So(q.Measure(0.9), ShouldEqual, 1)
			So(q.ProbabilityOne(), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("A draw past the |1⟩ weight yields 0", func() {
			q.ApplyHadamard()
			So(q.Measure(0.7), ShouldEqual, 0)
			So(q.ProbabilityOne(), ShouldAlmostEqual, 0, 1e-12)
		})
	})
}
