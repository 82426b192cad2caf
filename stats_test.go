package qrng

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given outcome counts over a register", t, func() {
		Convey("Exactly uniform counts have zero standard deviation", func() {
			// 2 qubits, every outcome seen 250 times.
			values := map[uint64]uint64{0: 250, 1: 250, 2: 250, 3: 250}
			stats := summarize(values, 2, 1000)

			So(stats.MeanCount, ShouldEqual, 250)
			So(stats.StdCount, ShouldAlmostEqual, 0, 1e-9)
			So(stats.NormalizedStd, ShouldEqual, 0)
			So(stats.Observed, ShouldEqual, 4)
			So(stats.Outcomes, ShouldEqual, 4)
		})

		Convey("All shots on a single bitstring give the maximal deviation", func() {
			// Closed form: std = S * sqrt(M-1) / M for S shots over M outcomes.
			values := map[uint64]uint64{2: 1000}
			stats := summarize(values, 2, 1000)

			want := 1000 * math.Sqrt(3) / 4
			So(stats.StdCount, ShouldAlmostEqual, want, 1e-6)
			So(stats.MeanCount, ShouldEqual, 250)
			So(stats.NormalizedStd, ShouldAlmostEqual, math.Sqrt(3), 1e-6)
		})

		Convey("Unseen outcomes inflate the deviation", func() {
			// 3 qubits but only two outcomes ever observed.
			seen := map[uint64]uint64{0: 500, 7: 500}
			sparse := summarize(seen, 3, 1000)

			full := map[uint64]uint64{0: 125, 1: 125, 2: 125, 3: 125, 4: 125, 5: 125, 6: 125, 7: 125}
			uniform := summarize(full, 3, 1000)

			So(sparse.StdCount, ShouldBeGreaterThan, uniform.StdCount)
			So(sparse.Observed, ShouldEqual, 2)
		})

		Convey("The closed form matches a direct full-space computation", func() {
			values := map[uint64]uint64{0: 400, 1: 100, 3: 500}
			stats := summarize(values, 2, 1000)

			mean := 250.0
			var ss float64
			for v := uint64(0); v < 4; v++ {
				d := float64(values[v]) - mean
				ss += d * d
			}
			So(stats.StdCount, ShouldAlmostEqual, math.Sqrt(ss/4), 1e-9)
		})

		Convey("Normalized deviation is rounded to nine decimals", func() {
			values := map[uint64]uint64{0: 3}
			stats := summarize(values, 1, 3)

			norm := stats.StdCount / stats.MeanCount
			So(stats.NormalizedStd, ShouldAlmostEqual, norm, 1e-9)
			So(stats.NormalizedStd*1e9, ShouldAlmostEqual, math.Round(stats.NormalizedStd*1e9), 1e-6)
		})
	})
}
