package qrng

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuotaLimiter(t *testing.T) {
	Convey("Given a concurrent-job quota of two", t, func() {
		ql := NewQuotaLimiter(2)

		Convey("Slots are claimable up to the quota", func() {
			So(ql.Acquire(), ShouldBeTrue)
			So(ql.Acquire(), ShouldBeTrue)
			So(ql.InFlight(), ShouldEqual, 2)

			Convey("The next claim is rejected", func() {
				So(ql.Acquire(), ShouldBeFalse)
			})

			Convey("Releasing frees a slot", func() {
				ql.Release()
				So(ql.Acquire(), ShouldBeTrue)
			})
		})

		Convey("Release never goes negative", func() {
			ql.Release()
			So(ql.InFlight(), ShouldEqual, 0)
		})
	})

	Convey("Given no quota", t, func() {
		Convey("A zero quota never limits", func() {
			ql := NewQuotaLimiter(0)
			for i := 0; i < 100; i++ {
				So(ql.Acquire(), ShouldBeTrue)
			}
		})

		Convey("A nil limiter never limits", func() {
			var ql *QuotaLimiter
			So(ql.Acquire(), ShouldBeTrue)
			ql.Release()
			So(ql.InFlight(), ShouldEqual, 0)
		})
	})
}
