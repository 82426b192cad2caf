package qrng

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuitBreaker(t *testing.T) {
	Convey("Given a breaker guarding a remote backend", t, func() {
		cb := NewCircuitBreaker(3, 200*time.Millisecond, 2)

		// Fresh breakers allow everything.
		So(cb.state, ShouldEqual, CircuitClosed)
		So(cb.Allow(), ShouldBeTrue)

		Convey("Consecutive faults up to the threshold open it", func() {
			for i := 0; i < 3; i++ {
				cb.RecordFailure()
			}
			So(cb.state, ShouldEqual, CircuitOpen)
			So(cb.Allow(), ShouldBeFalse)

			Convey("After the reset timeout a probe is allowed", func() {
				time.Sleep(250 * time.Millisecond)
				So(cb.Allow(), ShouldBeTrue)
				So(cb.state, ShouldEqual, CircuitHalfOpen)

				Convey("Enough successful probes close it again", func() {
					cb.RecordSuccess()
					cb.RecordSuccess()
					So(cb.state, ShouldEqual, CircuitClosed)
				})

				Convey("Faults during probation reopen it", func() {
					for i := 0; i < 3; i++ {
						cb.RecordFailure()
					}
					So(cb.state, ShouldEqual, CircuitOpen)
				})
			})
		})

		Convey("A success in normal operation clears the fault count", func() {
			cb.RecordFailure()
			cb.RecordFailure()
			cb.RecordSuccess()
			cb.RecordFailure()
			So(cb.state, ShouldEqual, CircuitClosed)
		})
	})
}
