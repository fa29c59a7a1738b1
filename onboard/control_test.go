package onboard

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int {
	return &v
}

func TestClampInt(t *testing.T) {
	samples := []int{math.MinInt32, -1000, -101, -100, -1, 0, 1, 50, 99, 100, 101, 1000, math.MaxInt32}

	Convey("clamping is idempotent over a wide sample", t, func() {
		for _, x := range samples {
			once := clampInt(x, THROTTLE_MIN, THROTTLE_MAX)
			So(clampInt(once, THROTTLE_MIN, THROTTLE_MAX), ShouldEqual, once)

			once = clampInt(x, STEER_MIN, STEER_MAX)
			So(clampInt(once, STEER_MIN, STEER_MAX), ShouldEqual, once)
		}
	})

	Convey("out of range values snap to the nearest boundary", t, func() {
		So(clampInt(-1, 0, 100), ShouldEqual, 0)
		So(clampInt(101, 0, 100), ShouldEqual, 100)
		So(clampInt(42, 0, 100), ShouldEqual, 42)
	})
}

func TestControlStateDefaults(t *testing.T) {
	Convey("a fresh state is stopped with the elevator centered", t, func() {
		state := NewControlState()
		So(state.Throttle, ShouldEqual, 0)
		So(state.Steer, ShouldEqual, 0)
		So(state.Elevator, ShouldEqual, ELEVATOR_CENTER_DEG)
	})
}

func TestControlStateApply(t *testing.T) {
	Convey("with a fresh state", t, func() {
		state := NewControlState()

		Convey("a full update overwrites every field", func() {
			state.Apply(ControlUpdate{Throttle: intp(42), Steer: intp(-10), Elevator: intp(135)})
			So(state.Throttle, ShouldEqual, 42)
			So(state.Steer, ShouldEqual, -10)
			So(state.Elevator, ShouldEqual, 135)
		})

		Convey("absent fields are left untouched", func() {
			state.Apply(ControlUpdate{Throttle: intp(50)})
			So(state.Throttle, ShouldEqual, 50)
			So(state.Steer, ShouldEqual, 0)
			So(state.Elevator, ShouldEqual, ELEVATOR_CENTER_DEG)

			Convey("including after a previous clamp", func() {
				state.Apply(ControlUpdate{Elevator: intp(-10)})
				So(state.Elevator, ShouldEqual, 0)

				state.Apply(ControlUpdate{})
				So(state.Elevator, ShouldEqual, 0)
			})
		})

		Convey("out of range values clamp on write", func() {
			state.Apply(ControlUpdate{Throttle: intp(300)})
			So(state.Throttle, ShouldEqual, 100)

			state.Apply(ControlUpdate{Steer: intp(-250), Elevator: intp(700)})
			So(state.Steer, ShouldEqual, -100)
			So(state.Elevator, ShouldEqual, 180)
		})

		Convey("every field stays in domain over an arbitrary sequence", func() {
			inputs := []int{math.MinInt32, -9999, -181, -100, -1, 0, 7, 99, 100, 180, 181, 4096, math.MaxInt32}
			for _, v := range inputs {
				state.Apply(ControlUpdate{Throttle: intp(v), Steer: intp(v), Elevator: intp(v)})

				So(state.Throttle, ShouldBeBetweenOrEqual, THROTTLE_MIN, THROTTLE_MAX)
				So(state.Steer, ShouldBeBetweenOrEqual, STEER_MIN, STEER_MAX)
				So(state.Elevator, ShouldBeBetweenOrEqual, ELEVATOR_MIN_DEG, ELEVATOR_MAX_DEG)
			}
		})
	})
}

func TestControlStateString(t *testing.T) {
	Convey("the status line matches the page wire format", t, func() {
		state := ControlState{Throttle: 42, Steer: -10, Elevator: 135}
		So(state.String(), ShouldEqual, "Throttle: 42%  |  Steer: -10  |  Elevator: 135°")
	})
}
