package onboard

import "fmt"

// ControlState holds the last commanded values for the drive and the
// elevator. Every field is kept inside its domain by clamping on write,
// so a stored state is always safe to feed straight to the outputs.
type ControlState struct {
	Throttle int `json:"throttle"` // forward intent, 0-100%
	Steer    int `json:"steer"`    // signed turn bias, -100 (left) to 100 (right)
	Elevator int `json:"elev"`     // absolute servo angle in degrees, 0-180
}

// ControlUpdate is a partial update. A nil field leaves the corresponding
// state value untouched.
type ControlUpdate struct {
	Throttle *int
	Steer    *int
	Elevator *int
}

func NewControlState() ControlState {
	return ControlState{
		Throttle: 0,
		Steer:    0,
		Elevator: ELEVATOR_CENTER_DEG,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply overwrites each present field with its clamped value. Out of range
// values snap to the nearest domain boundary; there is no error path.
func (s *ControlState) Apply(u ControlUpdate) {
	if u.Throttle != nil {
		s.Throttle = clampInt(*u.Throttle, THROTTLE_MIN, THROTTLE_MAX)
	}
	if u.Steer != nil {
		s.Steer = clampInt(*u.Steer, STEER_MIN, STEER_MAX)
	}
	if u.Elevator != nil {
		s.Elevator = clampInt(*u.Elevator, ELEVATOR_MIN_DEG, ELEVATOR_MAX_DEG)
	}
}

// String reports the applied state in the wire format the control page
// displays: "Throttle: 42%  |  Steer: -10  |  Elevator: 135°"
func (s ControlState) String() string {
	return fmt.Sprintf("Throttle: %d%%  |  Steer: %d  |  Elevator: %d°", s.Throttle, s.Steer, s.Elevator)
}
