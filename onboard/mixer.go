package onboard

// Mix combines a throttle percentage with a signed steer bias to produce
// the output percentage for one motor. The caller negates steer for the
// left side: left = Mix(t, -s), right = Mix(t, s).
//
// The mix is additive and saturating: steer is added in raw percentage
// points and the sum clamps to the throttle domain. At full throttle both
// sides pin at 100% so steering authority falls off as throttle rises.
// The shipped firmware behaves this way and the control page was tuned
// against it, so keep the formula as is.
func Mix(throttle, steer int) int {
	return clampInt(throttle+steer, THROTTLE_MIN, THROTTLE_MAX)
}

// PercentToDuty rescales a percentage onto the PWM duty range
// [0, MOTOR_PWM_MAX] with round half up. Input is re-clamped so a raw
// value can be passed directly.
func PercentToDuty(pct int) int {
	pct = clampInt(pct, THROTTLE_MIN, THROTTLE_MAX)
	return (pct*MOTOR_PWM_MAX + 50) / 100
}
