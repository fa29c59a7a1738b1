package onboard

// SimulatedMotor records every duty value written to it. Doubles as the
// recording fake in tests.
type SimulatedMotor struct {
	Duty    int
	History []int
}

func (m *SimulatedMotor) SetDuty(duty int) error {
	m.Duty = duty
	m.History = append(m.History, duty)
	return nil
}

// SimulatedServo records every angle written to it.
type SimulatedServo struct {
	Angle   int
	History []int
}

func (s *SimulatedServo) SetAngle(deg int) error {
	s.Angle = deg
	s.History = append(s.History, deg)
	return nil
}

// NewRoverSimulator builds a rover over recording sinks so the full stack
// can run on a machine with no PWM hardware (-sim flag).
func NewRoverSimulator(config RoverConfig) (r *ActuatorRover, err error) {
	if err = checkConfigVersion(config.Version); err != nil {
		return
	}

	r = NewRover(new(SimulatedMotor), new(SimulatedMotor), new(SimulatedServo))
	return
}
