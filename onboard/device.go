package onboard

import (
	"sync"

	"github.com/CodedInternet/gorover/onboard/hardware"
	log "github.com/sirupsen/logrus"
)

// Rover is the device facade the network and shell layers talk to.
type Rover interface {
	Apply(u ControlUpdate) ControlState
	State() ControlState
	Status() string
	Stop() ControlState
}

// ActuatorRover owns the control state and the three physical output
// channels. It is the only writer of the outputs: every state mutation
// goes through Apply, which recomputes and emits the full output set so
// the channels can never go stale relative to the state.
type ActuatorRover struct {
	state ControlState

	left, right hardware.DutyCycleSink
	elevator    hardware.AngleSink

	lock sync.Mutex
}

// NewRover wires a rover over explicit output sinks and primes the
// channels with the default state so output levels are defined before
// the first request. Used directly by the simulator and tests;
// NewActuatorRover is the hardware entry point.
func NewRover(left, right hardware.DutyCycleSink, elevator hardware.AngleSink) (r *ActuatorRover) {
	r = &ActuatorRover{
		state:    NewControlState(),
		left:     left,
		right:    right,
		elevator: elevator,
	}

	r.applyOutputs()
	return
}

func NewActuatorRover(config RoverConfig) (r *ActuatorRover, err error) {
	if err = checkConfigVersion(config.Version); err != nil {
		return
	}

	if err = hardware.Open(); err != nil {
		return
	}

	cycle := MOTOR_PWM_MAX + 1
	r = NewRover(
		hardware.NewPWMMotor(config.Motors.Left.Pin, MOTOR_PWM_FREQ, cycle),
		hardware.NewPWMMotor(config.Motors.Right.Pin, MOTOR_PWM_FREQ, cycle),
		hardware.NewPWMServo(config.Elevator.Pin),
	)
	return
}

// Apply stores the update (clamping each present field) and pushes the
// recomputed outputs. Returns the state as applied.
func (r *ActuatorRover) Apply(u ControlUpdate) ControlState {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.state.Apply(u)
	r.applyOutputs()
	return r.state
}

func (r *ActuatorRover) State() ControlState {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.state
}

func (r *ActuatorRover) Status() string {
	return r.State().String()
}

// Stop zeroes the drive. The elevator holds its position.
func (r *ActuatorRover) Stop() ControlState {
	zero := 0
	return r.Apply(ControlUpdate{Throttle: &zero, Steer: &zero})
}

// applyOutputs translates the current state into the two motor duties
// and the servo angle and emits them. Steering left slows the left side:
// the left motor sees the negated steer bias. Callers must hold lock.
func (r *ActuatorRover) applyOutputs() {
	leftPct := Mix(r.state.Throttle, -r.state.Steer)
	rightPct := Mix(r.state.Throttle, r.state.Steer)

	if err := r.left.SetDuty(PercentToDuty(leftPct)); err != nil {
		log.WithError(err).Warn("unable to write left motor duty")
	}
	if err := r.right.SetDuty(PercentToDuty(rightPct)); err != nil {
		log.WithError(err).Warn("unable to write right motor duty")
	}

	r.state.Elevator = clampInt(r.state.Elevator, ELEVATOR_MIN_DEG, ELEVATOR_MAX_DEG)
	if err := r.elevator.SetAngle(r.state.Elevator); err != nil {
		log.WithError(err).Warn("unable to write elevator angle")
	}
}
