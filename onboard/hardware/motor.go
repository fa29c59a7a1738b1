package hardware

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

// Supported pwm clock range. Outside of it the clock divisor truncates
// to nonsense and the output frequency is undefined.
const (
	PWM_CLOCK_MIN = 4688
	PWM_CLOCK_MAX = 19200000
)

// PWMMotor drives one side of the differential pair through a hardware
// PWM pin. Duty values run 0 to cycle-1; the pwm clock is set to
// freq * cycle so a full cycle completes at the carrier frequency.
type PWMMotor struct {
	pin   rpio.Pin
	cycle uint32
}

func NewPWMMotor(pinNumber, freq, cycle int) *PWMMotor {
	if clock := freq * cycle; clock < PWM_CLOCK_MIN || clock > PWM_CLOCK_MAX {
		panic(fmt.Sprintf("pwm clock %dHz (carrier %d * cycle %d) outside of range %d-%d", clock, freq, cycle, PWM_CLOCK_MIN, PWM_CLOCK_MAX))
	}

	pin := rpio.Pin(pinNumber)
	pin.Mode(rpio.Pwm)
	pin.Freq(freq * cycle)

	m := &PWMMotor{
		pin:   pin,
		cycle: uint32(cycle),
	}

	// start with the channel held low
	m.pin.DutyCycle(0, m.cycle)

	log.WithFields(log.Fields{
		"pin":  pinNumber,
		"freq": freq,
	}).Info("motor pwm channel configured")

	return m
}

func (m *PWMMotor) SetDuty(duty int) error {
	if duty < 0 || uint32(duty) >= m.cycle {
		return errors.Errorf("duty %d outside of range 0-%d", duty, m.cycle-1)
	}

	m.pin.DutyCycle(uint32(duty), m.cycle)
	return nil
}
