package hardware

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

const (
	SERVO_FREQ  = 50   // SG90 class servos expect ~50Hz
	SERVO_CYCLE = 2000 // 10us slots across the 20ms period

	// pulse bounds in cycle slots: 100 slots = 1ms at 0deg, 200 = 2ms at 180deg
	SERVO_DUTY_MIN = 100
	SERVO_DUTY_MAX = 200

	SERVO_ANGLE_MIN = 0
	SERVO_ANGLE_MAX = 180
)

// PWMServo positions a hobby servo through a hardware PWM pin.
type PWMServo struct {
	pin rpio.Pin
}

func NewPWMServo(pinNumber int) *PWMServo {
	pin := rpio.Pin(pinNumber)
	pin.Mode(rpio.Pwm)
	pin.Freq(SERVO_FREQ * SERVO_CYCLE)

	log.WithField("pin", pinNumber).Info("servo pwm channel configured")

	return &PWMServo{pin: pin}
}

func (s *PWMServo) SetAngle(deg int) error {
	if deg < SERVO_ANGLE_MIN || deg > SERVO_ANGLE_MAX {
		return errors.Errorf("angle %d outside of range %d-%d", deg, SERVO_ANGLE_MIN, SERVO_ANGLE_MAX)
	}

	s.pin.DutyCycle(servoDuty(deg), SERVO_CYCLE)
	return nil
}

// servoDuty maps an angle onto the pulse width slot count.
func servoDuty(deg int) uint32 {
	return uint32(SERVO_DUTY_MIN + deg*(SERVO_DUTY_MAX-SERVO_DUTY_MIN)/SERVO_ANGLE_MAX)
}
