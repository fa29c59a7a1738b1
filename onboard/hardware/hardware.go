package hardware

import (
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// DutyCycleSink accepts duty cycle values for a single PWM output channel.
type DutyCycleSink interface {
	SetDuty(duty int) error
}

// AngleSink positions a servo at an absolute angle in degrees.
type AngleSink interface {
	SetAngle(deg int) error
}

// Open maps the GPIO memory range. Must be called once before any pin is
// configured.
func Open() error {
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "unable to open gpio memory range")
	}
	return nil
}

func Close() error {
	return rpio.Close()
}
