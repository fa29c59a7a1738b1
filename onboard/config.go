package onboard

import (
	"fmt"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

const (
	// CONFIG_VERSION is the schema constraint a config file must satisfy.
	CONFIG_VERSION = "~1.0.0"

	// Motor PWM carrier. 18.75kHz keeps the drivers near the top of the
	// audible range while the pwm clock (carrier * cycle length) stays
	// within the 19.2MHz pi clock ceiling: 18750 * 1024 = 19.2MHz exactly.
	MOTOR_PWM_FREQ = 18750
	MOTOR_PWM_BITS = 10
	MOTOR_PWM_MAX  = 1<<MOTOR_PWM_BITS - 1

	THROTTLE_MIN = 0
	THROTTLE_MAX = 100
	STEER_MIN    = -100 // full left
	STEER_MAX    = 100  // full right

	ELEVATOR_MIN_DEG    = 0
	ELEVATOR_MAX_DEG    = 180
	ELEVATOR_CENTER_DEG = 90
)

type RoverConfig struct {
	Version string `yaml:"version"`
	Motors  struct {
		Left  MotorConfig `yaml:"left"`
		Right MotorConfig `yaml:"right"`
	} `yaml:"motors"`
	Elevator ServoConfig `yaml:"elevator"`
}

type MotorConfig struct {
	Pin int `yaml:"pin"`
}

type ServoConfig struct {
	Pin int `yaml:"pin"`
}

// Validates the schema version of a config file against CONFIG_VERSION.
// Bare "DEV" configs are accepted so a checkout can run without a tagged schema.
func checkConfigVersion(version string) (err error) {
	if version == "DEV" {
		return nil
	}

	semVer, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "unable to parse config version '%s'", version)
	}

	semVerConstraint, err := semver.NewConstraint(CONFIG_VERSION)
	if err != nil {
		return
	}

	if !semVerConstraint.Check(semVer) {
		err = fmt.Errorf("unable to use config: recieved version %s - require %s", version, CONFIG_VERSION)
	}

	return
}
