package actuator

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// Raspberry Pi hardware PWM: 50 Hz frame split into 2000 cycle slots, so
// one slot is 10 us and the 1.0-2.0 ms servo pulse is 100-200 slots.
const (
	rpioServoFreq  = 50
	rpioServoCycle = 2000
)

// rpioPWMPins are the Pi pins with hardware PWM support.
var rpioPWMPins = map[int]bool{
	12: true,
	13: true,
	18: true,
	19: true,
}

// RPiPWMDrive commands the actuator on a Raspberry Pi hardware PWM pin.
type RPiPWMDrive struct {
	pin rpio.Pin
}

// NewRPiPWM maps /dev/gpiomem and configures pin for 50 Hz servo PWM.
func NewRPiPWM(pin int) (*RPiPWMDrive, error) {
	if !rpioPWMPins[pin] {
		return nil, fmt.Errorf("pin %d has no hardware PWM (use 12, 13, 18 or 19)", pin)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open rpio: %w", err)
	}
	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	p.Freq(rpioServoFreq * rpioServoCycle)
	return &RPiPWMDrive{pin: p}, nil
}

// SetPosition maps degrees to a 1.0-2.0 ms pulse within the 20 ms frame.
func (d *RPiPWMDrive) SetPosition(position int) error {
	if err := checkPosition(position); err != nil {
		return err
	}
	duty := uint32(float64(position)/servoSweep*100.0 + 100.0)
	d.pin.DutyCycle(duty, rpioServoCycle)
	return nil
}

// Close releases the GPIO mapping. The PWM keeps running with the last
// duty cycle until the process exits.
func (d *RPiPWMDrive) Close() error {
	rpio.Close()
	return nil
}
