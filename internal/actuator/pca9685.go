package actuator

import (
	"fmt"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/experimental/devices/pca9685"
)

// PCA9685Drive commands the actuator through one channel of a PCA9685
// servo PWM controller.
type PCA9685Drive struct {
	dev     *pca9685.Dev
	channel int
}

// NewPCA9685 opens the PCA9685 at its default address and sets the 50 Hz
// servo frame rate. The caller owns the bus.
func NewPCA9685(bus i2c.Bus, channel int) (*PCA9685Drive, error) {
	dev, err := pca9685.NewI2C(bus, pca9685.I2CAddr)
	if err != nil {
		return nil, fmt.Errorf("open pca9685: %w", err)
	}
	if err := dev.SetPwmFreq(50 * physic.Hertz); err != nil {
		return nil, fmt.Errorf("set pca9685 frequency: %w", err)
	}
	return &PCA9685Drive{dev: dev, channel: channel}, nil
}

// SetPosition maps degrees to a 500-2500 us pulse: 2.5%-12.5% duty at
// 50 Hz over the chip's 4096-tick frame.
func (d *PCA9685Drive) SetPosition(position int) error {
	if err := checkPosition(position); err != nil {
		return err
	}
	duty := 0.025 + float64(position)/servoSweep*0.1
	if err := d.dev.SetPwm(d.channel, 0, gpio.Duty(duty*4096)); err != nil {
		return fmt.Errorf("set pca9685 channel %d: %w", d.channel, err)
	}
	return nil
}

// Close stops driving the channel. The servo holds its last position
// mechanically.
func (d *PCA9685Drive) Close() error {
	if err := d.dev.SetPwm(d.channel, 0, 0); err != nil {
		return fmt.Errorf("release pca9685 channel %d: %w", d.channel, err)
	}
	return nil
}
