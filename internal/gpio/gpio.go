// Package gpio provides the turbine's digital inputs with hardware
// abstraction: the shaft pulse sensor (edge events feeding a
// pulse.Capture) and the emergency-stop button (level reads).
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Inputs reads the digital input states.
type Inputs interface {
	// EstopAsserted reports whether the emergency-stop button is
	// pressed. The line is pulled up and the button pulls it low, so
	// a raw 0 means asserted.
	EstopAsserted() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (chip line offsets on the reference board).
const (
	DefaultPinPulse = 17 // shaft pulse sensor, one rising edge per revolution
	DefaultPinEstop = 27 // emergency-stop button, active low
)

// DefaultChip is the GPIO character device of the reference board.
const DefaultChip = "gpiochip0"
