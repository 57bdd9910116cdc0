// Package adc provides the load-sense analog input with hardware
// abstraction. The real implementation reads an ADS1015 I2C ADC wired to
// the 22k/10k load divider; the fake allows testing without hardware.
package adc

// Reader reads the load-sense voltage at the ADC pin, in volts, before
// the divider ratio is undone.
type Reader interface {
	ReadVoltage() (float64, error)

	// Close releases ADC resources.
	Close() error
}

// DefaultChannel is the ADS1015 input channel wired to the load divider.
const DefaultChannel = 0
