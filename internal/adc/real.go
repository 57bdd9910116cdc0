package adc

import (
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/experimental/conn/analog"
	"periph.io/x/periph/experimental/devices/ads1x15"
)

// RealReader reads the load-sense voltage from an ADS1015 on the I2C bus.
type RealReader struct {
	pin analog.PinADC
}

// NewRealReader opens channel on an ADS1015 at its default address. The
// caller owns the bus (host init and bus close happen in cmd).
func NewRealReader(bus i2c.Bus, channel int) (*RealReader, error) {
	dev, err := ads1x15.NewADS1015(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("open ads1015: %w", err)
	}

	ch, err := adsChannel(channel)
	if err != nil {
		return nil, err
	}

	// 5 V range covers the divided load voltage (max ~3.8 V at the
	// 11.90 V threshold); single-shot reads at the control-loop rate.
	pin, err := dev.PinForChannel(ch, 5*physic.Volt, 2*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("configure ads1015 channel %d: %w", channel, err)
	}

	return &RealReader{pin: pin}, nil
}

// ReadVoltage returns the voltage at the ADC pin in volts.
func (r *RealReader) ReadVoltage() (float64, error) {
	sample, err := r.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("read ads1015: %w", err)
	}
	return float64(sample.V) / float64(physic.Volt), nil
}

// Close halts the ADC pin.
func (r *RealReader) Close() error {
	if err := r.pin.Halt(); err != nil {
		return fmt.Errorf("halt ads1015 pin: %w", err)
	}
	return nil
}

func adsChannel(channel int) (ads1x15.Channel, error) {
	switch channel {
	case 0:
		return ads1x15.Channel0, nil
	case 1:
		return ads1x15.Channel1, nil
	case 2:
		return ads1x15.Channel2, nil
	case 3:
		return ads1x15.Channel3, nil
	default:
		return 0, fmt.Errorf("ads1015 has no channel %d", channel)
	}
}
