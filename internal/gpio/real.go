//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/turbine-pitch/internal/pulse"
)

// RealInputs reads the turbine inputs from actual hardware using the
// Linux GPIO character device.
type RealInputs struct {
	chip      *gpiocdev.Chip
	pulseLine *gpiocdev.Line
	estopLine *gpiocdev.Line
}

// NewRealInputs opens the chip, requests the pulse line for rising-edge
// events and the estop line for level reads. Each edge event forwards its
// kernel monotonic timestamp to capture; the handler does nothing else so it
// stays short.
func NewRealInputs(chipName string, pinPulse, pinEstop int, capture *pulse.Capture) (*RealInputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	pulseLine, err := chip.RequestLine(pinPulse,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			capture.Edge(evt.Timestamp)
		}))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pulse pin %d: %w", pinPulse, err)
	}

	estopLine, err := chip.RequestLine(pinEstop, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		pulseLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request estop pin %d: %w", pinEstop, err)
	}

	return &RealInputs{
		chip:      chip,
		pulseLine: pulseLine,
		estopLine: estopLine,
	}, nil
}

// EstopAsserted reads the emergency-stop line. The line is pulled up and
// the physical button pulls it low: raw 0 means asserted.
func (r *RealInputs) EstopAsserted() (bool, error) {
	v, err := r.estopLine.Value()
	if err != nil {
		return false, fmt.Errorf("read estop pin: %w", err)
	}
	return v == 0, nil
}

// Close releases GPIO resources. Closing the pulse line also stops the
// edge event handler.
func (r *RealInputs) Close() error {
	var errs []error

	if r.pulseLine != nil {
		if err := r.pulseLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pulse pin: %w", err))
		}
	}
	if r.estopLine != nil {
		if err := r.estopLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close estop pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
