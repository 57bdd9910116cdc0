//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/turbine-pitch/internal/pulse"
)

// RealInputs is not available on non-Linux platforms.
type RealInputs struct{}

// NewRealInputs returns an error on non-Linux platforms.
func NewRealInputs(chipName string, pinPulse, pinEstop int, capture *pulse.Capture) (*RealInputs, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// EstopAsserted is not implemented on non-Linux platforms.
func (r *RealInputs) EstopAsserted() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealInputs) Close() error {
	return nil
}
