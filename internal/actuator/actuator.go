// Package actuator drives the blade pitch actuator with hardware
// abstraction. Positions are in hobby-servo degrees (the controller's
// 47-71 operating range); each backend converts degrees to its pulse
// width. Position tracking is open loop; nothing is read back.
package actuator

import "fmt"

// Drive accepts bounded position commands.
type Drive interface {
	// SetPosition moves the actuator to the given position (degrees on
	// the hobby-servo scale). Callers pass pre-clamped values; a drive
	// rejects anything outside the physical 0-180 span.
	SetPosition(position int) error

	// Close releases the output, leaving the actuator at its last
	// commanded position.
	Close() error
}

// servoSweep is the full travel of the hobby-servo scale in degrees.
const servoSweep = 180

func checkPosition(position int) error {
	if position < 0 || position > servoSweep {
		return fmt.Errorf("position %d outside servo span [0, %d]", position, servoSweep)
	}
	return nil
}
