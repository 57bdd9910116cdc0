package actuator

import "log"

// LogDrive is a bench backend that only logs commands. Used when the
// controller runs without an actuator attached (simulation, co-sim, or
// dry runs on real sensors).
type LogDrive struct{}

// SetPosition logs the command.
func (LogDrive) SetPosition(position int) error {
	if err := checkPosition(position); err != nil {
		return err
	}
	log.Printf("actuator: position %d", position)
	return nil
}

// Close is a no-op.
func (LogDrive) Close() error {
	return nil
}
