package actuator

import "sync"

// Fake is a test double that records every commanded position.
type Fake struct {
	mu sync.Mutex

	// Positions holds every committed command in order.
	Positions []int

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by SetPosition()
	SetError error
}

// NewFake creates an empty recording drive.
func NewFake() *Fake {
	return &Fake{}
}

// SetPosition records the command.
func (f *Fake) SetPosition(position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	if err := checkPosition(position); err != nil {
		return err
	}
	f.Positions = append(f.Positions, position)
	return nil
}

// Last returns the most recent commanded position, or fallback when no
// command has been recorded yet.
func (f *Fake) Last(fallback int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Positions) == 0 {
		return fallback
	}
	return f.Positions[len(f.Positions)-1]
}

// Commands returns a copy of all recorded positions.
func (f *Fake) Commands() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.Positions))
	copy(out, f.Positions)
	return out
}

// Close marks the drive as closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
