package gpio

import "errors"

// FakeInputs is a test double that returns scripted estop readings.
type FakeInputs struct {
	// Samples contains scripted estop states to return.
	// Each call to EstopAsserted() consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by EstopAsserted()
	ReadError error
}

// NewFakeInputs creates a FakeInputs with the given scripted estop states.
func NewFakeInputs(samples []bool) *FakeInputs {
	return &FakeInputs{Samples: samples}
}

// EstopAsserted returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeInputs) EstopAsserted() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the inputs as closed.
func (f *FakeInputs) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the inputs to the beginning of samples.
func (f *FakeInputs) Reset() {
	f.index = 0
	f.Closed = false
}
