package control

// microsPerMinute converts a pulse interval in microseconds to RPM for a
// one-pulse-per-revolution sensor.
const microsPerMinute = 60_000_000.0

// Estimator converts captured pulse intervals into a smoothed RPM.
// Implausible readings (edge bounce, sensor dropout) are rejected before
// they reach the sample buffer. The buffer starts zero-filled, so the
// smoothed value is biased low until NumSamples readings have been
// accepted; that startup transient is deliberate.
type Estimator struct {
	minValid float64
	maxValid float64

	samples  []float64
	cursor   int
	accepted int
	rejected int
}

// NewEstimator creates an estimator sized and bounded by cfg.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{
		minValid: cfg.MinValidRPM,
		maxValid: cfg.MaxValidRPM,
		samples:  make([]float64, cfg.NumSamples),
	}
}

// Ingest processes one captured pulse interval in microseconds and returns
// the instantaneous RPM plus whether it was accepted into the buffer.
// An interval of zero means no new pulse and returns (0, false) without
// counting as a rejection; the smoothed value is simply left unchanged.
func (e *Estimator) Ingest(intervalMicros int64) (float64, bool) {
	if intervalMicros <= 0 {
		return 0, false
	}

	rpm := microsPerMinute / float64(intervalMicros)

	// Strict bounds: readings at exactly the limits are rejected too.
	if rpm <= e.minValid || rpm >= e.maxValid {
		e.rejected++
		return rpm, false
	}

	e.samples[e.cursor] = rpm
	e.cursor = (e.cursor + 1) % len(e.samples)
	e.accepted++
	return rpm, true
}

// Smoothed returns the arithmetic mean over all buffer slots.
func (e *Estimator) Smoothed() float64 {
	var sum float64
	for _, s := range e.samples {
		sum += s
	}
	return sum / float64(len(e.samples))
}

// Counts returns accepted and rejected sample totals since startup.
func (e *Estimator) Counts() (accepted, rejected int) {
	return e.accepted, e.rejected
}
