package control

import "time"

// Optimizer is the hill-climbing pitch controller. Once per update
// interval it compares the smoothed RPM against the previous decision's
// value: above the overspeed limit it always steps toward increased pitch,
// on improvement it continues in the recorded direction, otherwise it
// reverses. It is a noise-tolerant local search and is expected to
// oscillate ±1 step around the optimum in steady state.
type Optimizer struct {
	min            int
	max            int
	step           int
	maxShaftRPM    float64
	updateInterval time.Duration

	position int
	movingUp bool
	lastRPM  float64
	lastTick time.Time
}

// NewOptimizer creates an optimizer at cfg's initial position, searching
// upward first.
func NewOptimizer(cfg Config) *Optimizer {
	return &Optimizer{
		min:            cfg.ActuatorMin,
		max:            cfg.ActuatorMax,
		step:           cfg.StepSize,
		maxShaftRPM:    cfg.MaxShaftRPM,
		updateInterval: cfg.UpdateInterval,
		position:       cfg.InitialPosition,
		movingUp:       true,
	}
}

// Step runs one decision if the update interval has elapsed. It returns
// the committed command and true, or a zero Command and false when the
// gate has not opened yet.
func (o *Optimizer) Step(smoothedRPM float64, now time.Time) (Command, bool) {
	if !o.lastTick.IsZero() && now.Sub(o.lastTick) <= o.updateInterval {
		return Command{}, false
	}

	var branch Branch
	next := o.position
	switch {
	case smoothedRPM > o.maxShaftRPM:
		// Absolute safety bias: feather regardless of direction.
		branch = BranchOverspeed
		next += o.step
	case smoothedRPM > o.lastRPM:
		branch = BranchImproving
		if o.movingUp {
			next += o.step
		} else {
			next -= o.step
		}
	default:
		branch = BranchReversed
		o.movingUp = !o.movingUp
		if o.movingUp {
			next += o.step
		} else {
			next -= o.step
		}
	}

	if next < o.min {
		next = o.min
	}
	if next > o.max {
		next = o.max
	}

	o.position = next
	o.lastRPM = smoothedRPM
	o.lastTick = now
	return Command{Position: next, Branch: branch}, true
}

// Position returns the last committed actuator position.
func (o *Optimizer) Position() int {
	return o.position
}

// ForcePosition overrides the tracked position after an interlock brake
// so the search resumes from where the actuator actually is. Position
// tracking is open loop; this is the only external write.
func (o *Optimizer) ForcePosition(position int) {
	o.position = position
}
