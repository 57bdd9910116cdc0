// Package control contains pure decision logic for the turbine pitch
// controller. This package has NO external dependencies (no GPIO, serial,
// OS, or time.Sleep). Time is always injectable via time.Time parameters.
package control

import "time"

// Branch identifies which optimizer decision branch produced a move.
type Branch int

const (
	// BranchNone means the optimizer did not run this tick.
	BranchNone Branch = iota

	// BranchOverspeed means shaft RPM exceeded the maximum and the
	// actuator was stepped toward increased pitch unconditionally.
	BranchOverspeed

	// BranchImproving means RPM rose since the last decision and the
	// actuator continued in its recorded direction.
	BranchImproving

	// BranchReversed means RPM did not rise and the search direction
	// was flipped.
	BranchReversed
)

func (b Branch) String() string {
	switch b {
	case BranchNone:
		return "none"
	case BranchOverspeed:
		return "overspeed"
	case BranchImproving:
		return "improving"
	case BranchReversed:
		return "reversed"
	default:
		return "unknown"
	}
}

// TripState is the interlock state machine. A trip fires exactly once per
// rising edge of the interlock condition; while the condition persists the
// state is held at TripApplied and the optimizer stays preempted.
type TripState int

const (
	// TripIdle means no interlock condition is present.
	TripIdle TripState = iota

	// TripTripped means the condition rose this evaluation and the brake
	// command must be applied.
	TripTripped

	// TripApplied means the brake has been commanded and the condition
	// is still present.
	TripApplied
)

func (s TripState) String() string {
	switch s {
	case TripIdle:
		return "idle"
	case TripTripped:
		return "tripped"
	case TripApplied:
		return "applied"
	default:
		return "unknown"
	}
}

// Input is one control-loop sample handed to the controller.
type Input struct {
	// IntervalMicros is the most recent captured pulse interval in
	// microseconds. Zero means no new pulse since the last tick.
	IntervalMicros int64

	// EstopAsserted is true when the emergency-stop button is pressed.
	EstopAsserted bool

	// MeasuredVolts is the raw voltage at the load-sense ADC pin, before
	// the divider ratio is undone. Only meaningful when LoadValid.
	MeasuredVolts float64

	// LoadValid is false when the ADC read failed this tick; load-loss
	// detection is skipped rather than tripping on bad data.
	LoadValid bool

	Time time.Time
}

// Command is an actuator move decided by a tick.
type Command struct {
	// Position is the committed actuator position, already clamped to
	// the mechanical range (brake commands use the brake position).
	Position int

	// Brake is true for an interlock retraction, false for an
	// optimizer move.
	Brake bool

	// Branch is the optimizer branch taken (BranchNone for brakes).
	Branch Branch
}

// Output is everything a tick decided, for the caller to act on and log.
type Output struct {
	// Command is nil when no actuator move was decided this tick.
	Command *Command

	// InstantRPM is the RPM computed from this tick's interval, zero
	// when there was no new pulse.
	InstantRPM float64

	// SampleRejected is true when InstantRPM fell outside the plausible
	// range and was dropped.
	SampleRejected bool

	// SmoothedRPM is the moving average over the sample buffer.
	SmoothedRPM float64

	// LoadVolts is the load voltage after undoing the divider ratio.
	LoadVolts float64

	// LoadConnected reports whether the load appears connected.
	LoadConnected bool

	// Trip is the interlock state after this tick's evaluation.
	Trip TripState
}

// Counts tracks controller activity since startup, for heartbeats and
// status reporting.
type Counts struct {
	SamplesAccepted int
	SamplesRejected int
	Trips           int
	BrakeCommands   int
	OverspeedMoves  int
	ImprovingMoves  int
	ReversedMoves   int
}
