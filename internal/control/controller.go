package control

// Controller sequences one control tick: ingest the captured interval,
// evaluate the safety interlock, then either issue the brake command or
// run the optimizer. The interlock always preempts the optimizer.
type Controller struct {
	cfg Config
	est *Estimator
	mon *Monitor
	opt *Optimizer

	brakes int
	moves  Counts
}

// New creates a controller from a validated config.
func New(cfg Config) *Controller {
	return &Controller{
		cfg: cfg,
		est: NewEstimator(cfg),
		mon: NewMonitor(cfg),
		opt: NewOptimizer(cfg),
	}
}

// Tick runs one control iteration. It never fails: bad samples are
// dropped, hardware read failures arrive pre-flagged in the input, and
// out-of-range positions are clamped by the optimizer.
func (c *Controller) Tick(in Input) Output {
	var out Output

	rpm, accepted := c.est.Ingest(in.IntervalMicros)
	out.InstantRPM = rpm
	out.SampleRejected = rpm != 0 && !accepted
	out.SmoothedRPM = c.est.Smoothed()

	a := c.mon.Evaluate(in.EstopAsserted, in.MeasuredVolts, in.LoadValid)
	out.LoadVolts = a.LoadVolts
	out.LoadConnected = a.LoadConnected

	if a.State == TripTripped {
		// One-shot retraction. The optimizer's open-loop position
		// must follow the override so the search resumes from the
		// brake angle once the condition clears.
		c.opt.ForcePosition(c.cfg.BrakePosition)
		c.mon.Applied()
		c.brakes++
		out.Trip = c.mon.State()
		out.Command = &Command{Position: c.cfg.BrakePosition, Brake: true}
		return out
	}
	out.Trip = a.State
	if a.State != TripIdle {
		return out
	}

	cmd, ok := c.opt.Step(out.SmoothedRPM, in.Time)
	if !ok {
		return out
	}
	switch cmd.Branch {
	case BranchOverspeed:
		c.moves.OverspeedMoves++
	case BranchImproving:
		c.moves.ImprovingMoves++
	case BranchReversed:
		c.moves.ReversedMoves++
	}
	out.Command = &cmd
	return out
}

// Position returns the last committed actuator position.
func (c *Controller) Position() int {
	return c.opt.Position()
}

// Counts returns activity totals since startup.
func (c *Controller) Counts() Counts {
	accepted, rejected := c.est.Counts()
	return Counts{
		SamplesAccepted: accepted,
		SamplesRejected: rejected,
		Trips:           c.mon.Trips(),
		BrakeCommands:   c.brakes,
		OverspeedMoves:  c.moves.OverspeedMoves,
		ImprovingMoves:  c.moves.ImprovingMoves,
		ReversedMoves:   c.moves.ReversedMoves,
	}
}
