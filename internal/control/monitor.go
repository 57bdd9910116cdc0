package control

// Monitor evaluates the safety interlock each tick: the emergency-stop
// input and, when enabled, load-loss detection from the load-sense
// voltage. Trips are edge triggered: TripTripped is reported exactly once
// per rising edge of the combined condition, then the state is held at
// TripApplied until the condition clears.
type Monitor struct {
	loadThreshold   float64
	dividerRatio    float64
	rpmEstopEnabled bool

	state TripState
	trips int
}

// Assessment is the result of one interlock evaluation.
type Assessment struct {
	State TripState

	// LoadVolts is MeasuredVolts with the divider ratio undone.
	LoadVolts float64

	// LoadConnected is true when the load voltage is below the
	// threshold. Only meaningful when the ADC read was valid.
	LoadConnected bool
}

// NewMonitor creates a monitor with cfg's thresholds.
func NewMonitor(cfg Config) *Monitor {
	return &Monitor{
		loadThreshold:   cfg.LoadThreshold,
		dividerRatio:    cfg.DividerRatio,
		rpmEstopEnabled: cfg.RPMEstopEnabled,
	}
}

// Evaluate advances the interlock state machine with this tick's inputs.
// A failed ADC read (loadValid false) never trips the load half; the
// monitor degrades to estop-only for that tick.
func (m *Monitor) Evaluate(estopAsserted bool, measuredVolts float64, loadValid bool) Assessment {
	a := Assessment{
		LoadVolts:     measuredVolts / m.dividerRatio,
		LoadConnected: true,
	}
	if loadValid {
		a.LoadConnected = a.LoadVolts < m.loadThreshold
	}

	condition := estopAsserted
	if m.rpmEstopEnabled && loadValid && !a.LoadConnected {
		condition = true
	}

	switch m.state {
	case TripIdle:
		if condition {
			m.state = TripTripped
			m.trips++
		}
	case TripApplied:
		if !condition {
			m.state = TripIdle
		}
	case TripTripped:
		// Brake not yet acknowledged; stay tripped so the command
		// is not lost even if Applied was skipped.
	}

	a.State = m.state
	return a
}

// Applied acknowledges that the brake command for the current trip has
// been issued. The state holds at TripApplied until the condition clears.
func (m *Monitor) Applied() {
	if m.state == TripTripped {
		m.state = TripApplied
	}
}

// State returns the current interlock state.
func (m *Monitor) State() TripState {
	return m.state
}

// Trips returns the number of interlock trips since startup.
func (m *Monitor) Trips() int {
	return m.trips
}
