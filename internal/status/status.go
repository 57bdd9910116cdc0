// Package status provides a thread-safe status tracker for the pitch
// controller daemon. It feeds heartbeat log lines and the co-sim STATUS
// query.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/turbine-pitch/internal/control"
)

// Config contains daemon configuration for display.
type Config struct {
	Mode            string // "hw", "fake", or "cosim"
	ActuatorBackend string
	PollMs          int64
	UpdateMs        int64
	HeartbeatMs     int64
	LoadThreshold   float64 // volts
	MaxShaftRPM     float64
	ActuatorMin     int
	ActuatorMax     int
	BrakePosition   int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	SmoothedRPM   float64
	Position      int
	LoadVolts     float64
	LoadConnected bool
	EstopAsserted bool
	Trip          control.TripState
	Counts        control.Counts
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the control-loop state. Called from runLoop on every tick.
func (t *Tracker) Update(smoothedRPM float64, position int, loadVolts float64, loadConnected, estop bool, trip control.TripState, counts control.Counts) {
	t.mu.Lock()
	t.snap.SmoothedRPM = smoothedRPM
	t.snap.Position = position
	t.snap.LoadVolts = loadVolts
	t.snap.LoadConnected = loadConnected
	t.snap.EstopAsserted = estop
	t.snap.Trip = trip
	t.snap.Counts = counts
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
