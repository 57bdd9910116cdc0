package control

import (
	"math"
	"testing"
)

// connectedVolts is a measured voltage well below the threshold after the
// divider is undone (3.0 / 0.3125 = 9.6 V load).
const connectedVolts = 3.0

// disconnectedVolts undoes to 12.8 V, above the 11.90 V threshold.
const disconnectedVolts = 4.0

func TestMonitorIdleWhileHealthy(t *testing.T) {
	m := NewMonitor(Default())

	for i := 0; i < 5; i++ {
		a := m.Evaluate(false, connectedVolts, true)
		if a.State != TripIdle {
			t.Fatalf("tick %d: got state %v, want idle", i, a.State)
		}
		if !a.LoadConnected {
			t.Fatalf("tick %d: load should be connected", i)
		}
	}
	if m.Trips() != 0 {
		t.Errorf("trips: got %d, want 0", m.Trips())
	}
}

func TestMonitorDividerRatio(t *testing.T) {
	m := NewMonitor(Default())
	a := m.Evaluate(false, 3.125, true)
	if math.Abs(a.LoadVolts-10.0) > 1e-9 {
		t.Errorf("load volts: got %g, want 10.0", a.LoadVolts)
	}
}

func TestMonitorEstopTripsOncePerEdge(t *testing.T) {
	m := NewMonitor(Default())

	a := m.Evaluate(true, connectedVolts, true)
	if a.State != TripTripped {
		t.Fatalf("rising edge: got %v, want tripped", a.State)
	}
	m.Applied()

	// Button still held: no re-trigger.
	for i := 0; i < 3; i++ {
		a = m.Evaluate(true, connectedVolts, true)
		if a.State != TripApplied {
			t.Fatalf("held tick %d: got %v, want applied", i, a.State)
		}
	}
	if m.Trips() != 1 {
		t.Fatalf("trips while held: got %d, want 1", m.Trips())
	}

	// Released: back to idle.
	a = m.Evaluate(false, connectedVolts, true)
	if a.State != TripIdle {
		t.Fatalf("after release: got %v, want idle", a.State)
	}

	// Second press is a second trip.
	a = m.Evaluate(true, connectedVolts, true)
	if a.State != TripTripped {
		t.Fatalf("second edge: got %v, want tripped", a.State)
	}
	if m.Trips() != 2 {
		t.Errorf("trips: got %d, want 2", m.Trips())
	}
}

func TestMonitorLoadLossTrips(t *testing.T) {
	m := NewMonitor(Default())

	a := m.Evaluate(false, disconnectedVolts, true)
	if a.LoadConnected {
		t.Fatal("load should read disconnected")
	}
	if a.State != TripTripped {
		t.Fatalf("load loss: got %v, want tripped", a.State)
	}
}

func TestMonitorLoadLossDisabled(t *testing.T) {
	cfg := Default()
	cfg.RPMEstopEnabled = false
	m := NewMonitor(cfg)

	a := m.Evaluate(false, disconnectedVolts, true)
	if a.LoadConnected {
		t.Fatal("load should still read disconnected")
	}
	if a.State != TripIdle {
		t.Fatalf("disabled load-loss detection tripped: %v", a.State)
	}

	// The estop button must still work.
	a = m.Evaluate(true, disconnectedVolts, true)
	if a.State != TripTripped {
		t.Fatalf("estop with detection disabled: got %v, want tripped", a.State)
	}
}

func TestMonitorInvalidADCReadNeverTrips(t *testing.T) {
	m := NewMonitor(Default())

	// A garbage voltage with loadValid=false must not trip.
	a := m.Evaluate(false, 99.0, false)
	if a.State != TripIdle {
		t.Fatalf("invalid ADC read tripped the interlock: %v", a.State)
	}
	if !a.LoadConnected {
		t.Error("invalid read should leave load considered connected")
	}
}

func TestMonitorUnacknowledgedTripPersists(t *testing.T) {
	m := NewMonitor(Default())

	m.Evaluate(true, connectedVolts, true)
	// Applied() never called; the pending brake must not be lost.
	a := m.Evaluate(true, connectedVolts, true)
	if a.State != TripTripped {
		t.Fatalf("unacknowledged trip: got %v, want tripped", a.State)
	}
	if m.Trips() != 1 {
		t.Errorf("trips: got %d, want 1", m.Trips())
	}
}

func TestMonitorThresholdBoundary(t *testing.T) {
	// Exactly representable values so the strict comparison is exact:
	// 3.0 / 0.25 = 12.0, right at the threshold.
	cfg := Default()
	cfg.LoadThreshold = 12.0
	cfg.DividerRatio = 0.25

	m := NewMonitor(cfg)
	a := m.Evaluate(false, 3.0, true)
	if a.LoadConnected {
		t.Error("load voltage at threshold should read disconnected")
	}

	m2 := NewMonitor(cfg)
	a = m2.Evaluate(false, 2.9375, true) // 11.75 V load
	if !a.LoadConnected {
		t.Error("load voltage just under threshold should read connected")
	}
}
