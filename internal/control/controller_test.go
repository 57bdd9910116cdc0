package control

import (
	"testing"
	"time"
)

// healthyInput is a tick with a fresh 1000 RPM pulse and a connected load.
func healthyInput(at time.Time) Input {
	return Input{
		IntervalMicros: 60000,
		MeasuredVolts:  connectedVolts,
		LoadValid:      true,
		Time:           at,
	}
}

func TestControllerNormalTickCommandsOptimizerMove(t *testing.T) {
	c := New(Default())
	out := c.Tick(healthyInput(t0))

	if out.Trip != TripIdle {
		t.Fatalf("trip state: got %v, want idle", out.Trip)
	}
	if out.Command == nil {
		t.Fatal("expected an optimizer command on the first tick")
	}
	if out.Command.Brake {
		t.Error("healthy tick produced a brake command")
	}
	if out.InstantRPM != 1000 {
		t.Errorf("instant RPM: got %g, want 1000", out.InstantRPM)
	}
	if out.SmoothedRPM != 100 {
		t.Errorf("smoothed RPM: got %g, want 100 (1 of 10 slots filled)", out.SmoothedRPM)
	}
	if p := out.Command.Position; p < 47 || p > 71 {
		t.Errorf("position %d outside [47, 71]", p)
	}
}

func TestControllerUpdateGateSuppressesCommand(t *testing.T) {
	c := New(Default())
	c.Tick(healthyInput(t0))

	// 50 ms later the optimizer gate is still closed: no command, but
	// the sample is still ingested.
	out := c.Tick(healthyInput(t0.Add(50 * time.Millisecond)))
	if out.Command != nil {
		t.Error("command issued inside the update interval")
	}
	if accepted, _ := c.est.Counts(); accepted != 2 {
		t.Errorf("accepted samples: got %d, want 2", accepted)
	}
}

func TestControllerEstopBrakeIsOneShot(t *testing.T) {
	c := New(Default())
	in := healthyInput(t0)
	in.EstopAsserted = true

	out := c.Tick(in)
	if out.Command == nil || !out.Command.Brake {
		t.Fatal("expected a brake command on the trip tick")
	}
	if out.Command.Position != 70 {
		t.Errorf("brake position: got %d, want 70", out.Command.Position)
	}
	if c.Position() != 70 {
		t.Errorf("tracked position after brake: got %d, want 70", c.Position())
	}

	// Button still held: the brake is not re-issued and the optimizer
	// stays preempted.
	for i := 1; i <= 3; i++ {
		in.Time = t0.Add(time.Duration(i) * 200 * time.Millisecond)
		out = c.Tick(in)
		if out.Command != nil {
			t.Fatalf("tick %d: command issued while interlock held", i)
		}
		if out.Trip != TripApplied {
			t.Fatalf("tick %d: trip state %v, want applied", i, out.Trip)
		}
	}

	counts := c.Counts()
	if counts.Trips != 1 || counts.BrakeCommands != 1 {
		t.Errorf("counts: trips=%d brakes=%d, want 1 and 1", counts.Trips, counts.BrakeCommands)
	}
}

func TestControllerResumesAfterInterlockClears(t *testing.T) {
	c := New(Default())
	in := healthyInput(t0)
	in.EstopAsserted = true
	c.Tick(in)

	// Released: the optimizer resumes from the brake angle.
	in.EstopAsserted = false
	in.Time = t0.Add(time.Second)
	out := c.Tick(in)
	if out.Trip != TripIdle {
		t.Fatalf("trip state after release: got %v, want idle", out.Trip)
	}
	if out.Command == nil {
		t.Fatal("optimizer did not resume after release")
	}
	if out.Command.Brake {
		t.Error("resume tick issued a brake command")
	}
	if d := out.Command.Position - 70; d < -1 || d > 1 {
		t.Errorf("resume position %d not adjacent to brake angle 70", out.Command.Position)
	}
}

func TestControllerLoadLossBrake(t *testing.T) {
	c := New(Default())
	in := healthyInput(t0)
	in.MeasuredVolts = disconnectedVolts

	out := c.Tick(in)
	if out.LoadConnected {
		t.Fatal("load should read disconnected")
	}
	if out.Command == nil || !out.Command.Brake {
		t.Fatal("load loss did not command the brake")
	}
}

func TestControllerRejectedSampleReported(t *testing.T) {
	c := New(Default())
	in := healthyInput(t0)
	in.IntervalMicros = 5000 // 12000 RPM, implausible

	out := c.Tick(in)
	if !out.SampleRejected {
		t.Error("implausible sample not flagged as rejected")
	}
	if out.SmoothedRPM != 0 {
		t.Errorf("rejected sample reached the buffer: smoothed=%g", out.SmoothedRPM)
	}
}

func TestControllerSensorSilence(t *testing.T) {
	c := New(Default())
	c.Tick(healthyInput(t0))
	smoothed := c.est.Smoothed()

	in := healthyInput(t0.Add(time.Second))
	in.IntervalMicros = 0
	out := c.Tick(in)
	if out.SampleRejected {
		t.Error("sensor silence flagged as a rejection")
	}
	if out.SmoothedRPM != smoothed {
		t.Errorf("smoothed RPM changed on sensor silence: %g -> %g", smoothed, out.SmoothedRPM)
	}
	// The optimizer still runs on stale data.
	if out.Command == nil {
		t.Error("optimizer skipped on sensor silence")
	}
}

func TestControllerOverspeedScenario(t *testing.T) {
	// Drive smoothed RPM above 1750 with steady 2000 RPM pulses and a
	// tick cadence that keeps the update gate open.
	c := New(Default())

	var sawOverspeed bool
	for i := 0; i < 20; i++ {
		in := healthyInput(t0.Add(time.Duration(i) * 500 * time.Millisecond))
		in.IntervalMicros = 30000 // 2000 RPM
		out := c.Tick(in)

		if out.SmoothedRPM <= 1750 {
			if out.Command != nil && out.Command.Branch == BranchOverspeed {
				t.Fatalf("tick %d: overspeed branch at smoothed %g", i, out.SmoothedRPM)
			}
			continue
		}
		if out.Command == nil {
			t.Fatalf("tick %d: no command while overspeeding", i)
		}
		if out.Command.Branch != BranchOverspeed {
			t.Fatalf("tick %d: branch %v at smoothed %g, want overspeed", i, out.Command.Branch, out.SmoothedRPM)
		}
		sawOverspeed = true
	}
	if !sawOverspeed {
		t.Fatal("smoothed RPM never exceeded the overspeed limit")
	}
	if c.Counts().OverspeedMoves == 0 {
		t.Error("overspeed moves not counted")
	}
}
