package control

import (
	"fmt"
	"time"
)

// Config holds every tunable of the controller in one place so hardware
// recalibration never touches decision logic. Units are documented per
// field. Actuator positions are in hobby-servo degrees (the same scale an
// actuator drive converts to pulse width).
type Config struct {
	// LoadThreshold is the load voltage (volts, after undoing the
	// divider) above which the load is considered disconnected.
	LoadThreshold float64

	// DividerRatio is Vmeasured/Vload for the load-sense divider
	// (10k/(22k+10k) = 0.3125 on the reference board).
	DividerRatio float64

	// RPMEstopEnabled gates load-loss detection. Estop button trips are
	// always honored; this only controls the disconnection half of the
	// interlock, so it can be disabled pending hardware validation.
	RPMEstopEnabled bool

	// ActuatorMin and ActuatorMax bound normal optimizer travel
	// (position units / degrees).
	ActuatorMin int
	ActuatorMax int

	// BrakePosition is the hard retraction angle commanded on an
	// interlock trip (position units). May differ from ActuatorMax.
	BrakePosition int

	// InitialPosition is the actuator position assumed at startup
	// (position units). Position tracking is open loop.
	InitialPosition int

	// StepSize is the optimizer move per decision (position units).
	// It bounds actuator slew to StepSize per UpdateInterval.
	StepSize int

	// MaxShaftRPM is the overspeed limit (RPM, strict: a smoothed value
	// of exactly MaxShaftRPM does not trigger the overspeed branch).
	MaxShaftRPM float64

	// MinValidRPM and MaxValidRPM bound plausible instantaneous
	// readings (RPM, both strict). Readings outside are edge bounce or
	// sensor dropout and never enter the sample buffer.
	MinValidRPM float64
	MaxValidRPM float64

	// NumSamples is the size of the smoothing ring buffer.
	NumSamples int

	// UpdateInterval is the minimum time between optimizer decisions.
	UpdateInterval time.Duration

	// PollInterval is the main-loop cadence. Several pulses may arrive
	// between polls; only the latest interval is consumed.
	PollInterval time.Duration

	// HeartbeatInterval is the cadence of status heartbeat log lines
	// (0 disables them).
	HeartbeatInterval time.Duration
}

// Default returns the reference hardware configuration.
func Default() Config {
	return Config{
		LoadThreshold:     11.90,
		DividerRatio:      0.3125,
		RPMEstopEnabled:   true,
		ActuatorMin:       47,
		ActuatorMax:       71,
		BrakePosition:     70,
		InitialPosition:   47,
		StepSize:          1,
		MaxShaftRPM:       1750,
		MinValidRPM:       0,
		MaxValidRPM:       5000,
		NumSamples:        10,
		UpdateInterval:    100 * time.Millisecond,
		PollInterval:      500 * time.Millisecond,
		HeartbeatInterval: 15 * time.Minute,
	}
}

// Validate rejects configurations the controller cannot run with.
func (c Config) Validate() error {
	if c.ActuatorMin >= c.ActuatorMax {
		return fmt.Errorf("actuator range [%d, %d] is inverted or empty", c.ActuatorMin, c.ActuatorMax)
	}
	if c.BrakePosition < c.ActuatorMin || c.BrakePosition > c.ActuatorMax {
		return fmt.Errorf("brake position %d outside actuator range [%d, %d]", c.BrakePosition, c.ActuatorMin, c.ActuatorMax)
	}
	if c.InitialPosition < c.ActuatorMin || c.InitialPosition > c.ActuatorMax {
		return fmt.Errorf("initial position %d outside actuator range [%d, %d]", c.InitialPosition, c.ActuatorMin, c.ActuatorMax)
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("step size must be positive, got %d", c.StepSize)
	}
	if c.MinValidRPM >= c.MaxValidRPM {
		return fmt.Errorf("valid RPM range [%g, %g] is inverted or empty", c.MinValidRPM, c.MaxValidRPM)
	}
	if c.MaxShaftRPM <= 0 {
		return fmt.Errorf("max shaft RPM must be positive, got %g", c.MaxShaftRPM)
	}
	if c.NumSamples <= 0 {
		return fmt.Errorf("sample count must be positive, got %d", c.NumSamples)
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update interval must be positive, got %v", c.UpdateInterval)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.DividerRatio <= 0 || c.DividerRatio > 1 {
		return fmt.Errorf("divider ratio must be in (0, 1], got %g", c.DividerRatio)
	}
	if c.LoadThreshold <= 0 {
		return fmt.Errorf("load threshold must be positive, got %g", c.LoadThreshold)
	}
	return nil
}
