package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	SmoothedRPM   float64    `json:"smoothed_rpm"`
	Position      int        `json:"position"`
	LoadVolts     float64    `json:"load_volts"`
	LoadConnected bool       `json:"load_connected"`
	Estop         bool       `json:"estop"`
	Trip          string     `json:"trip"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of controller activity counts.
type CountsJSON struct {
	SamplesAccepted int `json:"samples_accepted"`
	SamplesRejected int `json:"samples_rejected"`
	Trips           int `json:"trips"`
	BrakeCommands   int `json:"brake_commands"`
	OverspeedMoves  int `json:"overspeed_moves"`
	ImprovingMoves  int `json:"improving_moves"`
	ReversedMoves   int `json:"reversed_moves"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Mode            string  `json:"mode"`
	ActuatorBackend string  `json:"actuator_backend"`
	PollMs          int64   `json:"poll_ms"`
	UpdateMs        int64   `json:"update_ms"`
	HeartbeatMs     int64   `json:"heartbeat_ms"`
	LoadThreshold   float64 `json:"load_threshold_volts"`
	MaxShaftRPM     float64 `json:"max_shaft_rpm"`
	ActuatorMin     int     `json:"actuator_min"`
	ActuatorMax     int     `json:"actuator_max"`
	BrakePosition   int     `json:"brake_position"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		SmoothedRPM:   snap.SmoothedRPM,
		Position:      snap.Position,
		LoadVolts:     snap.LoadVolts,
		LoadConnected: snap.LoadConnected,
		Estop:         snap.EstopAsserted,
		Trip:          snap.Trip.String(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			SamplesAccepted: snap.Counts.SamplesAccepted,
			SamplesRejected: snap.Counts.SamplesRejected,
			Trips:           snap.Counts.Trips,
			BrakeCommands:   snap.Counts.BrakeCommands,
			OverspeedMoves:  snap.Counts.OverspeedMoves,
			ImprovingMoves:  snap.Counts.ImprovingMoves,
			ReversedMoves:   snap.Counts.ReversedMoves,
		},
		Config: ConfigJSON{
			Mode:            snap.Config.Mode,
			ActuatorBackend: snap.Config.ActuatorBackend,
			PollMs:          snap.Config.PollMs,
			UpdateMs:        snap.Config.UpdateMs,
			HeartbeatMs:     snap.Config.HeartbeatMs,
			LoadThreshold:   snap.Config.LoadThreshold,
			MaxShaftRPM:     snap.Config.MaxShaftRPM,
			ActuatorMin:     snap.Config.ActuatorMin,
			ActuatorMax:     snap.Config.ActuatorMax,
			BrakePosition:   snap.Config.BrakePosition,
		},
	}
}

// FormatJSON returns the JSON status for the co-sim STATUS query
// (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.Marshal(StatusJSON{Status: buildInner(snap)})
	return data
}

// FormatStatusEvent returns the JSON status for a system event line
// (STARTUP, HEARTBEAT, SHUTDOWN).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
