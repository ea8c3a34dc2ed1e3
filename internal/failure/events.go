// Package failure samples telemetry for rule-based anomalies and performs
// weighted-random injection of scripted failure scenarios, subject to a cap
// on concurrent severity.
package failure

// Severity ranks an event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// EventType is a closed enum of failure and anomaly kinds.
type EventType string

// Ground event types.
const (
	MotorOverheat      EventType = "motor_overheat"
	SlipEvent          EventType = "slip_event"
	GaitMismatch       EventType = "gait_mismatch"
	Rollover           EventType = "rollover"
	PowerFluctuation   EventType = "power_fluctuation"
	SensorNoise        EventType = "sensor_noise"
	JointLimitExceeded EventType = "joint_limit_exceeded"
	StabilityWarning   EventType = "stability_warning"
)

// Aerial event types.
const (
	MotorFailure     EventType = "motor_failure"
	GPSLoss          EventType = "gps_loss"
	LowBattery       EventType = "low_battery"
	SignalLost       EventType = "signal_lost"
	GeofenceBreach   EventType = "geofence_breach"
	WindWarning      EventType = "wind_warning"
	ObstacleDetected EventType = "obstacle_detected"
	Flyaway          EventType = "flyaway"
)

// Event is one detected or injected anomaly. Events are generated once per
// run, capped at MaxEvents, and never mutated afterward.
type Event struct {
	TimestampMS float64        `json:"timestamp"`
	Type        EventType      `json:"type"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data,omitempty"`
}

// MaxEvents caps the event list for a single run.
const MaxEvents = 10

// ShouldFail reports whether a run must be marked failed: true iff at least
// one event is critical.
func ShouldFail(events []Event) bool {
	for _, e := range events {
		if e.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
