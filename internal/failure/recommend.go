package failure

import (
	"fmt"
	"math"

	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/terrain"
)

const (
	groundRecommendationCap = 5
	aerialRecommendationCap = 4

	frictionSuggestionFloor = 0.7
	frictionSuggestionStep  = 0.15
)

// Recommendations maps ground events to remediation suggestions,
// parameterized by the physics config. Duplicates are removed and the
// result is capped at 5 entries.
func Recommendations(events []Event, physics robot.PhysicsConfig) []string {
	out := make([]string, 0, groundRecommendationCap)
	seen := make(map[string]bool)

	add := func(s string) {
		if len(out) >= groundRecommendationCap || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, e := range events {
		switch e.Type {
		case SlipEvent:
			if physics.FrictionCoefficient < frictionSuggestionFloor {
				suggested := math.Min(1.0, physics.FrictionCoefficient+frictionSuggestionStep)
				add(fmt.Sprintf("Increase friction_coefficient to %.2f to reduce foot slip", suggested))
			}
			add("Slow the gait frequency on low-traction terrain")
		case MotorOverheat:
			add("Lower torque_limit on the affected joints or add rest periods between runs")
		case GaitMismatch:
			add("Retune pid_p and pid_d so all legs converge at the same rate")
		case Rollover, StabilityWarning:
			add("Widen the stance and lower the body height to improve stability margin")
			if physics.TerrainRoughness > 0.5 {
				add("Reduce terrain_roughness or reroute over flatter ground")
			}
		case PowerFluctuation:
			add("Check supply wiring; stagger joint motion to flatten current peaks")
		case SensorNoise:
			add("Increase IMU filtering or isolate the sensor mount from chassis vibration")
		case JointLimitExceeded:
			add("Reduce gait amplitude or raise max_velocity headroom on the saturating joints")
		}
	}

	return out
}

// DroneRecommendations maps aerial events to remediation suggestions,
// capped at 4 entries.
func DroneRecommendations(events []Event, physics robot.DronePhysicsConfig) []string {
	out := make([]string, 0, aerialRecommendationCap)
	seen := make(map[string]bool)

	add := func(s string) {
		if len(out) >= aerialRecommendationCap || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, e := range events {
		switch e.Type {
		case MotorFailure:
			add("Land immediately and inspect ESCs and motor bearings")
		case GPSLoss:
			add("Climb above obstructions or switch to attitude-hold until fix recovers")
		case LowBattery:
			add("Shorten the mission or raise the return-to-home battery threshold")
		case SignalLost:
			add("Reduce operating radius or reposition the ground antenna")
		case GeofenceBreach:
			add("Tighten waypoint spacing to keep the path inside the geofence")
		case WindWarning:
			if physics.Airspace == terrain.Gusty || physics.Airspace == terrain.Turbulent {
				add("Delay the flight until airspace conditions settle below gusty")
			}
			add("Increase attitude controller gains for stronger wind rejection")
		case ObstacleDetected:
			add("Raise the cruise altitude or add intermediate waypoints around the obstacle")
		case Flyaway:
			add("Trigger failsafe return-to-home and recalibrate the compass before the next flight")
		}
	}

	return out
}
