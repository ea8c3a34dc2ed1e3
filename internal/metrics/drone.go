package metrics

import (
	"math"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/telemetry"
)

const (
	hoverTargetM     = 10.0
	hoverToleranceM  = 0.5
	attitudeDeltaDeg = 3.0
	windEventCap     = 10

	// Theoretical battery drain rate for the efficiency comparison.
	theoreticalDrainPctS = 0.08
)

// Drone are the scalar aggregates of a quadcopter flight.
type Drone struct {
	HoverAccuracy          float64 `json:"hover_accuracy"`
	AltitudeStability      float64 `json:"altitude_stability"`
	BatteryEfficiency      float64 `json:"battery_efficiency"`
	BatteryUsedPct         float64 `json:"battery_used_pct"`
	WindCompensationEvents int     `json:"wind_compensation_events"`
	MaxAltitudeM           float64 `json:"max_altitude_m"`
	MaxDriftM              float64 `json:"max_drift_m"`
	FlightTimeS            float64 `json:"flight_time_s"`
}

// AnalyzeDrone reduces a flight telemetry sequence to its metrics record.
func AnalyzeDrone(frames []telemetry.DroneFrame) Drone {
	if len(frames) == 0 {
		return Drone{}
	}

	n := len(frames)
	var withinTolerance int
	var maxDev, maxAlt, maxDrift float64
	windEvents := 0

	baseLat, baseLon := frames[0].Position.Latitude, frames[0].Position.Longitude

	for i, f := range frames {
		alt := f.Position.Altitude
		maxAlt = math.Max(maxAlt, alt)
		if math.Abs(alt-hoverTargetM) <= hoverToleranceM {
			withinTolerance++
		}

		frac := float64(i) / float64(n)
		phase := telemetry.PhaseAt(frac)
		if phase == telemetry.PhaseHover || phase == telemetry.PhaseWaypoint {
			maxDev = math.Max(maxDev, math.Abs(alt-hoverTargetM))
		}
		if phase == telemetry.PhaseHover {
			drift := horizontalMeters(baseLat, baseLon, f.Position.Latitude, f.Position.Longitude)
			maxDrift = math.Max(maxDrift, drift)
		}

		if i > 0 && windEvents < windEventCap {
			dPitch := math.Abs(f.Attitude.Pitch - frames[i-1].Attitude.Pitch)
			dRoll := math.Abs(f.Attitude.Roll - frames[i-1].Attitude.Roll)
			if dPitch > attitudeDeltaDeg || dRoll > attitudeDeltaDeg {
				windEvents++
			}
		}
	}

	flightTime := 0.0
	if n > 1 {
		spacing := frames[1].TimestampMS - frames[0].TimestampMS
		flightTime = (frames[n-1].TimestampMS - frames[0].TimestampMS + spacing) / 1000
	}

	used := frames[0].Battery.Remaining - frames[n-1].Battery.Remaining
	efficiency := 0.0
	if used > 0 {
		efficiency = noise.Clamp(100*theoreticalDrainPctS*flightTime/used, 0, 100)
	}

	return Drone{
		HoverAccuracy:          math.Round(100 * float64(withinTolerance) / float64(n)),
		AltitudeStability:      noise.Round(noise.Clamp(100-10*maxDev, 0, 100), 1),
		BatteryEfficiency:      noise.Round(efficiency, 1),
		BatteryUsedPct:         noise.Round(used, 1),
		WindCompensationEvents: windEvents,
		MaxAltitudeM:           noise.Round(maxAlt, 2),
		MaxDriftM:              noise.Round(maxDrift, 2),
		FlightTimeS:            noise.Round(flightTime, 1),
	}
}

// FlightPhaseSpan summarizes one profile phase of a flight.
type FlightPhaseSpan struct {
	Phase   telemetry.FlightPhase `json:"phase"`
	StartMS float64               `json:"start_ms"`
	EndMS   float64               `json:"end_ms"`
}

// FlightPath summarizes the geometry of a flight.
type FlightPath struct {
	TotalDistanceM float64           `json:"total_distance_m"`
	MaxAltitudeM   float64           `json:"max_altitude_m"`
	AvgSpeedMS     float64           `json:"avg_speed_ms"`
	DurationS      float64           `json:"duration_s"`
	Phases         []FlightPhaseSpan `json:"phases"`
}

// AnalyzeFlightPath computes path geometry and the phase timeline.
func AnalyzeFlightPath(frames []telemetry.DroneFrame) FlightPath {
	if len(frames) == 0 {
		return FlightPath{}
	}

	n := len(frames)
	var dist, maxAlt float64
	phases := make([]FlightPhaseSpan, 0, 4)

	for i, f := range frames {
		maxAlt = math.Max(maxAlt, f.Position.Altitude)
		if i > 0 {
			prev := frames[i-1]
			h := horizontalMeters(prev.Position.Latitude, prev.Position.Longitude, f.Position.Latitude, f.Position.Longitude)
			v := f.Position.Altitude - prev.Position.Altitude
			dist += math.Sqrt(h*h + v*v)
		}

		phase := telemetry.PhaseAt(float64(i) / float64(n))
		if len(phases) == 0 || phases[len(phases)-1].Phase != phase {
			if len(phases) > 0 {
				phases[len(phases)-1].EndMS = f.TimestampMS
			}
			phases = append(phases, FlightPhaseSpan{Phase: phase, StartMS: f.TimestampMS})
		}
	}
	phases[len(phases)-1].EndMS = frames[n-1].TimestampMS

	duration := 0.0
	if n > 1 {
		spacing := frames[1].TimestampMS - frames[0].TimestampMS
		duration = (frames[n-1].TimestampMS - frames[0].TimestampMS + spacing) / 1000
	}
	avgSpeed := 0.0
	if duration > 0 {
		avgSpeed = dist / duration
	}

	return FlightPath{
		TotalDistanceM: noise.Round(dist, 1),
		MaxAltitudeM:   noise.Round(maxAlt, 2),
		AvgSpeedMS:     noise.Round(avgSpeed, 2),
		DurationS:      noise.Round(duration, 1),
		Phases:         phases,
	}
}

const metersPerDegree = 111320.0

func horizontalMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dy := (lat2 - lat1) * metersPerDegree
	dx := (lon2 - lon1) * metersPerDegree * math.Cos(lat1*math.Pi/180)
	return math.Hypot(dx, dy)
}
