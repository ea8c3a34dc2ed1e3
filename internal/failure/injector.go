package failure

import (
	"fmt"
	"math"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/telemetry"
)

const (
	sampleChecks = 10

	groundInjectProbability = 0.12
	aerialInjectProbability = 0.08

	// Injection stops once a critical event exists or this many
	// warning/error events have accumulated.
	warnErrorBudget = 3
)

// Rule-based detection thresholds.
const (
	rolloverPitchDeg  = 30.0
	rolloverRollDeg   = 25.0
	stabilityPitchDeg = 20.0
	stabilityRollDeg  = 15.0
	overheatTempC     = 50.0

	gpsQualityFloor    = 40.0
	batteryFloorPct    = 20.0
	signalFloorDBM     = -85.0
	attitudeExtremeDeg = 25.0
)

type collector struct {
	events    []Event
	criticals int
	warnErrs  int
}

func (c *collector) add(e Event) {
	if len(c.events) >= MaxEvents {
		return
	}
	c.events = append(c.events, e)
	switch e.Severity {
	case SeverityCritical:
		c.criticals++
	case SeverityWarning, SeverityError:
		c.warnErrs++
	}
}

func (c *collector) injectionSuppressed() bool {
	return c.criticals > 0 || c.warnErrs >= warnErrorBudget
}

// WeightedIndex draws one index with probability proportional to its weight
// via a cumulative-weight draw. Returns -1 when all weights are zero.
func WeightedIndex(weights []float64, src *noise.Source) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return -1
	}
	r := src.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

// Detect scans hexapod telemetry at 10 evenly spaced sample points,
// emitting rule-based events for threshold violations and probabilistically
// injecting scripted scenarios. The result is capped at MaxEvents, in
// generation order.
func Detect(frames []telemetry.Frame, physics robot.PhysicsConfig, src *noise.Source) []Event {
	c := &collector{events: make([]Event, 0, MaxEvents)}
	if len(frames) == 0 {
		return c.events
	}

	gravityRatio := physics.Gravity / robot.DefaultGravity

	for i := 0; i < sampleChecks; i++ {
		idx := i * len(frames) / sampleChecks
		f := frames[idx]
		progress := float64(idx) / float64(len(frames))

		groundRules(c, f)

		if c.injectionSuppressed() {
			continue
		}
		if src.Float64() >= groundInjectProbability {
			continue
		}

		weights := make([]float64, len(GroundCatalog))
		for j, s := range GroundCatalog {
			w := s.BaseWeight * terrainModifier(physics.TerrainType, s.Type)
			switch s.Type {
			case MotorOverheat:
				w *= 1 + progress
			case Rollover:
				w *= gravityRatio
			case PowerFluctuation:
				w *= 1 + progress*0.5
			}
			weights[j] = w
		}

		if pick := WeightedIndex(weights, src); pick >= 0 {
			s := GroundCatalog[pick]
			c.add(Event{
				TimestampMS: f.TimestampMS,
				Type:        s.Type,
				Severity:    s.Severity,
				Message:     s.Message,
				Data:        map[string]any{"injected": true, "terrain": string(physics.TerrainType)},
			})
		}
	}

	return c.events
}

func groundRules(c *collector, f telemetry.Frame) {
	pitch, roll := math.Abs(f.IMU.Pitch), math.Abs(f.IMU.Roll)

	switch {
	case pitch > rolloverPitchDeg || roll > rolloverRollDeg:
		c.add(Event{
			TimestampMS: f.TimestampMS,
			Type:        Rollover,
			Severity:    SeverityCritical,
			Message:     fmt.Sprintf("attitude beyond recovery: pitch %.1f, roll %.1f", f.IMU.Pitch, f.IMU.Roll),
			Data:        map[string]any{"pitch": f.IMU.Pitch, "roll": f.IMU.Roll},
		})
	case pitch > stabilityPitchDeg || roll > stabilityRollDeg:
		c.add(Event{
			TimestampMS: f.TimestampMS,
			Type:        StabilityWarning,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("attitude excursion: pitch %.1f, roll %.1f", f.IMU.Pitch, f.IMU.Roll),
			Data:        map[string]any{"pitch": f.IMU.Pitch, "roll": f.IMU.Roll},
		})
	}

	if f.Power.Temperature > overheatTempC {
		c.add(Event{
			TimestampMS: f.TimestampMS,
			Type:        MotorOverheat,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("motor temperature %.1f C above %.0f C threshold", f.Power.Temperature, overheatTempC),
			Data:        map[string]any{"temperature": f.Power.Temperature},
		})
	}

	for _, contact := range f.Contacts {
		if contact.SlipDetected {
			c.add(Event{
				TimestampMS: f.TimestampMS,
				Type:        SlipEvent,
				Severity:    SeverityInfo,
				Message:     fmt.Sprintf("slip detected on leg %d", contact.LegID),
				Data:        map[string]any{"leg_id": contact.LegID, "force": contact.Force},
			})
			break
		}
	}
}

// DetectDrone is the aerial counterpart of Detect.
func DetectDrone(frames []telemetry.DroneFrame, physics robot.DronePhysicsConfig, src *noise.Source) []Event {
	c := &collector{events: make([]Event, 0, MaxEvents)}
	if len(frames) == 0 {
		return c.events
	}

	for i := 0; i < sampleChecks; i++ {
		idx := i * len(frames) / sampleChecks
		f := frames[idx]
		progress := float64(idx) / float64(len(frames))

		aerialRules(c, f)

		if c.injectionSuppressed() {
			continue
		}
		if src.Float64() >= aerialInjectProbability {
			continue
		}

		weights := make([]float64, len(AerialCatalog))
		for j, s := range AerialCatalog {
			w := s.BaseWeight * airspaceModifier(physics.Airspace, s.Type)
			switch s.Type {
			case LowBattery:
				w *= 1 + progress*2
			case MotorFailure:
				w *= 1 + progress*0.5
			}
			weights[j] = w
		}

		if pick := WeightedIndex(weights, src); pick >= 0 {
			s := AerialCatalog[pick]
			c.add(Event{
				TimestampMS: f.TimestampMS,
				Type:        s.Type,
				Severity:    s.Severity,
				Message:     s.Message,
				Data:        map[string]any{"injected": true, "airspace": string(physics.Airspace)},
			})
		}
	}

	return c.events
}

func aerialRules(c *collector, f telemetry.DroneFrame) {
	if f.GPSQuality < gpsQualityFloor {
		c.add(Event{
			TimestampMS: f.TimestampMS,
			Type:        GPSLoss,
			Severity:    SeverityError,
			Message:     fmt.Sprintf("GPS quality %.0f below %.0f", f.GPSQuality, gpsQualityFloor),
			Data:        map[string]any{"gps_quality": f.GPSQuality},
		})
	}
	if f.Battery.Remaining < batteryFloorPct {
		c.add(Event{
			TimestampMS: f.TimestampMS,
			Type:        LowBattery,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("battery at %.0f%%, below %.0f%% reserve", f.Battery.Remaining, batteryFloorPct),
			Data:        map[string]any{"remaining": f.Battery.Remaining},
		})
	}
	if f.SignalStrength < signalFloorDBM {
		c.add(Event{
			TimestampMS: f.TimestampMS,
			Type:        SignalLost,
			Severity:    SeverityError,
			Message:     fmt.Sprintf("RC signal %.0f dBm below %.0f dBm", f.SignalStrength, signalFloorDBM),
			Data:        map[string]any{"signal_strength": f.SignalStrength},
		})
	}
	if math.Abs(f.Attitude.Pitch) > attitudeExtremeDeg || math.Abs(f.Attitude.Roll) > attitudeExtremeDeg {
		c.add(Event{
			TimestampMS: f.TimestampMS,
			Type:        WindWarning,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("attitude excursion: pitch %.1f, roll %.1f", f.Attitude.Pitch, f.Attitude.Roll),
			Data:        map[string]any{"pitch": f.Attitude.Pitch, "roll": f.Attitude.Roll},
		})
	}
}
