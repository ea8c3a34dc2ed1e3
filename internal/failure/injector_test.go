package failure

import (
	"strings"
	"testing"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/telemetry"
	"github.com/san-kum/hexsim/internal/terrain"
)

func levelFrame(ts float64) telemetry.Frame {
	return telemetry.Frame{
		TimestampMS: ts,
		Power:       telemetry.Power{Voltage: 24, Current: 1, Temperature: 40},
		Contacts:    make([]telemetry.Contact, 6),
	}
}

func TestDetectRollover(t *testing.T) {
	frames := make([]telemetry.Frame, 20)
	for i := range frames {
		frames[i] = levelFrame(float64(i * 100))
	}
	frames[10].IMU.Pitch = 35.0

	events := Detect(frames, robot.DefaultPhysics(), noise.NewSource(1))

	var rollover *Event
	for i := range events {
		if events[i].Type == Rollover {
			rollover = &events[i]
			break
		}
	}
	if rollover == nil {
		t.Fatal("pitch 35 produced no rollover event")
	}
	if rollover.Severity != SeverityCritical {
		t.Errorf("rollover severity = %s, want critical", rollover.Severity)
	}
	if !ShouldFail(events) {
		t.Error("ShouldFail = false with a critical rollover present")
	}
}

func TestDetectStabilityWarning(t *testing.T) {
	frames := make([]telemetry.Frame, 10)
	for i := range frames {
		frames[i] = levelFrame(float64(i * 100))
		frames[i].IMU.Roll = 18.0
	}

	events := Detect(frames, robot.DefaultPhysics(), noise.NewSource(1))

	found := false
	for _, e := range events {
		if e.Type == StabilityWarning && e.Severity == SeverityWarning {
			found = true
		}
		if e.Type == Rollover {
			t.Error("roll 18 should not trigger rollover")
		}
	}
	if !found {
		t.Error("roll 18 produced no stability warning")
	}
	if ShouldFail(events) {
		t.Error("warnings alone must not fail the run")
	}
}

func TestDetectOverheatAndSlip(t *testing.T) {
	frames := make([]telemetry.Frame, 10)
	for i := range frames {
		frames[i] = levelFrame(float64(i * 100))
		frames[i].Power.Temperature = 52.0
		frames[i].Contacts[2] = telemetry.Contact{LegID: 2, InContact: true, Force: 30, SlipDetected: true}
	}

	events := Detect(frames, robot.DefaultPhysics(), noise.NewSource(1))

	var sawOverheat, sawSlip bool
	for _, e := range events {
		if e.Type == MotorOverheat {
			sawOverheat = true
		}
		if e.Type == SlipEvent {
			sawSlip = true
		}
	}
	if !sawOverheat {
		t.Error("temperature 52 produced no overheat event")
	}
	if !sawSlip {
		t.Error("slip flag produced no slip event")
	}
}

func TestDetectEventCap(t *testing.T) {
	// Every sample point violates multiple rules; list must stay capped.
	frames := make([]telemetry.Frame, 100)
	for i := range frames {
		frames[i] = levelFrame(float64(i * 100))
		frames[i].IMU.Pitch = 35
		frames[i].Power.Temperature = 53
		frames[i].Contacts[0] = telemetry.Contact{LegID: 0, InContact: true, SlipDetected: true}
	}

	for seed := int64(1); seed <= 5; seed++ {
		events := Detect(frames, robot.DefaultPhysics(), noise.NewSource(seed))
		if len(events) > MaxEvents {
			t.Fatalf("seed %d: %d events, want <= %d", seed, len(events), MaxEvents)
		}
	}
}

func TestDetectDroneRules(t *testing.T) {
	frames := make([]telemetry.DroneFrame, 20)
	for i := range frames {
		frames[i] = telemetry.DroneFrame{
			TimestampMS:    float64(i * 100),
			Battery:        telemetry.Battery{Remaining: 80, Voltage: 16},
			GPSQuality:     95,
			SignalStrength: -60,
		}
	}
	// Sample points for 20 frames land on even indices.
	frames[4].GPSQuality = 30
	frames[10].Battery.Remaining = 15
	frames[16].SignalStrength = -90

	events := DetectDrone(frames, robot.DefaultDronePhysics(), noise.NewSource(1))

	want := map[EventType]bool{GPSLoss: false, LowBattery: false, SignalLost: false}
	for _, e := range events {
		if _, ok := want[e.Type]; ok {
			want[e.Type] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("expected %s event", typ)
		}
	}
}

func TestDetectEmptyFrames(t *testing.T) {
	if events := Detect(nil, robot.DefaultPhysics(), noise.NewSource(1)); len(events) != 0 {
		t.Errorf("Detect(nil) returned %d events", len(events))
	}
	if events := DetectDrone(nil, robot.DefaultDronePhysics(), noise.NewSource(1)); len(events) != 0 {
		t.Errorf("DetectDrone(nil) returned %d events", len(events))
	}
}

func TestWeightedIndexSingleEntry(t *testing.T) {
	weights := []float64{0, 0, 0, 2.5, 0}
	src := noise.NewSource(99)
	for i := 0; i < 100; i++ {
		if got := WeightedIndex(weights, src); got != 3 {
			t.Fatalf("WeightedIndex = %d, want 3 (only nonzero entry)", got)
		}
	}
}

func TestWeightedIndexAllZero(t *testing.T) {
	if got := WeightedIndex([]float64{0, 0}, noise.NewSource(1)); got != -1 {
		t.Errorf("WeightedIndex(all zero) = %d, want -1", got)
	}
}

func TestWeightedIndexProportional(t *testing.T) {
	weights := []float64{1, 9}
	src := noise.NewSource(7)
	counts := [2]int{}
	for i := 0; i < 5000; i++ {
		counts[WeightedIndex(weights, src)]++
	}
	ratio := float64(counts[1]) / float64(counts[0]+counts[1])
	if ratio < 0.85 || ratio > 0.95 {
		t.Errorf("heavy entry drawn %.2f of the time, want ~0.9", ratio)
	}
}

func TestRecommendationsSlipFriction(t *testing.T) {
	physics := robot.DefaultPhysics()
	physics.FrictionCoefficient = 0.3
	events := []Event{{Type: SlipEvent, Severity: SeverityInfo}}

	recs := Recommendations(events, physics)
	found := false
	for _, r := range recs {
		if strings.Contains(r, "0.45") {
			found = true
		}
	}
	if !found {
		t.Errorf("no friction suggestion of 0.45 in %v", recs)
	}
}

func TestRecommendationsNoFrictionSuggestionWhenHigh(t *testing.T) {
	physics := robot.DefaultPhysics()
	physics.FrictionCoefficient = 0.8
	recs := Recommendations([]Event{{Type: SlipEvent}}, physics)
	for _, r := range recs {
		if strings.Contains(r, "friction_coefficient") {
			t.Errorf("friction suggestion emitted at coefficient 0.8: %q", r)
		}
	}
}

func TestRecommendationsDedupAndCap(t *testing.T) {
	events := make([]Event, 0, 20)
	types := []EventType{SlipEvent, MotorOverheat, GaitMismatch, Rollover, PowerFluctuation, SensorNoise, JointLimitExceeded}
	for i := 0; i < 20; i++ {
		events = append(events, Event{Type: types[i%len(types)]})
	}

	recs := Recommendations(events, robot.DefaultPhysics())
	if len(recs) > 5 {
		t.Errorf("%d ground recommendations, want <= 5", len(recs))
	}
	seen := make(map[string]bool)
	for _, r := range recs {
		if seen[r] {
			t.Errorf("duplicate recommendation %q", r)
		}
		seen[r] = true
	}

	physics := robot.DefaultDronePhysics()
	physics.Airspace = terrain.Turbulent
	droneEvents := make([]Event, 0, 16)
	droneTypes := []EventType{MotorFailure, GPSLoss, LowBattery, SignalLost, GeofenceBreach, WindWarning, ObstacleDetected, Flyaway}
	for i := 0; i < 16; i++ {
		droneEvents = append(droneEvents, Event{Type: droneTypes[i%len(droneTypes)]})
	}
	droneRecs := DroneRecommendations(droneEvents, physics)
	if len(droneRecs) > 4 {
		t.Errorf("%d aerial recommendations, want <= 4", len(droneRecs))
	}
}
