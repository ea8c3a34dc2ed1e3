package metrics

import (
	"testing"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/telemetry"
)

func groundFrame(ts, pitch, roll float64, slips int) telemetry.Frame {
	contacts := make([]telemetry.Contact, 6)
	for i := range contacts {
		contacts[i] = telemetry.Contact{LegID: i, InContact: i%2 == 0, Force: 25}
		if slips > 0 {
			contacts[i].SlipDetected = true
			slips--
		}
	}
	return telemetry.Frame{
		TimestampMS: ts,
		IMU:         telemetry.IMU{Pitch: pitch, Roll: roll},
		Power:       telemetry.Power{Voltage: 24, Current: 1.0, Temperature: 40},
		Contacts:    contacts,
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	got := Analyze(nil)
	if got != (Ground{}) {
		t.Errorf("Analyze(nil) = %+v, want zero record", got)
	}
	got = Analyze([]telemetry.Frame{})
	if got != (Ground{}) {
		t.Errorf("Analyze([]) = %+v, want zero record", got)
	}
}

func TestAnalyzeStabilityClamped(t *testing.T) {
	// Extreme attitude plus slips on every contact must clamp at 0.
	frames := []telemetry.Frame{
		groundFrame(0, 30, 20, 6),
		groundFrame(100, -30, -20, 6),
	}
	m := Analyze(frames)
	if m.StabilityScore != 0 {
		t.Errorf("stability = %v, want 0", m.StabilityScore)
	}

	// Perfectly level, no slips: full score.
	frames = []telemetry.Frame{groundFrame(0, 0, 0, 0), groundFrame(100, 0, 0, 0)}
	m = Analyze(frames)
	if m.StabilityScore != 100 {
		t.Errorf("stability = %v, want 100", m.StabilityScore)
	}
}

func TestAnalyzeGaitSymmetryRange(t *testing.T) {
	frames := telemetry.Generate(10, robot.DefaultPhysics(), robot.DefaultMotors(), 10, noise.NewSource(21))
	m := Analyze(frames)

	if m.GaitSymmetry < 0 || m.GaitSymmetry > 1 {
		t.Errorf("gait symmetry = %v, want [0, 1]", m.GaitSymmetry)
	}
	if m.StabilityScore < 0 || m.StabilityScore > 100 {
		t.Errorf("stability = %v, want [0, 100]", m.StabilityScore)
	}
	if m.EfficiencyScore < 0 || m.EfficiencyScore > 100 {
		t.Errorf("efficiency = %v, want [0, 100]", m.EfficiencyScore)
	}
}

func TestAnalyzeSlipCount(t *testing.T) {
	frames := []telemetry.Frame{
		groundFrame(0, 0, 0, 2),
		groundFrame(100, 0, 0, 3),
	}
	if m := Analyze(frames); m.SlipEvents != 5 {
		t.Errorf("slip events = %d, want 5", m.SlipEvents)
	}
}

func droneFrame(ts, alt, pitch float64, battery float64) telemetry.DroneFrame {
	return telemetry.DroneFrame{
		TimestampMS: ts,
		Position:    telemetry.GPS{Latitude: 37.7749, Longitude: -122.4194, Altitude: alt},
		Attitude:    telemetry.Attitude{Pitch: pitch},
		Battery:     telemetry.Battery{Remaining: battery, Voltage: 16},
		GPSQuality:  95,
	}
}

func TestAnalyzeDroneEmpty(t *testing.T) {
	if got := AnalyzeDrone(nil); got != (Drone{}) {
		t.Errorf("AnalyzeDrone(nil) = %+v, want zero record", got)
	}
}

func TestAnalyzeDroneHoverAccuracy(t *testing.T) {
	// Half the frames at target altitude, half far away.
	frames := []telemetry.DroneFrame{
		droneFrame(0, 10.0, 0, 100),
		droneFrame(100, 10.2, 0, 100),
		droneFrame(200, 5.0, 0, 99),
		droneFrame(300, 2.0, 0, 99),
	}
	m := AnalyzeDrone(frames)
	if m.HoverAccuracy != 50 {
		t.Errorf("hover accuracy = %v, want 50", m.HoverAccuracy)
	}
}

func TestAnalyzeDroneAltitudeStabilityClamped(t *testing.T) {
	frames := telemetry.GenerateDrone(60, robot.DefaultDronePhysics(), 10, noise.NewSource(31))
	m := AnalyzeDrone(frames)

	if m.AltitudeStability < 0 || m.AltitudeStability > 100 {
		t.Errorf("altitude stability = %v, want [0, 100]", m.AltitudeStability)
	}
	if m.WindCompensationEvents > 10 {
		t.Errorf("wind compensation events = %d, want <= 10", m.WindCompensationEvents)
	}
	if m.BatteryEfficiency < 0 || m.BatteryEfficiency > 100 {
		t.Errorf("battery efficiency = %v, want [0, 100]", m.BatteryEfficiency)
	}
}

func TestAnalyzeDroneWindEventCap(t *testing.T) {
	// Alternate attitude wildly so every delta exceeds the threshold.
	frames := make([]telemetry.DroneFrame, 50)
	for i := range frames {
		pitch := 0.0
		if i%2 == 0 {
			pitch = 10.0
		}
		frames[i] = droneFrame(float64(i*100), 10, pitch, 100)
	}
	m := AnalyzeDrone(frames)
	if m.WindCompensationEvents != 10 {
		t.Errorf("wind compensation events = %d, want capped at 10", m.WindCompensationEvents)
	}
}

func TestAnalyzeFlightPath(t *testing.T) {
	if got := AnalyzeFlightPath(nil); got.TotalDistanceM != 0 || len(got.Phases) != 0 {
		t.Errorf("AnalyzeFlightPath(nil) = %+v, want zero record", got)
	}

	frames := telemetry.GenerateDrone(60, robot.DefaultDronePhysics(), 10, noise.NewSource(41))
	fp := AnalyzeFlightPath(frames)

	if fp.TotalDistanceM <= 0 {
		t.Error("expected positive total distance")
	}
	if fp.MaxAltitudeM < 8 {
		t.Errorf("max altitude = %v, want near hover target", fp.MaxAltitudeM)
	}
	if len(fp.Phases) != 4 {
		t.Fatalf("got %d phases, want 4", len(fp.Phases))
	}
	want := []telemetry.FlightPhase{
		telemetry.PhaseTakeoff,
		telemetry.PhaseHover,
		telemetry.PhaseWaypoint,
		telemetry.PhaseLanding,
	}
	for i, p := range fp.Phases {
		if p.Phase != want[i] {
			t.Errorf("phase %d = %s, want %s", i, p.Phase, want[i])
		}
	}
}
