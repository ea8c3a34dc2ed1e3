package failure

import "github.com/san-kum/hexsim/internal/terrain"

// Scenario is one entry of the scripted failure catalog.
type Scenario struct {
	Type       EventType
	Severity   Severity
	BaseWeight float64
	Message    string
}

// GroundCatalog lists the injectable hexapod failure scenarios, in draw
// order.
var GroundCatalog = []Scenario{
	{MotorOverheat, SeverityWarning, 1.0, "motor temperature trending above safe operating range"},
	{SlipEvent, SeverityWarning, 1.5, "foot slip detected during stance phase"},
	{GaitMismatch, SeverityWarning, 0.8, "leg phase drift detected, gait symmetry degrading"},
	{Rollover, SeverityCritical, 0.3, "body attitude exceeded recoverable limits, rollover"},
	{PowerFluctuation, SeverityWarning, 0.7, "bus voltage fluctuation under load"},
	{SensorNoise, SeverityInfo, 1.2, "elevated IMU noise floor"},
	{JointLimitExceeded, SeverityError, 0.6, "joint commanded past its soft limit"},
}

// AerialCatalog lists the injectable quadcopter failure scenarios.
var AerialCatalog = []Scenario{
	{MotorFailure, SeverityCritical, 0.4, "rotor output dropped, possible ESC or motor failure"},
	{GPSLoss, SeverityError, 0.8, "GPS fix degraded below navigation threshold"},
	{LowBattery, SeverityWarning, 1.2, "battery below mission reserve"},
	{SignalLost, SeverityError, 0.6, "RC link margin critically low"},
	{GeofenceBreach, SeverityWarning, 0.5, "position approaching geofence boundary"},
	{WindWarning, SeverityWarning, 1.5, "sustained wind above compensation envelope"},
	{ObstacleDetected, SeverityWarning, 0.7, "proximity sensor reports obstacle on heading"},
	{Flyaway, SeverityCritical, 0.2, "position diverging from commanded trajectory"},
}

// terrainModifiers scales scenario weights per ground surface; absent
// entries mean 1.0.
var terrainModifiers = map[terrain.Type]map[EventType]float64{
	terrain.Sand: {
		SlipEvent:    2.0,
		GaitMismatch: 1.3,
	},
	terrain.Gravel: {
		SlipEvent:   1.6,
		SensorNoise: 1.3,
	},
	terrain.Grass: {
		SlipEvent: 1.2,
	},
	terrain.Concrete: {
		SlipEvent: 0.5,
	},
}

// airspaceModifiers scales scenario weights per flight condition.
var airspaceModifiers = map[terrain.Airspace]map[EventType]float64{
	terrain.Calm: {
		WindWarning: 0.4,
	},
	terrain.Gusty: {
		WindWarning: 1.8,
		GPSLoss:     1.2,
	},
	terrain.Turbulent: {
		WindWarning:  2.5,
		MotorFailure: 1.5,
		Flyaway:      1.5,
		GPSLoss:      1.4,
	},
}

func terrainModifier(t terrain.Type, et EventType) float64 {
	if m, ok := terrainModifiers[t]; ok {
		if v, ok := m[et]; ok {
			return v
		}
	}
	return 1.0
}

func airspaceModifier(a terrain.Airspace, et EventType) float64 {
	if m, ok := airspaceModifiers[a]; ok {
		if v, ok := m[et]; ok {
			return v
		}
	}
	return 1.0
}
