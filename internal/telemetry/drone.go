package telemetry

import (
	"math"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/terrain"
)

// Flight profile phase boundaries as fractions of total duration.
const (
	takeoffEnd  = 0.15
	hoverEnd    = 0.40
	waypointEnd = 0.80
)

const (
	targetAltitudeM = 10.0
	minRPM          = 1000.0
	maxRPM          = 8000.0
	hoverRPM        = 4500.0

	waypointThresholdM = 1.5

	batteryMinVoltage = 14.0
	batteryMaxVoltage = 16.8

	baseLatitude  = 37.7749
	baseLongitude = -122.4194
	metersPerDeg  = 111320.0
)

// FlightPhase names a segment of the deterministic flight profile.
type FlightPhase string

const (
	PhaseTakeoff  FlightPhase = "takeoff"
	PhaseHover    FlightPhase = "hover"
	PhaseWaypoint FlightPhase = "waypoint"
	PhaseLanding  FlightPhase = "landing"
)

// PhaseAt returns the flight phase for an elapsed-time fraction in [0, 1].
func PhaseAt(frac float64) FlightPhase {
	switch {
	case frac < takeoffEnd:
		return PhaseTakeoff
	case frac < hoverEnd:
		return PhaseHover
	case frac < waypointEnd:
		return PhaseWaypoint
	default:
		return PhaseLanding
	}
}

// waypoints are the relative navigation targets (x, y) in meters flown
// during the waypoint phase.
var waypoints = [4][2]float64{
	{10, 0},
	{10, 10},
	{0, 10},
	{0, 0},
}

// GenerateDrone produces floor(duration*rateHz) quadcopter telemetry frames
// following a four-phase flight profile: takeoff, hover, waypoint
// navigation, landing. Wind from the airspace table perturbs position
// continuously and attitude via probabilistic gusts.
func GenerateDrone(durationSeconds float64, physics robot.DronePhysicsConfig, rateHz float64, src *noise.Source) []DroneFrame {
	if durationSeconds <= 0 || rateHz <= 0 {
		return []DroneFrame{}
	}

	count := int(math.Floor(durationSeconds * rateHz))
	frames := make([]DroneFrame, 0, count)
	if count == 0 {
		return frames
	}

	dt := 1.0 / rateHz
	ap := terrain.LookupAirspace(physics.Airspace)
	windRad := physics.WindDirection * math.Pi / 180

	var posX, posY, alt float64
	var vx, vy, vz float64
	var pitch, roll, yaw float64
	remaining := 100.0
	wpIndex := 0

	for i := 0; i < count; i++ {
		t := float64(i) * dt
		frac := t / durationSeconds
		phase := PhaseAt(frac)

		switch phase {
		case PhaseTakeoff:
			vz = noise.Clamp((targetAltitudeM-alt)*0.8, 0, 3.0)
			vx, vy = 0, 0
		case PhaseHover:
			vz = (targetAltitudeM - alt) * 0.5
			vx *= 0.8
			vy *= 0.8
		case PhaseWaypoint:
			wp := waypoints[wpIndex]
			dx, dy := wp[0]-posX, wp[1]-posY
			if math.Hypot(dx, dy) < waypointThresholdM && wpIndex < len(waypoints)-1 {
				wpIndex++
				wp = waypoints[wpIndex]
				dx, dy = wp[0]-posX, wp[1]-posY
			}
			vx = noise.Clamp(dx*0.5, -5, 5)
			vy = noise.Clamp(dy*0.5, -5, 5)
			vz = (targetAltitudeM - alt) * 0.5
		case PhaseLanding:
			vz = -noise.Clamp(alt*0.5, 0.3, 2.0)
			if alt <= 0.05 {
				vz = 0
			}
			vx *= 0.7
			vy *= 0.7
		}

		// Steady wind push plus airspace position jitter.
		posX += vx*dt + physics.WindSpeed*math.Cos(windRad)*0.01*dt + src.Gaussian(0, ap.PositionVariance*0.1)
		posY += vy*dt + physics.WindSpeed*math.Sin(windRad)*0.01*dt + src.Gaussian(0, ap.PositionVariance*0.1)
		alt += vz * dt
		alt = math.Max(alt, 0)

		// Attitude self-stabilizes with exponential decay; gusts kick it.
		pitch = pitch*0.85 + src.Gaussian(0, ap.TurbulenceIntensity*2.0)
		roll = roll*0.85 + src.Gaussian(0, ap.TurbulenceIntensity*2.0)
		if src.Float64() < ap.GustProbability {
			pitch += src.Gaussian(0, ap.TurbulenceIntensity*10.0)
			roll += src.Gaussian(0, ap.TurbulenceIntensity*10.0)
		}
		pitch = noise.Clamp(pitch, -30, 30)
		roll = noise.Clamp(roll, -30, 30)
		yaw += src.Gaussian(0, 0.8)

		var rpm [4]float64
		base := hoverRPM + vz*300 + math.Hypot(vx, vy)*80
		if phase == PhaseLanding && alt <= 0.05 {
			base = minRPM
		}
		for r := 0; r < 4; r++ {
			rpm[r] = noise.Clamp(base+src.Gaussian(0, 50+ap.TurbulenceIntensity*100), minRPM, maxRPM)
		}

		// Battery drains with vertical and horizontal effort.
		hspeed := math.Hypot(vx, vy)
		drain := (0.05 + 0.30*math.Abs(vz) + 0.15*hspeed) * dt
		remaining = noise.Clamp(remaining-drain, 0, 100)
		voltage := batteryMinVoltage + (batteryMaxVoltage-batteryMinVoltage)*remaining/100
		current := 8.0 + math.Abs(vz)*3.0 + hspeed*1.5 + math.Abs(src.Gaussian(0, 0.5))

		gps := 95.0 + src.Gaussian(0, 3.0)
		if alt < 2.0 {
			gps -= 15
		}
		if physics.Airspace == terrain.Turbulent {
			gps -= 10
		}
		gps = noise.Clamp(gps, 0, 100)

		rssi := -55.0 - alt*0.4 + src.Gaussian(0, 3.0)

		frames = append(frames, DroneFrame{
			TimestampMS: noise.Round(t*1000, 1),
			Position: GPS{
				Latitude:  noise.Round(baseLatitude+posY/metersPerDeg, 6),
				Longitude: noise.Round(baseLongitude+posX/(metersPerDeg*math.Cos(baseLatitude*math.Pi/180)), 6),
				Altitude:  noise.Round(alt, 2),
			},
			VelocityX: noise.Round(vx, 2),
			VelocityY: noise.Round(vy, 2),
			VelocityZ: noise.Round(vz, 2),
			Attitude: Attitude{
				Pitch: noise.Round(pitch, 2),
				Roll:  noise.Round(roll, 2),
				Yaw:   noise.Round(yaw, 2),
			},
			RotorRPM: [4]float64{
				math.Round(rpm[0]),
				math.Round(rpm[1]),
				math.Round(rpm[2]),
				math.Round(rpm[3]),
			},
			Battery: Battery{
				Voltage:   noise.Round(voltage, 2),
				Current:   noise.Round(current, 2),
				Remaining: math.Round(remaining),
			},
			GPSQuality:     math.Round(gps),
			SignalStrength: math.Round(rssi),
		})
	}

	return frames
}
