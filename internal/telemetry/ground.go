package telemetry

import (
	"math"
	"sort"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/terrain"
)

const (
	// GaitFrequencyHz is the tripod gait oscillator rate.
	GaitFrequencyHz = 2.0

	// Per-segment gait amplitudes in radians.
	coxaAmplitude  = 0.4
	femurAmplitude = 0.6
	tibiaAmplitude = 0.5

	tempFloorC   = 35.0
	tempCeilingC = 55.0

	nominalVoltage = 24.0
)

func gaitAmplitude(kind string) float64 {
	switch kind {
	case "coxa":
		return coxaAmplitude
	case "femur":
		return femurAmplitude
	case "tibia":
		return tibiaAmplitude
	}
	return coxaAmplitude
}

type jointState struct {
	position float64
	velocity float64
}

// Generate produces floor(duration*rateHz) hexapod telemetry frames with
// timestamps spaced 1000/rateHz ms apart. The hexapod walks a tripod gait:
// even-numbered legs are phase-shifted by pi relative to odd-numbered legs,
// and each joint tracks a sinusoidal target through a velocity-feedback
// P/D loop. Terrain-scaled Gaussian noise perturbs position and velocity
// each step; noise is applied before the torque clamp.
func Generate(durationSeconds float64, physics robot.PhysicsConfig, motors map[string]robot.MotorParams, rateHz float64, src *noise.Source) []Frame {
	if durationSeconds <= 0 || rateHz <= 0 {
		return []Frame{}
	}

	count := int(math.Floor(durationSeconds * rateHz))
	frames := make([]Frame, 0, count)
	if count == 0 {
		return frames
	}

	dt := 1.0 / rateHz
	tp := terrain.Lookup(physics.TerrainType)
	gravityRatio := physics.Gravity / robot.DefaultGravity

	jointIDs := make([]string, 0, len(motors))
	for id := range motors {
		jointIDs = append(jointIDs, id)
	}
	sort.Strings(jointIDs)

	states := make(map[string]*jointState, len(jointIDs))
	for _, id := range jointIDs {
		states[id] = &jointState{}
	}

	var pitch, roll, yaw float64
	temp := tempFloorC

	for i := 0; i < count; i++ {
		t := float64(i) * dt
		phase := 2 * math.Pi * GaitFrequencyHz * t

		positions := make(map[string]float64, len(jointIDs))
		velocities := make(map[string]float64, len(jointIDs))
		torques := make(map[string]float64, len(jointIDs))

		torqueSum := 0.0
		for _, id := range jointIDs {
			params := motors[id]
			st := states[id]

			offset := 0.0
			if leg := robot.LegIndex(id); leg >= 0 && leg%2 == 0 {
				offset = math.Pi
			}
			target := gaitAmplitude(robot.JointKind(id)) * math.Sin(phase+offset)

			// P/D only; the integral gain is configurable but not part of
			// the control law.
			posErr := target - st.position
			accel := params.PIDP*posErr - params.PIDD*st.velocity

			st.velocity += accel * dt
			st.velocity += src.Gaussian(0, tp.FrictionVariance*0.1)
			st.velocity = noise.Clamp(st.velocity, -params.MaxVelocity, params.MaxVelocity)

			st.position += st.velocity * dt
			st.position += src.Gaussian(0, tp.FrictionVariance*0.05)

			torque := params.PIDP*posErr*2.0 + src.Gaussian(0, 0.5)
			torque = noise.Clamp(torque, -params.TorqueLimit, params.TorqueLimit)

			positions[id] = noise.Round(st.position, 3)
			velocities[id] = noise.Round(st.velocity, 3)
			torques[id] = noise.Round(torque, 3)
			torqueSum += math.Abs(torque)
		}

		meanTorque := 0.0
		if len(jointIDs) > 0 {
			meanTorque = torqueSum / float64(len(jointIDs))
		}

		// Body attitude: gait-synchronized oscillation, exponentially
		// smoothed, scaled by gravity ratio. Yaw is an unbounded random walk.
		pitchTarget := 3.0 * math.Sin(phase*0.5) * gravityRatio
		rollTarget := 2.0 * math.Sin(phase*0.5+math.Pi/3) * gravityRatio
		pitch = pitch*0.9 + (pitchTarget+src.Gaussian(0, physics.TerrainRoughness*2.0))*0.1
		roll = roll*0.9 + (rollTarget+src.Gaussian(0, physics.TerrainRoughness*1.5))*0.1
		pitch = noise.Clamp(pitch, -30, 30)
		roll = noise.Clamp(roll, -20, 20)
		yaw += src.Gaussian(0, 0.5)

		// Temperature never decreases.
		temp += 0.01 + math.Abs(src.Gaussian(0, 0.01))
		temp = math.Min(temp, tempCeilingC)

		current := 0.5 + meanTorque*0.4 + math.Abs(src.Gaussian(0, 0.1))
		voltage := nominalVoltage - current*0.3 + src.Gaussian(0, 0.05)

		// One stance test per frame; the even tripod is the strict negation
		// of the odd one, so the two sets can never agree even when the
		// phase lands exactly on a half-cycle boundary.
		cycle := math.Mod(phase, 2*math.Pi)
		if cycle < 0 {
			cycle += 2 * math.Pi
		}
		oddStance := cycle < math.Pi

		contacts := make([]Contact, 0, robot.Legs)
		for leg := 0; leg < robot.Legs; leg++ {
			inStance := oddStance
			if leg%2 == 0 {
				inStance = !oddStance
			}

			force := 0.0
			slip := false
			if inStance {
				force = physics.Gravity*2.5 + math.Abs(src.Gaussian(0, 5.0))*tp.ImpactDamping
				slip = src.Float64() < tp.SlipProbability*(1-physics.FrictionCoefficient)
			}

			contacts = append(contacts, Contact{
				LegID:        leg,
				InContact:    inStance,
				Force:        noise.Round(force, 1),
				SlipDetected: slip,
			})
		}

		frames = append(frames, Frame{
			TimestampMS:     noise.Round(t*1000, 1),
			JointPositions:  positions,
			JointVelocities: velocities,
			JointTorques:    torques,
			IMU: IMU{
				Pitch:  noise.Round(pitch, 2),
				Roll:   noise.Round(roll, 2),
				Yaw:    noise.Round(yaw, 2),
				AccelX: noise.Round(src.Gaussian(0, 0.2+physics.TerrainRoughness*0.3), 2),
				AccelY: noise.Round(src.Gaussian(0, 0.2+physics.TerrainRoughness*0.3), 2),
				AccelZ: noise.Round(-physics.Gravity+src.Gaussian(0, 0.1), 2),
			},
			Power: Power{
				Voltage:     noise.Round(voltage, 2),
				Current:     noise.Round(current, 2),
				Temperature: noise.Round(temp, 2),
			},
			Contacts: contacts,
		})
	}

	return frames
}
