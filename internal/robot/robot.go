// Package robot defines the configuration model shared by the simulation
// pipeline: ground physics, per-joint motor parameters, and drone physics.
package robot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/hexsim/internal/terrain"
)

const (
	// Legs is the number of legs on the canonical hexapod.
	Legs = 6

	DefaultGravity   = 9.81
	DefaultFriction  = 0.7
	DefaultRoughness = 0.3
)

// JointKinds are the segments of a hexapod leg, root to tip.
var JointKinds = []string{"coxa", "femur", "tibia"}

// PhysicsConfig is the ground environment for a session. It is mutated only
// through the configure-physics operation and snapshotted into run records.
type PhysicsConfig struct {
	Gravity             float64      `json:"gravity" yaml:"gravity"`
	FrictionCoefficient float64      `json:"friction_coefficient" yaml:"friction_coefficient"`
	TerrainType         terrain.Type `json:"terrain_type" yaml:"terrain_type"`
	TerrainRoughness    float64      `json:"terrain_roughness" yaml:"terrain_roughness"`
}

func DefaultPhysics() PhysicsConfig {
	return PhysicsConfig{
		Gravity:             DefaultGravity,
		FrictionCoefficient: DefaultFriction,
		TerrainType:         terrain.Concrete,
		TerrainRoughness:    DefaultRoughness,
	}
}

func (p PhysicsConfig) Clone() PhysicsConfig { return p }

// MotorParams configures a single joint actuator. PIDI is accepted and
// stored but the ground control loop only consumes the P and D terms.
type MotorParams struct {
	TorqueLimit float64 `json:"torque_limit" yaml:"torque_limit"`
	PIDP        float64 `json:"pid_p" yaml:"pid_p"`
	PIDI        float64 `json:"pid_i" yaml:"pid_i"`
	PIDD        float64 `json:"pid_d" yaml:"pid_d"`
	MaxVelocity float64 `json:"max_velocity" yaml:"max_velocity"`
}

func DefaultMotorParams() MotorParams {
	return MotorParams{
		TorqueLimit: 12.0,
		PIDP:        8.0,
		PIDI:        0.1,
		PIDD:        1.2,
		MaxVelocity: 5.0,
	}
}

// JointIDs returns the 18 canonical hexapod joint ids, leg-major:
// leg0_coxa, leg0_femur, leg0_tibia, leg1_coxa, ...
func JointIDs() []string {
	ids := make([]string, 0, Legs*len(JointKinds))
	for leg := 0; leg < Legs; leg++ {
		for _, kind := range JointKinds {
			ids = append(ids, fmt.Sprintf("leg%d_%s", leg, kind))
		}
	}
	return ids
}

// DefaultMotors builds the full default motor map for a new session.
func DefaultMotors() map[string]MotorParams {
	motors := make(map[string]MotorParams, Legs*len(JointKinds))
	for _, id := range JointIDs() {
		motors[id] = DefaultMotorParams()
	}
	return motors
}

// CloneMotors deep-copies a motor map so run snapshots stay isolated from
// later session mutations.
func CloneMotors(motors map[string]MotorParams) map[string]MotorParams {
	c := make(map[string]MotorParams, len(motors))
	for id, m := range motors {
		c[id] = m
	}
	return c
}

// JointKind extracts the segment name (coxa, femur, tibia) from a joint id.
func JointKind(jointID string) string {
	i := strings.LastIndex(jointID, "_")
	if i < 0 {
		return jointID
	}
	return jointID[i+1:]
}

// LegIndex extracts the leg number from a joint id like "leg3_femur".
// Returns -1 for ids that do not follow the canonical layout.
func LegIndex(jointID string) int {
	if !strings.HasPrefix(jointID, "leg") {
		return -1
	}
	rest := jointID[3:]
	i := strings.Index(rest, "_")
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(rest[:i])
	if err != nil || n < 0 || n >= Legs {
		return -1
	}
	return n
}

// DronePhysicsConfig is the flight environment for a session.
type DronePhysicsConfig struct {
	AirDensity    float64          `json:"air_density" yaml:"air_density"`
	WindSpeed     float64          `json:"wind_speed" yaml:"wind_speed"`
	WindDirection float64          `json:"wind_direction" yaml:"wind_direction"`
	Airspace      terrain.Airspace `json:"airspace_condition" yaml:"airspace_condition"`
}

func DefaultDronePhysics() DronePhysicsConfig {
	return DronePhysicsConfig{
		AirDensity:    1.225,
		WindSpeed:     2.0,
		WindDirection: 0,
		Airspace:      terrain.LightWind,
	}
}

func (p DronePhysicsConfig) Clone() DronePhysicsConfig { return p }
