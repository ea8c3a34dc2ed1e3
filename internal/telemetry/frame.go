// Package telemetry implements the procedural telemetry generators: a
// tripod-gait hexapod walker and a four-phase quadcopter flight profile.
// Generators are pure functions of (duration, config, sample rate, noise
// source); the same seed reproduces the same frame sequence.
package telemetry

// IMU is the whole-body attitude and acceleration block of a ground frame.
type IMU struct {
	Pitch  float64 `json:"pitch"`
	Roll   float64 `json:"roll"`
	Yaw    float64 `json:"yaw"`
	AccelX float64 `json:"accel_x"`
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`
}

// Power is the electrical block of a ground frame.
type Power struct {
	Voltage     float64 `json:"voltage"`
	Current     float64 `json:"current"`
	Temperature float64 `json:"temperature"`
}

// Contact records one leg's ground interaction at a frame.
type Contact struct {
	LegID        int     `json:"leg_id"`
	InContact    bool    `json:"in_contact"`
	Force        float64 `json:"force"`
	SlipDetected bool    `json:"slip_detected"`
}

// Frame is one timestamped snapshot of hexapod telemetry. Frames are
// immutable once generated; sequence order is the time axis.
type Frame struct {
	TimestampMS     float64            `json:"timestamp"`
	JointPositions  map[string]float64 `json:"joint_positions"`
	JointVelocities map[string]float64 `json:"joint_velocities"`
	JointTorques    map[string]float64 `json:"joint_torques"`
	IMU             IMU                `json:"imu"`
	Power           Power              `json:"power"`
	Contacts        []Contact          `json:"leg_contacts"`
}

// GPS is the position block of a drone frame.
type GPS struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Attitude is the orientation block of a drone frame.
type Attitude struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Yaw   float64 `json:"yaw"`
}

// Battery is the power block of a drone frame.
type Battery struct {
	Voltage   float64 `json:"voltage"`
	Current   float64 `json:"current"`
	Remaining float64 `json:"remaining"`
}

// DroneFrame is one timestamped snapshot of quadcopter flight telemetry.
type DroneFrame struct {
	TimestampMS    float64    `json:"timestamp"`
	Position       GPS        `json:"position"`
	VelocityX      float64    `json:"velocity_x"`
	VelocityY      float64    `json:"velocity_y"`
	VelocityZ      float64    `json:"velocity_z"`
	Attitude       Attitude   `json:"attitude"`
	RotorRPM       [4]float64 `json:"rotor_rpm"`
	Battery        Battery    `json:"battery"`
	GPSQuality     float64    `json:"gps_quality"`
	SignalStrength float64    `json:"signal_strength"`
}
