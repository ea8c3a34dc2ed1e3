// Package session keeps per-session simulation state in memory: physics and
// motor configuration, and a bounded run history. Sessions idle past their
// TTL are evicted by a background sweep.
package session

import (
	"sync"
	"time"

	"github.com/san-kum/hexsim/internal/failure"
	"github.com/san-kum/hexsim/internal/metrics"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/telemetry"
)

// HistoryLimit caps the per-session run ring buffer.
const HistoryLimit = 10

// RunStatus is the lifecycle state of a simulation run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run is one completed simulation. The physics and motor snapshots are deep
// copies taken at run start; later session mutations never alter them.
type Run struct {
	RunID       string    `json:"run_id"`
	SessionID   string    `json:"session_id"`
	RobotType   string    `json:"robot_type"`
	Status      RunStatus `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationS   float64   `json:"duration_s"`

	Physics      *robot.PhysicsConfig         `json:"physics_config,omitempty"`
	Motors       map[string]robot.MotorParams `json:"motor_configs,omitempty"`
	DronePhysics *robot.DronePhysicsConfig    `json:"drone_physics_config,omitempty"`

	Frames      []telemetry.Frame      `json:"telemetry,omitempty"`
	DroneFrames []telemetry.DroneFrame `json:"drone_telemetry,omitempty"`
	Events      []failure.Event        `json:"events"`

	Metrics      *metrics.Ground     `json:"metrics,omitempty"`
	DroneMetrics *metrics.Drone      `json:"drone_metrics,omitempty"`
	FlightPath   *metrics.FlightPath `json:"flight_path,omitempty"`

	VideoURL string `json:"video_url,omitempty"`
}

type session struct {
	physics      robot.PhysicsConfig
	motors       map[string]robot.MotorParams
	dronePhysics robot.DronePhysicsConfig
	runs         []*Run
	currentRun   string
	lastAccess   time.Time
}

// Store owns all session state. Construct with New; callers never hold
// references into the store's maps, only copies.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	done     chan struct{}
	stop     sync.Once
}

// New builds a store with the given idle TTL and clock. A zero sweep
// interval disables the background sweeper (eviction still happens lazily
// on access).
func New(ttl, sweepInterval time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      now,
		done:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

// Close stops the background sweeper.
func (s *Store) Close() {
	s.stop.Do(func() { close(s.done) })
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Evict()
		}
	}
}

// Evict drops all sessions idle past the TTL and returns how many were
// removed.
func (s *Store) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// get returns the session, creating it with defaults on first access.
// Caller must hold the lock.
func (s *Store) get(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{
			physics:      robot.DefaultPhysics(),
			motors:       robot.DefaultMotors(),
			dronePhysics: robot.DefaultDronePhysics(),
		}
		s.sessions[id] = sess
	}
	sess.lastAccess = s.now()
	return sess
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Physics returns a copy of the session's ground physics config.
func (s *Store) Physics(id string) robot.PhysicsConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id).physics.Clone()
}

// SetPhysics replaces the session's ground physics config.
func (s *Store) SetPhysics(id string, cfg robot.PhysicsConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id).physics = cfg
}

// DronePhysics returns a copy of the session's flight physics config.
func (s *Store) DronePhysics(id string) robot.DronePhysicsConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id).dronePhysics.Clone()
}

// SetDronePhysics replaces the session's flight physics config.
func (s *Store) SetDronePhysics(id string, cfg robot.DronePhysicsConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id).dronePhysics = cfg
}

// Motors returns a deep copy of the session's motor map.
func (s *Store) Motors(id string) map[string]robot.MotorParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return robot.CloneMotors(s.get(id).motors)
}

// SetMotor stores params for one joint, last write wins.
func (s *Store) SetMotor(id, jointID string, params robot.MotorParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id).motors[jointID] = params
}

// Motor returns one joint's params and whether the joint exists.
func (s *Store) Motor(id, jointID string) (robot.MotorParams, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.get(id).motors[jointID]
	return m, ok
}

// AppendRun records a completed run as the session's current run. History
// keeps only the last HistoryLimit runs.
func (s *Store) AppendRun(id string, run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(id)
	sess.runs = append(sess.runs, run)
	if len(sess.runs) > HistoryLimit {
		sess.runs = sess.runs[len(sess.runs)-HistoryLimit:]
	}
	sess.currentRun = run.RunID
}

// Runs returns the session's run history, oldest first.
func (s *Store) Runs(id string) []*Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	out := make([]*Run, len(sess.runs))
	copy(out, sess.runs)
	return out
}

// CurrentRun returns the most recent run, or nil.
func (s *Store) CurrentRun(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	for _, r := range sess.runs {
		if r.RunID == sess.currentRun {
			return r
		}
	}
	return nil
}

// FindRun looks up a run by id across the session's history.
func (s *Store) FindRun(id, runID string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(id)
	for _, r := range sess.runs {
		if r.RunID == runID {
			return r
		}
	}
	return nil
}
