// Package orchestrator dispatches tool calls against per-session simulation
// state: it binds a session's physics and motor configuration to a run,
// drives the generate/analyze/inject pipeline, and wraps every result in a
// uniform envelope.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/hexsim/internal/config"
	"github.com/san-kum/hexsim/internal/failure"
	"github.com/san-kum/hexsim/internal/metrics"
	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/session"
	"github.com/san-kum/hexsim/internal/storage"
	"github.com/san-kum/hexsim/internal/telemetry"
	"github.com/san-kum/hexsim/internal/terrain"
)

// Envelope is the uniform result wrapper for every tool call.
type Envelope struct {
	Success         bool       `json:"success"`
	Result          any        `json:"result,omitempty"`
	Error           *ToolError `json:"error,omitempty"`
	ExecutionTimeMS float64    `json:"execution_time_ms"`
}

// Service executes tool calls. An optional archive store persists completed
// runs; a nil archive disables persistence.
type Service struct {
	cfg      *config.Config
	sessions *session.Store
	archive  *storage.Store
	now      func() time.Time

	mu     sync.Mutex
	src    *noise.Source
	lastID int64
}

// New builds a service. A nil now defaults to time.Now.
func New(cfg *config.Config, sessions *session.Store, archive *storage.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		cfg:      cfg,
		sessions: sessions,
		archive:  archive,
		now:      now,
		src:      noise.NewSource(cfg.Seed),
	}
}

// Execute dispatches one tool call and always returns an envelope; errors
// and panics are captured, never propagated.
func (s *Service) Execute(ctx context.Context, sessionID, tool string, args map[string]any) Envelope {
	start := s.now()
	env := s.dispatch(ctx, sessionID, tool, args)
	env.ExecutionTimeMS = float64(s.now().Sub(start)) / float64(time.Millisecond)
	return env
}

func (s *Service) dispatch(ctx context.Context, sessionID, tool string, args map[string]any) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			env = fail(internalError(r))
		}
	}()

	if sessionID == "" {
		return fail(missingSession())
	}
	if tool == "" {
		return fail(missingTool())
	}
	if args == nil {
		args = map[string]any{}
	}

	s.delay(ctx)

	switch tool {
	case "configure_physics":
		return s.configurePhysics(sessionID, args)
	case "update_motor_params":
		return s.updateMotorParams(sessionID, args)
	case "run_simulation":
		return s.runSimulation(ctx, sessionID, args)
	case "analyze_video":
		return s.analyzeVideo(sessionID, args)
	case "search_knowledge":
		return s.searchKnowledge(args)
	case "research_plan":
		return s.researchPlan(args)
	default:
		return fail(unknownTool(tool))
	}
}

func ok(result any) Envelope { return Envelope{Success: true, Result: result} }

func fail(err *ToolError) Envelope { return Envelope{Success: false, Error: err} }

func isAerial(robotType string) bool {
	switch strings.ToLower(robotType) {
	case "drone", "uav", "quadcopter", "aerial":
		return true
	}
	return false
}

// delay sleeps a randomized interval to emulate variable compute cost.
// Zero-valued config bounds disable it, which tests rely on.
func (s *Service) delay(ctx context.Context) {
	if s.cfg.MaxDelayMS <= 0 {
		return
	}
	span := s.cfg.MaxDelayMS - s.cfg.MinDelayMS
	s.mu.Lock()
	ms := s.cfg.MinDelayMS
	if span > 0 {
		ms += s.src.IntN(span + 1)
	}
	s.mu.Unlock()

	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// nextID returns a strictly increasing millisecond id so rapid back-to-back
// runs never share a run id.
func (s *Service) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Service) runSource() *noise.Source {
	if s.cfg.Seed != 0 {
		return noise.NewSource(s.cfg.Seed)
	}
	return noise.NewSource(0)
}

func (s *Service) configurePhysics(sessionID string, args map[string]any) Envelope {
	if rt, _ := argString(args, "robot_type"); isAerial(rt) {
		return s.configureDronePhysics(sessionID, args)
	}

	cfg := s.sessions.Physics(sessionID)
	var warnings []string

	if v, ok := argFloat(args, "gravity"); ok {
		cfg.Gravity = v
	}
	if v, ok := argFloat(args, "friction_coefficient"); ok {
		clamped := noise.Clamp(v, 0, 1)
		if clamped != v {
			warnings = append(warnings, fmt.Sprintf("friction_coefficient %.2f out of range, clamped to %.2f", v, clamped))
		}
		cfg.FrictionCoefficient = clamped
	}
	if v, ok := argString(args, "terrain_type"); ok {
		t, known := terrain.ParseType(v)
		if !known {
			warnings = append(warnings, fmt.Sprintf("unknown terrain %q, using concrete", v))
		}
		cfg.TerrainType = t
	}
	if v, ok := argFloat(args, "terrain_roughness"); ok {
		clamped := noise.Clamp(v, 0, 1)
		if clamped != v {
			warnings = append(warnings, fmt.Sprintf("terrain_roughness %.2f out of range, clamped to %.2f", v, clamped))
		}
		cfg.TerrainRoughness = clamped
	}

	s.sessions.SetPhysics(sessionID, cfg)

	status := "ok"
	if len(warnings) > 0 {
		status = "partial"
	}
	return ok(map[string]any{
		"status":         status,
		"physics_config": cfg,
		"warnings":       warnings,
	})
}

func (s *Service) configureDronePhysics(sessionID string, args map[string]any) Envelope {
	cfg := s.sessions.DronePhysics(sessionID)
	var warnings []string

	if v, ok := argFloat(args, "air_density"); ok {
		cfg.AirDensity = v
	}
	if v, ok := argFloat(args, "wind_speed"); ok {
		cfg.WindSpeed = v
	}
	if v, ok := argFloat(args, "wind_direction"); ok {
		cfg.WindDirection = v
	}
	if v, ok := argString(args, "airspace_condition"); ok {
		a, known := terrain.ParseAirspace(v)
		if !known {
			warnings = append(warnings, fmt.Sprintf("unknown airspace %q, using calm", v))
		}
		cfg.Airspace = a
	}

	s.sessions.SetDronePhysics(sessionID, cfg)

	status := "ok"
	if len(warnings) > 0 {
		status = "partial"
	}
	return ok(map[string]any{
		"status":         status,
		"physics_config": cfg,
		"warnings":       warnings,
	})
}

func (s *Service) updateMotorParams(sessionID string, args map[string]any) Envelope {
	jointID, present := argString(args, "joint_id")
	if !present || jointID == "" {
		return fail(missingParam("joint_id"))
	}

	params, known := s.sessions.Motor(sessionID, jointID)
	if !known {
		params = robot.DefaultMotorParams()
	}

	if v, ok := argFloat(args, "torque_limit"); ok {
		params.TorqueLimit = v
	}
	if v, ok := argFloat(args, "pid_p"); ok {
		params.PIDP = v
	}
	if v, ok := argFloat(args, "pid_i"); ok {
		params.PIDI = v
	}
	if v, ok := argFloat(args, "pid_d"); ok {
		params.PIDD = v
	}
	if v, ok := argFloat(args, "max_velocity"); ok {
		params.MaxVelocity = v
	}

	s.sessions.SetMotor(sessionID, jointID, params)

	return ok(map[string]any{
		"joint_id":     jointID,
		"motor_params": params,
	})
}

func (s *Service) runSimulation(ctx context.Context, sessionID string, args map[string]any) Envelope {
	duration := s.cfg.Duration
	if v, ok := argFloat(args, "duration"); ok && v > 0 {
		duration = v
	}

	robotType, _ := argString(args, "robot_type")
	if robotType == "" {
		robotType = "hexapod"
	}

	if isAerial(robotType) {
		return s.runFlight(ctx, sessionID, robotType, duration)
	}
	return s.runGround(ctx, sessionID, robotType, duration)
}

func (s *Service) runGround(ctx context.Context, sessionID, robotType string, duration float64) Envelope {
	if s.cfg.SampleRateHz <= 0 {
		return fail(executionError(errors.New("sample rate must be positive")))
	}

	physics := s.sessions.Physics(sessionID)
	motors := s.sessions.Motors(sessionID)
	src := s.runSource()

	started := s.now()
	run := &session.Run{
		RunID:     fmt.Sprintf("sim_%d", s.nextID()),
		SessionID: sessionID,
		RobotType: robotType,
		Status:    session.StatusRunning,
		StartedAt: started,
		DurationS: duration,
		Physics:   &physics,
		Motors:    motors,
	}

	run.Frames = telemetry.Generate(duration, physics, motors, s.cfg.SampleRateHz, src)
	m := metrics.Analyze(run.Frames)
	run.Metrics = &m
	run.Events = failure.Detect(run.Frames, physics, src)

	run.Status = session.StatusCompleted
	if failure.ShouldFail(run.Events) {
		run.Status = session.StatusFailed
	}
	run.CompletedAt = s.now()

	s.sessions.AppendRun(sessionID, run)
	warnings := s.archiveRun(ctx, run)

	return ok(map[string]any{
		"run_id":          run.RunID,
		"status":          string(run.Status),
		"frame_count":     len(run.Frames),
		"metrics":         m,
		"events":          run.Events,
		"recommendations": failure.Recommendations(run.Events, physics),
		"summary":         groundSummary(run, m),
		"warnings":        warnings,
	})
}

func (s *Service) runFlight(ctx context.Context, sessionID, robotType string, duration float64) Envelope {
	if s.cfg.DroneSampleRateHz <= 0 {
		return fail(executionError(errors.New("sample rate must be positive")))
	}

	physics := s.sessions.DronePhysics(sessionID)
	src := s.runSource()

	started := s.now()
	run := &session.Run{
		RunID:        fmt.Sprintf("flight_%d", s.nextID()),
		SessionID:    sessionID,
		RobotType:    robotType,
		Status:       session.StatusRunning,
		StartedAt:    started,
		DurationS:    duration,
		DronePhysics: &physics,
	}

	run.DroneFrames = telemetry.GenerateDrone(duration, physics, s.cfg.DroneSampleRateHz, src)
	m := metrics.AnalyzeDrone(run.DroneFrames)
	run.DroneMetrics = &m
	path := metrics.AnalyzeFlightPath(run.DroneFrames)
	run.FlightPath = &path
	run.Events = failure.DetectDrone(run.DroneFrames, physics, src)

	run.Status = session.StatusCompleted
	if failure.ShouldFail(run.Events) {
		run.Status = session.StatusFailed
	}
	run.CompletedAt = s.now()

	s.sessions.AppendRun(sessionID, run)
	warnings := s.archiveRun(ctx, run)

	return ok(map[string]any{
		"run_id":          run.RunID,
		"status":          string(run.Status),
		"frame_count":     len(run.DroneFrames),
		"metrics":         m,
		"flight_path":     path,
		"events":          run.Events,
		"recommendations": failure.DroneRecommendations(run.Events, physics),
		"summary":         flightSummary(run, m),
		"warnings":        warnings,
	})
}

// archiveRun persists the run if an archive is configured. Archive failures
// never fail the tool call; they surface as warnings.
func (s *Service) archiveRun(ctx context.Context, run *session.Run) []string {
	if s.archive == nil {
		return nil
	}
	if err := s.archive.SaveRun(ctx, run); err != nil {
		return []string{fmt.Sprintf("archiving run: %v", err)}
	}
	return nil
}

func groundSummary(run *session.Run, m metrics.Ground) string {
	return fmt.Sprintf("%s run %s: %d frames over %.0fs, stability %.1f, efficiency %.1f, symmetry %.2f, %d slip events, %d events",
		run.RobotType, run.Status, len(run.Frames), run.DurationS,
		m.StabilityScore, m.EfficiencyScore, m.GaitSymmetry, m.SlipEvents, len(run.Events))
}

func flightSummary(run *session.Run, m metrics.Drone) string {
	return fmt.Sprintf("%s flight %s: %d frames over %.0fs, hover accuracy %.0f%%, altitude stability %.1f, battery used %.1f%%, %d events",
		run.RobotType, run.Status, len(run.DroneFrames), run.DurationS,
		m.HoverAccuracy, m.AltitudeStability, m.BatteryUsedPct, len(run.Events))
}

// analyzeVideo is a mocked analysis path: it produces a canned assessment
// keyed off the referenced run without touching any real video pipeline.
func (s *Service) analyzeVideo(sessionID string, args map[string]any) Envelope {
	runID, _ := argString(args, "run_id")
	robotType, _ := argString(args, "robot_type")

	aerial := isAerial(robotType) || strings.HasPrefix(runID, "flight_")

	run := s.sessions.CurrentRun(sessionID)
	if runID != "" {
		if found := s.sessions.FindRun(sessionID, runID); found != nil {
			run = found
		}
	}

	observations := []string{
		"gait cadence is steady with no visible limb collision",
		"body pitch oscillation stays within the expected stance envelope",
		"foot placement tracks the commanded trajectory on all contact phases",
	}
	if aerial {
		observations = []string{
			"takeoff climb is smooth with symmetric rotor spool-up",
			"hover drift stays inside the position hold tolerance",
			"landing descent decelerates before touchdown",
		}
	}

	result := map[string]any{
		"analysis_type": "visual",
		"aerial":        aerial,
		"observations":  observations,
	}
	if run != nil {
		result["run_id"] = run.RunID
		result["status"] = string(run.Status)
		if len(run.Events) > 0 {
			result["observations"] = append(observations,
				fmt.Sprintf("%d telemetry events correlate with the footage", len(run.Events)))
		}
	}
	return ok(result)
}

func (s *Service) searchKnowledge(args map[string]any) Envelope {
	query, present := argString(args, "query")
	if !present || query == "" {
		return fail(missingParam("query"))
	}

	limit := 3
	if v, ok := argFloat(args, "limit"); ok && v > 0 {
		limit = int(v)
	}

	return ok(map[string]any{
		"query":   query,
		"results": searchKB(query, limit),
	})
}

func (s *Service) researchPlan(args map[string]any) Envelope {
	goal, present := argString(args, "goal")
	if !present || goal == "" {
		return fail(missingParam("goal"))
	}
	return ok(buildPlan(goal))
}

func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func argFloat(args map[string]any, key string) (float64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
