package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/hexsim/internal/config"
	"github.com/san-kum/hexsim/internal/session"
)

func newTestService() (*Service, *session.Store) {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	sessions := session.New(30*time.Minute, 0, nil)
	return New(cfg, sessions, nil, nil), sessions
}

func result(t *testing.T, env Envelope) map[string]any {
	t.Helper()
	if !env.Success {
		t.Fatalf("tool call failed: %v", env.Error)
	}
	m, ok := env.Result.(map[string]any)
	if !ok {
		t.Fatalf("result is %T, want map", env.Result)
	}
	return m
}

func TestConfigurePhysicsClampsFriction(t *testing.T) {
	svc, sessions := newTestService()

	env := svc.Execute(context.Background(), "s1", "configure_physics", map[string]any{
		"friction_coefficient": 1.5,
	})
	res := result(t, env)

	if res["status"] != "partial" {
		t.Errorf("status = %v, want partial", res["status"])
	}
	warnings := res["warnings"].([]string)
	if len(warnings) == 0 {
		t.Error("expected a clamp warning")
	}
	if got := sessions.Physics("s1").FrictionCoefficient; got != 1.0 {
		t.Errorf("friction = %v, want 1.0", got)
	}
}

func TestConfigurePhysicsUnknownTerrain(t *testing.T) {
	svc, sessions := newTestService()

	env := svc.Execute(context.Background(), "s1", "configure_physics", map[string]any{
		"terrain_type": "lava",
	})
	res := result(t, env)

	if res["status"] != "partial" {
		t.Errorf("status = %v, want partial", res["status"])
	}
	if got := sessions.Physics("s1").TerrainType; string(got) != "concrete" {
		t.Errorf("terrain = %v, want concrete", got)
	}
}

func TestConfigurePhysicsAerialRouting(t *testing.T) {
	svc, sessions := newTestService()

	env := svc.Execute(context.Background(), "s1", "configure_physics", map[string]any{
		"robot_type":         "drone",
		"wind_speed":         7.5,
		"airspace_condition": "gusty",
	})
	result(t, env)

	cfg := sessions.DronePhysics("s1")
	if cfg.WindSpeed != 7.5 {
		t.Errorf("wind speed = %v, want 7.5", cfg.WindSpeed)
	}
	if string(cfg.Airspace) != "gusty" {
		t.Errorf("airspace = %v, want gusty", cfg.Airspace)
	}
}

func TestUpdateMotorParamsPartialMerge(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	result(t, svc.Execute(ctx, "s1", "update_motor_params", map[string]any{
		"joint_id": "leg0_femur",
		"pid_p":    10.0,
	}))
	result(t, svc.Execute(ctx, "s1", "update_motor_params", map[string]any{
		"joint_id": "leg0_femur",
		"pid_p":    14.0,
	}))

	params, ok := sessions.Motor("s1", "leg0_femur")
	if !ok {
		t.Fatal("joint missing after update")
	}
	if params.PIDP != 14.0 {
		t.Errorf("pid_p = %v, want 14.0 (last write wins)", params.PIDP)
	}
	if params.TorqueLimit != 12.0 {
		t.Errorf("torque_limit = %v, want default 12.0 preserved", params.TorqueLimit)
	}
}

func TestUpdateMotorParamsRequiresJoint(t *testing.T) {
	svc, _ := newTestService()

	env := svc.Execute(context.Background(), "s1", "update_motor_params", map[string]any{"pid_p": 9.0})
	if env.Success {
		t.Fatal("expected failure without joint_id")
	}
	if env.Error.Code != CodeMissingParam {
		t.Errorf("code = %v, want %v", env.Error.Code, CodeMissingParam)
	}
	if !env.Error.Recoverable {
		t.Error("missing param should be recoverable")
	}
}

func TestExecuteValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name      string
		sessionID string
		tool      string
		want      Code
	}{
		{"no session", "", "run_simulation", CodeMissingSession},
		{"no tool", "s1", "", CodeMissingTool},
		{"unknown tool", "s1", "teleport_robot", CodeUnknownTool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := svc.Execute(ctx, tt.sessionID, tt.tool, nil)
			if env.Success {
				t.Fatal("expected failure")
			}
			if env.Error.Code != tt.want {
				t.Errorf("code = %v, want %v", env.Error.Code, tt.want)
			}
		})
	}
}

func TestRunSimulationGround(t *testing.T) {
	svc, sessions := newTestService()

	env := svc.Execute(context.Background(), "s1", "run_simulation", map[string]any{
		"duration": 3.0,
	})
	res := result(t, env)

	if res["frame_count"] != 30 {
		t.Errorf("frame_count = %v, want 30", res["frame_count"])
	}
	runID := res["run_id"].(string)
	if !strings.HasPrefix(runID, "sim_") {
		t.Errorf("run id %q, want sim_ prefix", runID)
	}

	run := sessions.CurrentRun("s1")
	if run == nil {
		t.Fatal("run not recorded in session history")
	}
	if run.RunID != runID {
		t.Errorf("current run = %q, want %q", run.RunID, runID)
	}
	if run.Metrics == nil {
		t.Error("ground run missing metrics")
	}
	if env.ExecutionTimeMS < 0 {
		t.Errorf("execution time = %v, want >= 0", env.ExecutionTimeMS)
	}
}

func TestRunSimulationAerialRouting(t *testing.T) {
	svc, sessions := newTestService()

	for _, rt := range []string{"drone", "uav", "quadcopter", "aerial"} {
		env := svc.Execute(context.Background(), "s1", "run_simulation", map[string]any{
			"robot_type": rt,
			"duration":   2.0,
		})
		res := result(t, env)

		runID := res["run_id"].(string)
		if !strings.HasPrefix(runID, "flight_") {
			t.Errorf("robot_type %q: run id %q, want flight_ prefix", rt, runID)
		}
	}

	run := sessions.CurrentRun("s1")
	if run.DroneMetrics == nil {
		t.Error("flight run missing drone metrics")
	}
	if run.FlightPath == nil {
		t.Error("flight run missing flight path")
	}
}

func TestRunStatusMatchesEvents(t *testing.T) {
	svc, sessions := newTestService()

	result(t, svc.Execute(context.Background(), "s1", "run_simulation", map[string]any{
		"duration": 5.0,
	}))

	run := sessions.CurrentRun("s1")
	critical := false
	for _, e := range run.Events {
		if e.Severity == "critical" {
			critical = true
		}
	}
	if critical && run.Status != session.StatusFailed {
		t.Errorf("status = %v with critical event, want failed", run.Status)
	}
	if !critical && run.Status != session.StatusCompleted {
		t.Errorf("status = %v without critical event, want completed", run.Status)
	}
}

func TestAnalyzeVideoAerialSignals(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res := result(t, svc.Execute(ctx, "s1", "analyze_video", map[string]any{
		"run_id": "flight_12345",
	}))
	if res["aerial"] != true {
		t.Error("flight_ run id should route to aerial analysis")
	}

	res = result(t, svc.Execute(ctx, "s1", "analyze_video", map[string]any{
		"robot_type": "hexapod",
	}))
	if res["aerial"] != false {
		t.Error("hexapod should route to ground analysis")
	}
}

func TestSearchKnowledge(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	env := svc.Execute(ctx, "s1", "search_knowledge", nil)
	if env.Success || env.Error.Code != CodeMissingParam {
		t.Fatal("expected MISSING_PARAM without query")
	}

	res := result(t, svc.Execute(ctx, "s1", "search_knowledge", map[string]any{
		"query": "slip on sand terrain",
	}))
	hits := res["results"].([]kbResult)
	if len(hits) == 0 {
		t.Fatal("expected hits for terrain query")
	}
	if hits[0].Topic != "terrain" {
		t.Errorf("top hit topic = %q, want terrain", hits[0].Topic)
	}
}

func TestResearchPlanTemplates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	env := svc.Execute(ctx, "s1", "research_plan", nil)
	if env.Success || env.Error.Code != CodeMissingParam {
		t.Fatal("expected MISSING_PARAM without goal")
	}

	tests := []struct {
		goal string
		want string
	}{
		{"optimize the tripod gait symmetry", "gait_optimization"},
		{"how far can it walk on sand", "terrain_robustness"},
		{"reduce slip while walking", "terrain_robustness"},
		{"maximize hover endurance", "flight_endurance"},
		{"survive turbulent gusts", "wind_tolerance"},
		{"tell me everything", "general_characterization"},
	}
	for _, tt := range tests {
		env := svc.Execute(ctx, "s1", "research_plan", map[string]any{"goal": tt.goal})
		plan, ok := env.Result.(ResearchPlan)
		if !ok {
			t.Fatalf("result is %T, want ResearchPlan", env.Result)
		}
		if plan.Template != tt.want {
			t.Errorf("goal %q: template = %q, want %q", tt.goal, plan.Template, tt.want)
		}
		if len(plan.Phases) == 0 {
			t.Errorf("goal %q: plan has no phases", tt.goal)
		}
	}
}
