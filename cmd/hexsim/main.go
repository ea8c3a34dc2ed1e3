package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/hexsim/internal/config"
	"github.com/san-kum/hexsim/internal/failure"
	"github.com/san-kum/hexsim/internal/orchestrator"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/session"
	"github.com/san-kum/hexsim/internal/storage"
	"github.com/san-kum/hexsim/internal/viz"
)

var (
	dataDir    string
	configFile string

	robotType string
	sessionID string
	duration  float64
	rate      float64
	seed      int64

	terrainType string
	friction    float64
	gravity     float64
	roughness   float64

	airspace  string
	windSpeed float64

	plotColumns []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hexsim",
		Short: "procedural robotics telemetry lab",
		Long:  "hexsim generates hexapod walking and quadcopter flight telemetry, scores it, injects failure events and archives the runs.",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hexsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and archive the result",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&robotType, "robot", "hexapod", "robot type (hexapod or drone/uav/quadcopter/aerial)")
	runCmd.Flags().StringVar(&sessionID, "session", "cli", "session id")
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "duration in seconds")
	runCmd.Flags().Float64Var(&rate, "rate", 10.0, "sample rate in Hz")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for time-based)")
	runCmd.Flags().StringVar(&terrainType, "terrain", "concrete", "ground terrain (sand, concrete, grass, gravel)")
	runCmd.Flags().Float64Var(&friction, "friction", robot.DefaultFriction, "friction coefficient")
	runCmd.Flags().Float64Var(&gravity, "gravity", robot.DefaultGravity, "gravity m/s^2")
	runCmd.Flags().Float64Var(&roughness, "roughness", robot.DefaultRoughness, "terrain roughness")
	runCmd.Flags().StringVar(&airspace, "airspace", "light_wind", "airspace condition (calm, light_wind, gusty, turbulent)")
	runCmd.Flags().Float64Var(&windSpeed, "wind", 2.0, "wind speed m/s")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot archived telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotColumns, "columns", nil, "columns to plot (default: first few)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and events as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	recommendCmd := &cobra.Command{
		Use:   "recommend [run_id]",
		Short: "print remediation suggestions for a run's events",
		Args:  cobra.ExactArgs(1),
		RunE:  recommendRun,
	}

	searchCmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "search the built-in knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE:  searchKnowledge,
	}

	planCmd := &cobra.Command{
		Use:   "plan [goal...]",
		Short: "build a research plan for a free-text goal",
		Args:  cobra.MinimumNArgs(1),
		RunE:  buildPlan,
	}

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay archived telemetry interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  liveReplay,
	}
	liveCmd.Flags().Float64Var(&rate, "rate", 10.0, "playback sample rate in Hz")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, recommendCmd, searchCmd, planCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("rate") {
		cfg.SampleRateHz = rate
		cfg.DroneSampleRateHz = rate
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func newService(cmd *cobra.Command) (*orchestrator.Service, *storage.Store, *session.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sessions := session.New(cfg.SessionTTL, 0, nil)
	archive := storage.New(cfg.DataDir)
	return orchestrator.New(cfg, sessions, archive, nil), archive, sessions, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	svc, archive, sessions, cfg, err := newService(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()
	defer sessions.Close()

	ctx := context.Background()

	physicsArgs := map[string]any{
		"robot_type": robotType,
	}
	if !isAerialType(robotType) {
		physicsArgs["gravity"] = gravity
		physicsArgs["friction_coefficient"] = friction
		physicsArgs["terrain_type"] = terrainType
		physicsArgs["terrain_roughness"] = roughness
	} else {
		physicsArgs["wind_speed"] = windSpeed
		physicsArgs["airspace_condition"] = airspace
	}

	env := svc.Execute(ctx, sessionID, "configure_physics", physicsArgs)
	if !env.Success {
		return env.Error
	}
	printWarnings(env.Result)

	env = svc.Execute(ctx, sessionID, "run_simulation", map[string]any{
		"robot_type": robotType,
		"duration":   cfg.Duration,
	})
	if !env.Success {
		return env.Error
	}

	res := env.Result.(map[string]any)
	fmt.Printf("run id: %v\n", res["run_id"])
	fmt.Printf("status: %v\n", res["status"])
	fmt.Printf("frames: %v\n", res["frame_count"])
	fmt.Printf("completed in %.1f ms\n\n", env.ExecutionTimeMS)
	fmt.Println(res["summary"])

	if events, ok := res["events"].([]failure.Event); ok && len(events) > 0 {
		fmt.Println("\nevents:")
		for _, e := range events {
			fmt.Printf("  [%s] %s at %.0f ms: %s\n", e.Severity, e.Type, e.TimestampMS, e.Message)
		}
	}
	if recs, ok := res["recommendations"].([]string); ok && len(recs) > 0 {
		fmt.Println("\nrecommendations:")
		for _, r := range recs {
			fmt.Printf("  - %s\n", r)
		}
	}
	printWarnings(env.Result)
	return nil
}

func isAerialType(rt string) bool {
	switch strings.ToLower(rt) {
	case "drone", "uav", "quadcopter", "aerial":
		return true
	}
	return false
}

func printWarnings(result any) {
	res, ok := result.(map[string]any)
	if !ok {
		return
	}
	warnings, ok := res["warnings"].([]string)
	if !ok {
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROBOT\tSESSION\tSTATUS\tDURATION\tFRAMES\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fs\t%d\t%s\n",
			run.RunID,
			run.RobotType,
			run.SessionID,
			run.Status,
			run.DurationS,
			run.FrameCount,
			humanize.Time(run.StartedAt),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()

	runID := args[0]
	meta, err := st.LoadRun(context.Background(), runID)
	if err != nil {
		return err
	}

	header, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.RunID)
	fmt.Printf("robot: %s\n", meta.RobotType)
	fmt.Printf("samples: %d\n\n", meta.FrameCount)

	return viz.PlotSeries(os.Stdout, header, series, plotColumns)
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()

	ctx := context.Background()
	runID := args[0]

	meta, err := st.LoadRun(ctx, runID)
	if err != nil {
		return err
	}
	events, err := st.LoadEvents(ctx, runID)
	if err != nil {
		return err
	}

	out := struct {
		*storage.RunMeta
		Events []failure.Event `json:"events"`
	}{meta, events}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func recommendRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()

	ctx := context.Background()
	runID := args[0]

	meta, err := st.LoadRun(ctx, runID)
	if err != nil {
		return err
	}
	events, err := st.LoadEvents(ctx, runID)
	if err != nil {
		return err
	}

	var recs []string
	if strings.HasPrefix(runID, "flight_") {
		physics := robot.DefaultDronePhysics()
		if meta.Physics != "" {
			if err := json.Unmarshal([]byte(meta.Physics), &physics); err != nil {
				return fmt.Errorf("parsing archived physics: %w", err)
			}
		}
		recs = failure.DroneRecommendations(events, physics)
	} else {
		physics := robot.DefaultPhysics()
		if meta.Physics != "" {
			if err := json.Unmarshal([]byte(meta.Physics), &physics); err != nil {
				return fmt.Errorf("parsing archived physics: %w", err)
			}
		}
		recs = failure.Recommendations(events, physics)
	}

	if len(recs) == 0 {
		fmt.Println("no recommendations, run looks healthy")
		return nil
	}
	for _, r := range recs {
		fmt.Printf("- %s\n", r)
	}
	return nil
}

func searchKnowledge(cmd *cobra.Command, args []string) error {
	svc, archive, sessions, _, err := newService(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()
	defer sessions.Close()

	env := svc.Execute(context.Background(), "cli", "search_knowledge", map[string]any{
		"query": strings.Join(args, " "),
	})
	if !env.Success {
		return env.Error
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(env.Result)
}

func buildPlan(cmd *cobra.Command, args []string) error {
	svc, archive, sessions, _, err := newService(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()
	defer sessions.Close()

	env := svc.Execute(context.Background(), "cli", "research_plan", map[string]any{
		"goal": strings.Join(args, " "),
	})
	if !env.Success {
		return env.Error
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(env.Result)
}

func liveReplay(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	defer st.Close()

	runID := args[0]
	header, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	return viz.RunReplay(runID, header, series, rate)
}
