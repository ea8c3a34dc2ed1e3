package orchestrator

import "strings"

// PlanPhase is one stage of a research plan.
type PlanPhase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Iterations  int    `json:"iterations"`
}

// ParamSweep describes a parameter range to explore across iterations.
type ParamSweep struct {
	Parameter string  `json:"parameter"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Steps     int     `json:"steps"`
}

// ResearchPlan is a structured multi-iteration experiment outline. The plan
// is advisory: it does not execute simulations itself.
type ResearchPlan struct {
	Goal        string       `json:"goal"`
	Template    string       `json:"template"`
	Phases      []PlanPhase  `json:"phases"`
	Sweeps      []ParamSweep `json:"sweeps"`
	Checkpoints []string     `json:"checkpoints"`
}

// buildPlan selects a plan template by keyword-matching the free-text goal.
func buildPlan(goal string) ResearchPlan {
	g := strings.ToLower(goal)

	// Environment keywords take priority: a goal like "walk on sand" is
	// about the terrain, not the gait.
	switch {
	case containsAny(g, "terrain", "slip", "friction", "sand", "gravel"):
		return ResearchPlan{
			Goal:     goal,
			Template: "terrain_robustness",
			Phases: []PlanPhase{
				{Name: "terrain_survey", Description: "run identical gait across sand, grass, gravel and concrete", Iterations: 4},
				{Name: "friction_sweep", Description: "sweep friction coefficient on the worst terrain", Iterations: 6},
				{Name: "stress", Description: "maximum roughness runs to find the failure boundary", Iterations: 3},
			},
			Sweeps: []ParamSweep{
				{Parameter: "friction_coefficient", Min: 0.2, Max: 1.0, Steps: 5},
				{Parameter: "terrain_roughness", Min: 0.0, Max: 1.0, Steps: 5},
			},
			Checkpoints: []string{
				"slip events under 5 per run on sand",
				"no rollover events at roughness 0.8",
			},
		}
	case containsAny(g, "gait", "walk", "symmetry", "leg"):
		return ResearchPlan{
			Goal:     goal,
			Template: "gait_optimization",
			Phases: []PlanPhase{
				{Name: "baseline", Description: "run default gait on concrete to establish reference metrics", Iterations: 3},
				{Name: "gain_sweep", Description: "sweep pid_p and pid_d, tracking gait symmetry and stability", Iterations: 12},
				{Name: "validation", Description: "re-run best gains across all terrains", Iterations: 4},
			},
			Sweeps: []ParamSweep{
				{Parameter: "pid_p", Min: 4, Max: 16, Steps: 4},
				{Parameter: "pid_d", Min: 0.5, Max: 2.5, Steps: 3},
			},
			Checkpoints: []string{
				"gait symmetry above 0.9 on concrete",
				"stability score above 80 on all terrains",
			},
		}
	case containsAny(g, "battery", "endurance", "flight", "hover"):
		return ResearchPlan{
			Goal:     goal,
			Template: "flight_endurance",
			Phases: []PlanPhase{
				{Name: "baseline_flight", Description: "standard profile in calm air for reference drain", Iterations: 3},
				{Name: "duration_sweep", Description: "extend flight time until reserve is breached", Iterations: 6},
				{Name: "wind_margin", Description: "repeat best duration across airspace conditions", Iterations: 4},
			},
			Sweeps: []ParamSweep{
				{Parameter: "duration", Min: 30, Max: 180, Steps: 6},
			},
			Checkpoints: []string{
				"battery remaining above 20% at landing",
				"hover accuracy above 85% in light wind",
			},
		}
	case containsAny(g, "wind", "gust", "turbulen"):
		return ResearchPlan{
			Goal:     goal,
			Template: "wind_tolerance",
			Phases: []PlanPhase{
				{Name: "calm_reference", Description: "calm-air flights for attitude baseline", Iterations: 2},
				{Name: "condition_ladder", Description: "step through light_wind, gusty, turbulent", Iterations: 9},
				{Name: "envelope", Description: "raise wind speed until a critical event appears", Iterations: 4},
			},
			Sweeps: []ParamSweep{
				{Parameter: "wind_speed", Min: 0, Max: 15, Steps: 6},
			},
			Checkpoints: []string{
				"wind compensation events under 10 in gusty air",
				"no flyaway events below 10 m/s wind",
			},
		}
	}

	return ResearchPlan{
		Goal:     goal,
		Template: "general_characterization",
		Phases: []PlanPhase{
			{Name: "ground_baseline", Description: "default hexapod runs on each terrain", Iterations: 4},
			{Name: "flight_baseline", Description: "default flight in each airspace condition", Iterations: 4},
			{Name: "report", Description: "aggregate metrics and list dominant failure modes", Iterations: 1},
		},
		Sweeps: []ParamSweep{
			{Parameter: "duration", Min: 10, Max: 60, Steps: 3},
		},
		Checkpoints: []string{
			"metrics recorded for every environment",
			"failure catalog coverage documented",
		},
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
