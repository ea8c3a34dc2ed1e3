package orchestrator

import (
	"sort"
	"strings"
)

// kbEntry is one article of the static knowledge base.
type kbEntry struct {
	Title    string   `json:"title"`
	Topic    string   `json:"topic"`
	Keywords []string `json:"-"`
	Content  string   `json:"content"`
}

var knowledgeBase = []kbEntry{
	{
		Title:    "Tripod gait fundamentals",
		Topic:    "locomotion",
		Keywords: []string{"gait", "tripod", "walk", "legs", "phase"},
		Content:  "A tripod gait keeps two alternating sets of three legs on the ground. Stability depends on keeping the stance set's support polygon under the center of mass; raise gait frequency only after symmetry exceeds 0.9.",
	},
	{
		Title:    "Terrain traction tuning",
		Topic:    "terrain",
		Keywords: []string{"terrain", "slip", "friction", "sand", "gravel", "traction"},
		Content:  "Slip probability rises sharply on sand and gravel. Raising the friction coefficient or widening foot contact area reduces slip events; on loose terrain also lower the gait amplitude.",
	},
	{
		Title:    "Joint PID tuning for walking robots",
		Topic:    "control",
		Keywords: []string{"pid", "tuning", "oscillation", "overshoot", "torque"},
		Content:  "Start with pid_p near 8 and pid_d near 1.2 for leg joints. Oscillation indicates excess proportional gain; sluggish tracking indicates too much damping. Torque limits below 8 Nm starve the femur joints on climbs.",
	},
	{
		Title:    "Thermal management under load",
		Topic:    "power",
		Keywords: []string{"temperature", "overheat", "thermal", "current", "power"},
		Content:  "Motor temperature climbs monotonically during continuous walking and plateaus near 55 C. Above 50 C expect derating; schedule rest phases or reduce torque limits when sustained runs exceed a minute.",
	},
	{
		Title:    "Hover control in wind",
		Topic:    "flight",
		Keywords: []string{"hover", "wind", "gust", "drone", "turbulence", "attitude"},
		Content:  "Gusty and turbulent airspace multiplies attitude excursions. Hover accuracy below 80% in light wind usually means the position controller, not the wind, is at fault. Delay flights when gust probability exceeds 0.2.",
	},
	{
		Title:    "Battery planning for multirotors",
		Topic:    "flight",
		Keywords: []string{"battery", "endurance", "voltage", "drain", "reserve"},
		Content:  "Plan missions against a 0.08 %/s theoretical drain. Voltage sag below 14.5 V under load signals an aging pack. Keep a 20% reserve for the landing phase; climbs triple the drain rate.",
	},
	{
		Title:    "GPS quality and signal margins",
		Topic:    "flight",
		Keywords: []string{"gps", "signal", "rssi", "link", "navigation"},
		Content:  "GPS quality degrades near the ground and in turbulent air. Below 40 the position solution is unusable for waypoint navigation. RC link budgets should keep RSSI above -85 dBm at mission radius.",
	},
}

// kbResult is one scored search hit.
type kbResult struct {
	Title   string  `json:"title"`
	Topic   string  `json:"topic"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// searchKB scores entries by keyword and substring match against the query
// and returns the top hits, best first.
func searchKB(query string, limit int) []kbResult {
	terms := strings.Fields(strings.ToLower(query))
	results := make([]kbResult, 0, len(knowledgeBase))

	for _, e := range knowledgeBase {
		score := 0.0
		content := strings.ToLower(e.Content)
		title := strings.ToLower(e.Title)

		for _, term := range terms {
			for _, kw := range e.Keywords {
				if term == kw || strings.Contains(kw, term) || strings.Contains(term, kw) {
					score += 3
					break
				}
			}
			if strings.Contains(title, term) {
				score += 2
			}
			if strings.Contains(content, term) {
				score++
			}
		}

		if score > 0 {
			results = append(results, kbResult{Title: e.Title, Topic: e.Topic, Content: e.Content, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
