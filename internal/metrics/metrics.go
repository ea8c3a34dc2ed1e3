// Package metrics reduces telemetry frame sequences to scalar quality
// scores. Analyzers are single-pass, pure, and defined on empty input
// (returning zero-valued records).
package metrics

import (
	"math"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/telemetry"
)

// Penalty weights for the ground stability score.
const (
	pitchWeight = 30.0
	rollWeight  = 20.0
	slipWeight  = 50.0

	// Reference pitch/roll deviations that cost the full weight.
	pitchRefDeg = 30.0
	rollRefDeg  = 20.0

	// Nominal walking power for the efficiency score.
	idealPowerW = 25.0
)

// Ground are the scalar aggregates of a hexapod run. Derived data: always
// recomputed from the frame sequence, never mutated independently.
type Ground struct {
	StabilityScore    float64 `json:"stability_score"`
	EfficiencyScore   float64 `json:"efficiency_score"`
	GaitSymmetry      float64 `json:"gait_symmetry"`
	MaxPitchDeviation float64 `json:"max_pitch_deviation"`
	MaxRollDeviation  float64 `json:"max_roll_deviation"`
	SlipEvents        int     `json:"slip_events"`
	AvgPowerW         float64 `json:"avg_power_w"`
	EnergyWh          float64 `json:"energy_wh"`
}

// Analyze reduces a ground telemetry sequence to its metrics record.
func Analyze(frames []telemetry.Frame) Ground {
	if len(frames) == 0 {
		return Ground{}
	}

	var maxPitch, maxRoll float64
	var slipEvents, contactSamples int
	var stanceEven, stanceOdd int
	var powerSum float64

	for _, f := range frames {
		maxPitch = math.Max(maxPitch, math.Abs(f.IMU.Pitch))
		maxRoll = math.Max(maxRoll, math.Abs(f.IMU.Roll))
		powerSum += f.Power.Voltage * f.Power.Current

		for _, c := range f.Contacts {
			contactSamples++
			if c.SlipDetected {
				slipEvents++
			}
			if c.InContact {
				if c.LegID%2 == 0 {
					stanceEven++
				} else {
					stanceOdd++
				}
			}
		}
	}

	slipRatio := 0.0
	if contactSamples > 0 {
		slipRatio = float64(slipEvents) / float64(contactSamples)
	}

	pitchPenalty := math.Min(pitchWeight, maxPitch/pitchRefDeg*pitchWeight)
	rollPenalty := math.Min(rollWeight, maxRoll/rollRefDeg*rollWeight)
	slipPenalty := slipRatio * slipWeight
	stability := noise.Clamp(100-(pitchPenalty+rollPenalty+slipPenalty), 0, 100)

	avgPower := powerSum / float64(len(frames))
	efficiency := 0.0
	if avgPower > 0 {
		efficiency = noise.Clamp(100*idealPowerW/avgPower, 0, 100)
	}

	symmetry := 0.0
	if stanceEven > 0 || stanceOdd > 0 {
		lo, hi := float64(stanceEven), float64(stanceOdd)
		if lo > hi {
			lo, hi = hi, lo
		}
		symmetry = lo / hi
	}

	durationS := 0.0
	if len(frames) > 1 {
		spacing := frames[1].TimestampMS - frames[0].TimestampMS
		durationS = (frames[len(frames)-1].TimestampMS - frames[0].TimestampMS + spacing) / 1000
	}

	return Ground{
		StabilityScore:    noise.Round(stability, 1),
		EfficiencyScore:   noise.Round(efficiency, 1),
		GaitSymmetry:      noise.Round(symmetry, 3),
		MaxPitchDeviation: noise.Round(maxPitch, 2),
		MaxRollDeviation:  noise.Round(maxRoll, 2),
		SlipEvents:        slipEvents,
		AvgPowerW:         noise.Round(avgPower, 1),
		EnergyWh:          noise.Round(avgPower*durationS/3600, 3),
	}
}
