// Package noise provides the random source and small math helpers shared by
// the telemetry generators and the failure injector. All stochastic code in
// the module draws from an explicit *Source so runs can be reproduced from a
// seed.
package noise

import (
	"math"
	"math/rand"
	"time"
)

// Source wraps a seeded PRNG. Seed 0 selects a time-based seed.
type Source struct {
	rng *rand.Rand
}

func NewSource(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform sample in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// IntN returns a uniform sample in [0, n).
func (s *Source) IntN(n int) int {
	return s.rng.Intn(n)
}

// Gaussian returns a normally distributed sample via Box-Muller.
func (s *Source) Gaussian(mean, stddev float64) float64 {
	u1 := s.rng.Float64()
	for u1 == 0 {
		u1 = s.rng.Float64()
	}
	u2 := s.rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round truncates v to a fixed number of decimal places. Telemetry output
// fields are rounded to unit-appropriate precision before leaving the
// generators.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
