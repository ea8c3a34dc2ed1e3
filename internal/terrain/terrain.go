// Package terrain holds the static environment coefficient tables used by
// the telemetry generators and the failure injector.
package terrain

// Type identifies a ground surface.
type Type string

const (
	Sand     Type = "sand"
	Concrete Type = "concrete"
	Grass    Type = "grass"
	Gravel   Type = "gravel"
)

// Params are the environment-dependent coefficients for a ground surface.
type Params struct {
	SlipProbability  float64
	FrictionVariance float64
	ImpactDamping    float64
	Sinkage          float64
}

var terrainTable = map[Type]Params{
	Sand:     {SlipProbability: 0.15, FrictionVariance: 0.20, ImpactDamping: 0.70, Sinkage: 0.02},
	Concrete: {SlipProbability: 0.02, FrictionVariance: 0.05, ImpactDamping: 0.95, Sinkage: 0.00},
	Grass:    {SlipProbability: 0.08, FrictionVariance: 0.15, ImpactDamping: 0.80, Sinkage: 0.01},
	Gravel:   {SlipProbability: 0.12, FrictionVariance: 0.18, ImpactDamping: 0.75, Sinkage: 0.015},
}

// Lookup returns the parameter row for t. Unknown terrain falls back to
// concrete.
func Lookup(t Type) Params {
	if p, ok := terrainTable[t]; ok {
		return p
	}
	return terrainTable[Concrete]
}

// ParseType normalizes a terrain string. The second return reports whether
// the input named a known terrain; unknown values default to concrete.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	if _, ok := terrainTable[t]; ok {
		return t, true
	}
	return Concrete, false
}

// Types lists the known terrains in a stable order.
func Types() []Type {
	return []Type{Sand, Concrete, Grass, Gravel}
}
