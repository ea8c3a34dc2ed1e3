package terrain

// Airspace identifies a flight environment condition.
type Airspace string

const (
	Calm      Airspace = "calm"
	LightWind Airspace = "light_wind"
	Gusty     Airspace = "gusty"
	Turbulent Airspace = "turbulent"
)

// AirspaceParams are the wind coefficients for a flight condition.
type AirspaceParams struct {
	TurbulenceIntensity float64
	GustProbability     float64
	PositionVariance    float64
}

var airspaceTable = map[Airspace]AirspaceParams{
	Calm:      {TurbulenceIntensity: 0.10, GustProbability: 0.02, PositionVariance: 0.05},
	LightWind: {TurbulenceIntensity: 0.25, GustProbability: 0.08, PositionVariance: 0.15},
	Gusty:     {TurbulenceIntensity: 0.50, GustProbability: 0.20, PositionVariance: 0.35},
	Turbulent: {TurbulenceIntensity: 0.80, GustProbability: 0.40, PositionVariance: 0.60},
}

// LookupAirspace returns the parameter row for a. Unknown conditions fall
// back to calm.
func LookupAirspace(a Airspace) AirspaceParams {
	if p, ok := airspaceTable[a]; ok {
		return p
	}
	return airspaceTable[Calm]
}

// ParseAirspace normalizes an airspace string, defaulting unknown values to
// calm.
func ParseAirspace(s string) (Airspace, bool) {
	a := Airspace(s)
	if _, ok := airspaceTable[a]; ok {
		return a, true
	}
	return Calm, false
}
