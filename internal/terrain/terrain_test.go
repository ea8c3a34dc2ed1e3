package terrain

import "testing"

func TestLookupKnownTerrains(t *testing.T) {
	tests := []struct {
		terrain Type
		want    Params
	}{
		{Sand, Params{0.15, 0.20, 0.70, 0.02}},
		{Concrete, Params{0.02, 0.05, 0.95, 0.00}},
		{Grass, Params{0.08, 0.15, 0.80, 0.01}},
		{Gravel, Params{0.12, 0.18, 0.75, 0.015}},
	}

	for _, tt := range tests {
		t.Run(string(tt.terrain), func(t *testing.T) {
			if got := Lookup(tt.terrain); got != tt.want {
				t.Errorf("Lookup(%s) = %+v, want %+v", tt.terrain, got, tt.want)
			}
		})
	}
}

func TestLookupUnknownFallsBackToConcrete(t *testing.T) {
	got := Lookup(Type("lava"))
	if got.SlipProbability != 0.02 {
		t.Errorf("unknown terrain slip probability = %v, want concrete's 0.02", got.SlipProbability)
	}
	if got != Lookup(Concrete) {
		t.Errorf("unknown terrain = %+v, want concrete row", got)
	}
}

func TestParseType(t *testing.T) {
	if typ, ok := ParseType("sand"); !ok || typ != Sand {
		t.Errorf("ParseType(sand) = %v, %v", typ, ok)
	}
	if typ, ok := ParseType("mud"); ok || typ != Concrete {
		t.Errorf("ParseType(mud) = %v, %v, want concrete fallback", typ, ok)
	}
}

func TestLookupAirspace(t *testing.T) {
	tests := []struct {
		airspace Airspace
		want     AirspaceParams
	}{
		{Calm, AirspaceParams{0.10, 0.02, 0.05}},
		{LightWind, AirspaceParams{0.25, 0.08, 0.15}},
		{Gusty, AirspaceParams{0.50, 0.20, 0.35}},
		{Turbulent, AirspaceParams{0.80, 0.40, 0.60}},
	}

	for _, tt := range tests {
		t.Run(string(tt.airspace), func(t *testing.T) {
			if got := LookupAirspace(tt.airspace); got != tt.want {
				t.Errorf("LookupAirspace(%s) = %+v, want %+v", tt.airspace, got, tt.want)
			}
		})
	}

	if got := LookupAirspace(Airspace("hurricane")); got != LookupAirspace(Calm) {
		t.Errorf("unknown airspace = %+v, want calm row", got)
	}
}
