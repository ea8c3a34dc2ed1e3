package viz

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeriesSelectsColumns(t *testing.T) {
	header := []string{"time_ms", "altitude", "pitch"}
	series := [][]float64{
		{0, 100, 200},
		{0, 5, 10},
		{1, -1, 2},
	}

	var buf bytes.Buffer
	if err := PlotSeries(&buf, header, series, []string{"pitch"}); err != nil {
		t.Fatalf("PlotSeries: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "pitch") {
		t.Error("output missing pitch caption")
	}
	if strings.Contains(out, "altitude") {
		t.Error("altitude plotted despite column filter")
	}
}

func TestPlotSeriesRejectsEmpty(t *testing.T) {
	if err := PlotSeries(&bytes.Buffer{}, []string{"time_ms"}, [][]float64{{0}}, nil); err == nil {
		t.Fatal("expected error with no data columns")
	}
	if err := PlotSeries(&bytes.Buffer{}, []string{"time_ms", "x"}, [][]float64{{0}, {1}}, []string{"y"}); err == nil {
		t.Fatal("expected error when filter matches nothing")
	}
}
