package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/hexsim/internal/noise"
	"github.com/san-kum/hexsim/internal/robot"
	"github.com/san-kum/hexsim/internal/telemetry"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	src := noise.NewSource(42)
	frames := telemetry.Generate(1, robot.DefaultPhysics(), robot.DefaultMotors(), 10, src)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, frames); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	header, series, err := ReadSeries(&buf)
	if err != nil {
		t.Fatalf("ReadSeries: %v", err)
	}

	// time_ms + 18 joints + pitch/roll/yaw + voltage/current/temperature
	if want := 1 + 18 + 3 + 3; len(header) != want {
		t.Fatalf("header has %d columns, want %d", len(header), want)
	}
	if header[0] != "time_ms" {
		t.Errorf("first column = %q, want time_ms", header[0])
	}
	if header[1] != "leg0_coxa" {
		t.Errorf("second column = %q, want leg0_coxa (sorted joint order)", header[1])
	}

	for i, col := range series {
		if len(col) != len(frames) {
			t.Fatalf("column %s has %d rows, want %d", header[i], len(col), len(frames))
		}
	}
	for i, f := range frames {
		if series[0][i] != f.TimestampMS {
			t.Errorf("row %d time = %v, want %v", i, series[0][i], f.TimestampMS)
		}
	}
}

func TestWriteDroneCSVColumns(t *testing.T) {
	src := noise.NewSource(7)
	frames := telemetry.GenerateDrone(2, robot.DefaultDronePhysics(), 10, src)

	var buf bytes.Buffer
	if err := WriteDroneCSV(&buf, frames); err != nil {
		t.Fatalf("WriteDroneCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(frames)+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(frames)+1)
	}
	if !strings.HasPrefix(lines[0], "time_ms,altitude,") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestReadSeriesRejectsBadCell(t *testing.T) {
	in := strings.NewReader("time_ms,altitude\n0,not-a-number\n")
	if _, _, err := ReadSeries(in); err == nil {
		t.Fatal("expected parse error")
	}
}
