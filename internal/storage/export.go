package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/san-kum/hexsim/internal/telemetry"
)

// WriteCSV writes ground telemetry as CSV: one row per frame, joint position
// columns in sorted joint order.
func WriteCSV(w io.Writer, frames []telemetry.Frame) error {
	cw := csv.NewWriter(w)

	var joints []string
	if len(frames) > 0 {
		for id := range frames[0].JointPositions {
			joints = append(joints, id)
		}
		sort.Strings(joints)
	}

	header := []string{"time_ms"}
	header = append(header, joints...)
	header = append(header, "pitch", "roll", "yaw", "voltage", "current", "temperature")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, 0, len(header))
	for _, f := range frames {
		row = row[:0]
		row = append(row, formatFloat(f.TimestampMS))
		for _, id := range joints {
			row = append(row, formatFloat(f.JointPositions[id]))
		}
		row = append(row,
			formatFloat(f.IMU.Pitch), formatFloat(f.IMU.Roll), formatFloat(f.IMU.Yaw),
			formatFloat(f.Power.Voltage), formatFloat(f.Power.Current), formatFloat(f.Power.Temperature))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDroneCSV writes flight telemetry as CSV, one row per frame.
func WriteDroneCSV(w io.Writer, frames []telemetry.DroneFrame) error {
	cw := csv.NewWriter(w)

	header := []string{
		"time_ms", "altitude", "velocity_x", "velocity_y", "velocity_z",
		"pitch", "roll", "yaw", "battery_remaining", "gps_quality", "signal_strength",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, f := range frames {
		row := []string{
			formatFloat(f.TimestampMS),
			formatFloat(f.Position.Altitude),
			formatFloat(f.VelocityX), formatFloat(f.VelocityY), formatFloat(f.VelocityZ),
			formatFloat(f.Attitude.Pitch), formatFloat(f.Attitude.Roll), formatFloat(f.Attitude.Yaw),
			formatFloat(f.Battery.Remaining),
			formatFloat(f.GPSQuality), formatFloat(f.SignalStrength),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadSeries parses a telemetry CSV back into named columns. The first
// column is the time axis.
func ReadSeries(r io.Reader) ([]string, [][]float64, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	series := make([][]float64, len(header))
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row: %w", err)
		}
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parsing column %s: %w", header[i], err)
			}
			series[i] = append(series[i], v)
		}
	}
	return header, series, nil
}

// LoadSeries reads the archived telemetry columns for a run.
func (s *Store) LoadSeries(runID string) ([]string, [][]float64, error) {
	f, err := os.Open(s.TelemetryPath(runID))
	if err != nil {
		return nil, nil, fmt.Errorf("opening telemetry for %s: %w", runID, err)
	}
	defer f.Close()
	return ReadSeries(f)
}
