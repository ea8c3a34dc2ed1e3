// Package viz renders archived telemetry in the terminal: static ascii
// charts for the plot command and an interactive replay view for live.
package viz

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
)

const (
	plotWidth  = 80
	plotHeight = 10
	maxPlots   = 6
)

// PlotSeries writes one ascii chart per column. The first column is treated
// as the time axis and skipped; output is capped at maxPlots charts unless
// only is non-empty, in which case exactly the named columns are plotted.
func PlotSeries(w io.Writer, header []string, series [][]float64, only []string) error {
	if len(header) < 2 || len(series) != len(header) {
		return fmt.Errorf("nothing to plot")
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}

	plotted := 0
	for i := 1; i < len(header); i++ {
		if len(only) > 0 && !wanted[header[i]] {
			continue
		}
		if len(only) == 0 && plotted >= maxPlots {
			break
		}
		if len(series[i]) == 0 {
			continue
		}

		graph := asciigraph.Plot(series[i],
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(header[i]),
		)
		if _, err := fmt.Fprintln(w, graph); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("no matching columns to plot")
	}
	return nil
}
