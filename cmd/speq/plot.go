package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
)

// trace is one path drawn with a marker rune. Later traces draw over
// earlier ones.
type trace struct {
	path spectrum.Path
	mark rune
}

// plot draws traces mapped onto bounds as a text grid, one row per unit
// of height. top and bottom label the first and last rows.
func plot(w io.Writer, bounds spectrum.Bounds, top, bottom string, traces ...trace) error {
	cols, rows := bounds.Columns(), max(int(bounds.Height), 1)

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}

	for _, t := range traces {
		for _, p := range t.path {
			c := int(p.X - bounds.X)
			if c < 0 || c >= cols || math.IsNaN(p.Y) {
				continue
			}

			r := int(math.Round((p.Y - bounds.Y) / bounds.Height * float64(rows-1)))
			grid[min(max(r, 0), rows-1)][c] = t.mark
		}
	}

	label := max(len(top), len(bottom))
	for r, row := range grid {
		name := ""
		switch r {
		case 0:
			name = top
		case rows - 1:
			name = bottom
		}

		if _, err := fmt.Fprintf(w, "%*s |%s\n", label, name, string(row)); err != nil {
			return err
		}
	}

	axis := fmt.Sprintf("%-*s%s", max(cols-6, 6), "20 Hz", "20 kHz")
	_, err := fmt.Fprintf(w, "%*s +%s\n%*s  %s\n", label, "", strings.Repeat("-", cols), label, "", axis)

	return err
}
