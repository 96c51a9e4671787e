package stats

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series.
type Series struct {
	Name   string
	Values []float64
}

const (
	minCurveWidth       = 10
	labelWidth          = 8
	rangeWidth          = 22
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
}

// CurveWidthFor computes a sparkline width that fits within the total available width.
func CurveWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minCurveWidth
	}
	return max(minCurveWidth, totalWidth-labelWidth-rangeWidth)
}

func renderSeries(s Series, width int, useColor bool, idx int) string {
	values := resample(s.Values, width)
	spark := Sparkline(values)
	if useColor {
		spark = colorPalette[idx%len(colorPalette)] + spark + colorReset
	}
	label := runewidth.FillRight(runewidth.Truncate(s.Name, labelWidth-1, ""), labelWidth)
	rng := ""
	if len(s.Values) > 0 {
		lo, hi := minMax(s.Values)
		rng = fmt.Sprintf(" min=%.0f max=%.0f", lo, hi)
	}
	return label + spark + rng
}

// resample squeezes values into at most width points by averaging buckets.
func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
