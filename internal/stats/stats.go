// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/pepperoni/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary holds aggregate figures over a set of sessions.
type Summary struct {
	Sessions   int
	BestScore  int
	AvgScore   float64
	AvgBalance float64
	AvgFill    float64
}

// Summarize computes a Summary. Fill is placed/quota averaged over sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}
	var scoreSum, balanceSum, fillSum float64
	best := sessions[0].FinalScore
	for _, s := range sessions {
		scoreSum += float64(s.FinalScore)
		balanceSum += float64(s.Balance)
		fillSum += FillRatio(s.Placed, s.Quota)
		if s.FinalScore > best {
			best = s.FinalScore
		}
	}
	count := float64(len(sessions))
	return Summary{
		Sessions:   len(sessions),
		BestScore:  best,
		AvgScore:   scoreSum / count,
		AvgBalance: balanceSum / count,
		AvgFill:    fillSum / count,
	}
}

// FillRatio returns placed/quota clamped to [0,1].
func FillRatio(placed, quota int) float64 {
	if quota <= 0 || placed <= 0 {
		return 0
	}
	if placed >= quota {
		return 1
	}
	return float64(placed) / float64(quota)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Best score: %d", sum.BestScore),
		fmt.Sprintf("Avg score: %.1f", sum.AvgScore),
		fmt.Sprintf("Avg balance: %.1f%%", sum.AvgBalance),
		fmt.Sprintf("Avg fill: %.1f%%", sum.AvgFill*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints score and balance sparklines sized to the terminal.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, false)
}

// RenderCurvesWithSize prints score and balance sparklines sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int, forceColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	scores := make([]float64, len(sessions))
	balances := make([]float64, len(sessions))
	for i, s := range sessions {
		scores[i] = float64(s.FinalScore)
		balances[i] = float64(s.Balance)
	}
	width := totalWidth
	if width <= 0 {
		width = terminalWidth()
	}
	width = CurveWidthFor(width)
	useColor := shouldUseColor(w, forceColor)
	series := []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "Balance", Values: MovingAverage(balances, window)},
	}
	if _, err := fmt.Fprintf(w, "Curves (moving average, window %d)\n", window); err != nil {
		return err
	}
	for i, s := range series {
		line := renderSeries(s, width, useColor, i)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderDifficultyTable prints per-difficulty aggregates.
func RenderDifficultyTable(w io.Writer, aggs []model.DifficultyAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No difficulty stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Difficulty"); err != nil {
		return err
	}
	headers := []string{"Difficulty", "Sessions", "Best", "Avg Score", "Avg Balance", "Avg Placed"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, DifficultyRow(agg))
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// DifficultyRow formats one aggregate as table cells.
func DifficultyRow(agg model.DifficultyAggregate) []string {
	avg := func(sum int) float64 {
		if agg.Sessions == 0 {
			return 0
		}
		return float64(sum) / float64(agg.Sessions)
	}
	return []string{
		agg.Difficulty,
		fmt.Sprintf("%d", agg.Sessions),
		fmt.Sprintf("%d", agg.BestScore),
		fmt.Sprintf("%.1f", avg(agg.ScoreSum)),
		fmt.Sprintf("%.1f%%", avg(agg.BalanceSum)),
		fmt.Sprintf("%.1f", avg(agg.PlacedSum)),
	}
}
