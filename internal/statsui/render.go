package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pepperoni/internal/model"
	"github.com/verte-zerg/pepperoni/internal/stats"
)

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	parts := []string{
		renderSummaryCards(report.Sessions, width),
		renderCurves(report.Sessions, window, width),
	}
	if achievements := renderAchievements(report.Achievements); achievements != "" {
		parts = append(parts, achievements)
	}
	return strings.TrimRight(strings.Join(parts, "\n\n"), "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	sum := stats.Summarize(sessions)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", sum.Sessions)),
		metricCard("Best Score", fmt.Sprintf("%d", sum.BestScore)),
		metricCard("Avg Score", fmt.Sprintf("%.1f", sum.AvgScore)),
		metricCard("Avg Balance", fmt.Sprintf("%.1f%%", sum.AvgBalance)),
		metricCard("Avg Fill", fmt.Sprintf("%.1f%%", sum.AvgFill*100)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(sessions []model.SessionAggregate, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, window, width, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderAchievements(counts []stats.AchievementCount) string {
	if len(counts) == 0 {
		return ""
	}
	lines := []string{"Achievements"}
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("  %-8s %d sessions", c.Name, c.Sessions))
	}
	return strings.Join(lines, "\n")
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Score", Width: 7},
		{Title: "Placed", Width: 7},
		{Title: "Balance", Width: 8},
		{Title: "Achievements", Width: 20},
	}
}

// historyRows lists sessions newest first.
func historyRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Difficulty,
			fmt.Sprintf("%d", s.FinalScore),
			fmt.Sprintf("%d/%d", s.Placed, s.Quota),
			fmt.Sprintf("%d%%", s.Balance),
			strings.Join(s.Achievements, ","),
		})
	}
	return rows
}

func difficultyColumns() []table.Column {
	return []table.Column{
		{Title: "Difficulty", Width: 10},
		{Title: "Sessions", Width: 8},
		{Title: "Best", Width: 7},
		{Title: "Avg Score", Width: 9},
		{Title: "Avg Balance", Width: 11},
		{Title: "Avg Placed", Width: 10},
	}
}

func difficultyRows(aggs []model.DifficultyAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, table.Row(stats.DifficultyRow(agg)))
	}
	return rows
}

func newTable(columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
