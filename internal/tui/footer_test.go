package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/pepperoni/internal/game"
	"github.com/verte-zerg/pepperoni/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	m, err := NewModel(model.Config{Difficulty: "easy"}, nil, game.DefaultProfileTable())
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.session.Start()
	m.session.AttemptPlacement(game.PolarPoint(m.board.target.Center, 30, 100))
	m.session.AttemptPlacement(game.PolarPoint(m.board.target.Center, 150, 100))
	m.session.AttemptPlacement(game.PolarPoint(m.board.target.Center, 270, 100))
	m.hasLast = true
	m.lastScore = 412
	m.hasBest = true
	m.bestScore = 1337

	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"05:00", "easy", "Placed 3/15", "Sectors 1/1/1", "Balance 100%", "Score 0", "Progress 20%", "Tray 12", "Last 412", "Best 1337"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterOmitsMissingHistory(t *testing.T) {
	m, err := NewModel(model.Config{Difficulty: "hard"}, nil, game.DefaultProfileTable())
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	out := m.renderFooter()
	if !containsAll(out, []string{"03:00", "hard", "Placed 0/25"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "Last") || strings.Contains(out, "Best") {
		t.Fatalf("expected no history segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
