package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/pepperoni/internal/game"
)

func TestBoardCellRoundTrip(t *testing.T) {
	b := newBoard(game.DefaultTarget())
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			gotCol, gotRow := b.targetToCell(b.cellToTarget(col, row))
			if gotCol != col || gotRow != row {
				t.Fatalf("cell (%d,%d) mapped back to (%d,%d)", col, row, gotCol, gotRow)
			}
		}
	}
}

func TestBoardTargetToCellClamps(t *testing.T) {
	b := newBoard(game.DefaultTarget())
	col, row := b.targetToCell(game.Point{X: -1000, Y: 5000})
	if col != 0 || row != b.rows-1 {
		t.Fatalf("expected clamped cell (0,%d), got (%d,%d)", b.rows-1, col, row)
	}
}

func TestBoardCentreIsHole(t *testing.T) {
	b := newBoard(game.DefaultTarget())
	col, row := b.targetToCell(b.target.Center)
	p := b.cellToTarget(col, row)
	if game.IsValidPlacement(p, b.target.Center, b.target.Radius, b.target.InnerRadius) {
		t.Fatalf("expected centre cell %v to be inside the inner hole", p)
	}
}

func TestBuildBoardCellsMarksPlacementsAndCursor(t *testing.T) {
	b := newBoard(game.DefaultTarget())
	p := game.PolarPoint(b.target.Center, 30, 100)
	col, row := b.targetToCell(p)
	placements := []game.Placement{{ID: "pepperoni-0", Point: p, Sector: game.Sector1}}

	cells := buildBoardCells(b, placements, col, row, false)
	if len(cells) != b.rows || len(cells[0]) != b.cols {
		t.Fatalf("unexpected board size %dx%d", len(cells), len(cells[0]))
	}
	if cells[row][col].s != pepperoniStyle.Render(string(glyphPepperoni)) {
		t.Fatalf("expected pepperoni glyph at (%d,%d)", col, row)
	}

	cells = buildBoardCells(b, placements, col, row, true)
	if cells[row][col].s != cursorStyle.Render(string(glyphCursorHit)) {
		t.Fatalf("expected cursor-on-pepperoni glyph at (%d,%d)", col, row)
	}
	if cells[0][0].s != emptyStyle.Render(string(glyphEmpty)) {
		t.Fatalf("expected corner cell to be empty")
	}
}

func TestRenderBoardPadsLines(t *testing.T) {
	rows := [][]styledCell{{{s: "a", width: 1}, {s: "b", width: 1}}, {{s: "c", width: 1}}}
	out := renderBoard(rows, 2)
	if out != "  ab\n  c" {
		t.Fatalf("unexpected board render %q", out)
	}
	if !strings.HasPrefix(renderBoard(rows, -1), "ab") {
		t.Fatalf("expected negative padding to be ignored")
	}
}
