package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pepperoni/internal/game"
)

const (
	defaultBoardCols = 44
	defaultBoardRows = 22
	boardMargin      = 1.05
)

const (
	glyphCheese    = ':'
	glyphPepperoni = 'O'
	glyphCursor    = '+'
	glyphCursorHit = '@'
	glyphEmpty     = ' '
)

// board maps terminal cells onto target coordinates. Cells are twice as tall as they are wide.
type board struct {
	cols   int
	rows   int
	target game.Target
}

func newBoard(target game.Target) board {
	return board{cols: defaultBoardCols, rows: defaultBoardRows, target: target}
}

func (b board) span() float64 {
	return b.target.Radius * boardMargin
}

func (b board) cellSize() (float64, float64) {
	span := b.span()
	return 2 * span / float64(b.cols), 2 * span / float64(b.rows)
}

// cellToTarget returns the target point at the centre of a cell.
func (b board) cellToTarget(col, row int) game.Point {
	w, h := b.cellSize()
	span := b.span()
	return game.Point{
		X: b.target.Center.X - span + (float64(col)+0.5)*w,
		Y: b.target.Center.Y - span + (float64(row)+0.5)*h,
	}
}

// targetToCell returns the cell containing p, clamped to the board.
func (b board) targetToCell(p game.Point) (int, int) {
	w, h := b.cellSize()
	span := b.span()
	col := int(math.Floor((p.X - (b.target.Center.X - span)) / w))
	row := int(math.Floor((p.Y - (b.target.Center.Y - span)) / h))
	return clampInt(col, 0, b.cols-1), clampInt(row, 0, b.rows-1)
}

func (b board) inside(col, row int) bool {
	return col >= 0 && col < b.cols && row >= 0 && row < b.rows
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

type cellKey struct {
	col int
	row int
}

type styledCell struct {
	s     string
	width int
}

func occupancy(b board, placements []game.Placement) map[cellKey]game.TokenID {
	out := make(map[cellKey]game.TokenID, len(placements))
	for _, p := range placements {
		col, row := b.targetToCell(p.Point)
		out[cellKey{col: col, row: row}] = p.ID
	}
	return out
}

func buildBoardCells(b board, placements []game.Placement, cursorCol, cursorRow int, showCursor bool) [][]styledCell {
	occupied := occupancy(b, placements)
	t := b.target
	rows := make([][]styledCell, b.rows)
	for row := 0; row < b.rows; row++ {
		line := make([]styledCell, 0, b.cols)
		for col := 0; col < b.cols; col++ {
			p := b.cellToTarget(col, row)
			glyph := glyphEmpty
			style := emptyStyle
			if game.IsValidPlacement(p, t.Center, t.Radius, t.InnerRadius) {
				glyph = glyphCheese
				style = sectorStyles[game.ClassifySector(p, t.Center)]
			}
			_, hit := occupied[cellKey{col: col, row: row}]
			if hit {
				glyph = glyphPepperoni
				style = pepperoniStyle
			}
			if showCursor && col == cursorCol && row == cursorRow {
				glyph = glyphCursor
				if hit {
					glyph = glyphCursorHit
				}
				style = cursorStyle
			}
			line = append(line, styledCell{
				s:     style.Render(string(glyph)),
				width: runewidth.RuneWidth(glyph),
			})
		}
		rows[row] = line
	}
	return rows
}

func renderCells(cells []styledCell) string {
	var b strings.Builder
	for _, item := range cells {
		b.WriteString(item.s)
	}
	return b.String()
}

func renderBoard(rows [][]styledCell, left int) string {
	pad := strings.Repeat(" ", max(0, left))
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = pad + renderCells(row)
	}
	return strings.Join(lines, "\n")
}

var sectorStyles = map[game.Sector]lipgloss.Style{
	game.Sector1: lipgloss.NewStyle().Foreground(lipgloss.Color("#E8C468")),
	game.Sector2: lipgloss.NewStyle().Foreground(lipgloss.Color("#D9A441")),
	game.Sector3: lipgloss.NewStyle().Foreground(lipgloss.Color("#C7872E")),
}
