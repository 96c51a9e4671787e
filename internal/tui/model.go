// Package tui provides the Bubble Tea pizza board.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pepperoni/internal/game"
	"github.com/verte-zerg/pepperoni/internal/model"
	"github.com/verte-zerg/pepperoni/internal/store"
)

const helpLine = "arrows move · space place · x remove · c check · a auto · t refill · r reset · 1-3 difficulty · q quit"

type tickMsg struct {
	token game.TimerToken
}

// Model implements the Bubble Tea game UI.
type Model struct {
	config   model.Config
	store    *store.Store
	profiles game.ProfileTable
	session  *game.Session
	events   *game.Recorder
	board    board

	width  int
	height int

	cursorCol int
	cursorRow int

	startedAt time.Time
	feedback  string

	lastScore int
	hasLast   bool
	bestScore int
	hasBest   bool
}

var (
	emptyStyle     = lipgloss.NewStyle()
	pepperoniStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0392B")).Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	lowTimeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	feedbackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// NewModel constructs the game UI. A nil store disables history.
func NewModel(cfg model.Config, st *store.Store, profiles game.ProfileTable) (*Model, error) {
	events := &game.Recorder{}
	session, err := game.NewSession(profiles, cfg.Difficulty, game.DefaultTarget(), events)
	if err != nil {
		return nil, err
	}
	m := &Model{
		config:   cfg,
		store:    st,
		profiles: profiles,
		session:  session,
		events:   events,
		board:    newBoard(session.Target()),
	}
	m.cursorCol, m.cursorRow = m.board.targetToCell(game.PolarPoint(session.Target().Center, 90, session.Target().Radius*0.6))
	m.loadFooterStats()
	return m, nil
}

// Session exposes the underlying game session.
func (m *Model) Session() *game.Session {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg.token)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case " ", "enter":
		cmd = m.placeAtCursor()
	case "x", "backspace", "delete":
		m.removeAtCursor()
	case "c":
		m.session.CheckDistribution()
	case "a":
		cmd = m.ensureStarted()
		m.session.AutoComplete()
	case "t":
		m.session.RefillTray()
	case "r":
		m.session.ResetSession()
		m.startedAt = time.Time{}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.selectDifficulty(int(msg.String()[0] - '1'))
	default:
		return m, nil
	}
	m.drainEvents()
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	left, top := m.boardOrigin()
	col, row := msg.X-left, msg.Y-top
	if !m.board.inside(col, row) {
		return nil
	}
	m.cursorCol, m.cursorRow = col, row
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseButtonLeft:
		cmd = m.placeAtCursor()
	case tea.MouseButtonRight:
		m.removeAtCursor()
	default:
		return nil
	}
	m.drainEvents()
	return cmd
}

func (m *Model) handleTick(token game.TimerToken) tea.Cmd {
	res, ok := m.session.TickFor(token)
	if !ok {
		return nil
	}
	m.drainEvents()
	if res.Expired {
		m.finishSession()
		return nil
	}
	return tickCmd(token)
}

func tickCmd(token game.TimerToken) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{token: token}
	})
}

// ensureStarted starts an idle session and arms its tick stream.
func (m *Model) ensureStarted() tea.Cmd {
	if m.session.State() != game.StateIdle {
		return nil
	}
	out := m.session.Start()
	if !out.OK {
		return nil
	}
	m.startedAt = time.Now()
	return tickCmd(out.Token)
}

func (m *Model) placeAtCursor() tea.Cmd {
	cmd := m.ensureStarted()
	m.session.AttemptPlacement(m.board.cellToTarget(m.cursorCol, m.cursorRow))
	return cmd
}

func (m *Model) removeAtCursor() {
	occupied := occupancy(m.board, m.session.Placements())
	id, ok := occupied[cellKey{col: m.cursorCol, row: m.cursorRow}]
	if !ok {
		m.feedback = "no pepperoni under the cursor"
		return
	}
	m.session.RemovePlacement(id)
}

func (m *Model) moveCursor(dc, dr int) {
	m.cursorCol = clampInt(m.cursorCol+dc, 0, m.board.cols-1)
	m.cursorRow = clampInt(m.cursorRow+dr, 0, m.board.rows-1)
}

func (m *Model) selectDifficulty(idx int) {
	names := m.profiles.Names()
	if idx < 0 || idx >= len(names) {
		return
	}
	if err := m.session.SetDifficulty(names[idx]); err != nil {
		m.feedback = err.Error()
		return
	}
	m.config.Difficulty = names[idx]
	m.startedAt = time.Time{}
	m.loadFooterStats()
}

func (m *Model) drainEvents() {
	events := m.events.Drain()
	if len(events) == 0 {
		return
	}
	msgs := make([]string, 0, 2)
	for _, e := range events {
		if e.Kind == game.EventPlaced {
			// The board shows placements.
			continue
		}
		msgs = append(msgs, e.Message())
	}
	if len(msgs) == 0 {
		m.feedback = ""
		return
	}
	if len(msgs) > 2 {
		msgs = msgs[len(msgs)-2:]
	}
	m.feedback = strings.Join(msgs, " · ")
}

// View implements tea.Model.
func (m *Model) View() string {
	showCursor := m.session.State() != game.StateEnded
	cells := buildBoardCells(m.board, m.session.Placements(), m.cursorCol, m.cursorRow, showCursor)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{renderBoard(cells, 0), m.renderFeedback(0), footer}, "\n")
	}
	left, top := m.boardOrigin()
	lines := make([]string, 0, m.height)
	for i := 0; i < top; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, renderBoard(cells, left))
	lines = append(lines, "")
	lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderFeedback(m.width)))
	lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, helpStyle.Render(truncate(helpLine, m.width))))
	body := strings.Join(lines, "\n")
	bodyHeight := m.height - 1
	if used := lipgloss.Height(body); used < bodyHeight {
		body += strings.Repeat("\n", bodyHeight-used)
	}
	if m.height < 3 {
		return body
	}
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// boardOrigin returns the screen cell of the board's top-left corner.
func (m *Model) boardOrigin() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 0, 0
	}
	contentHeight := m.board.rows + 3
	left := max(0, (m.width-m.board.cols)/2)
	top := max(0, (m.height-1-contentHeight)/2)
	return left, top
}

func (m *Model) renderFeedback(width int) string {
	text := m.feedback
	if text == "" {
		switch m.session.State() {
		case game.StateIdle:
			text = "place a pepperoni to start"
		case game.StateEnded:
			text = fmt.Sprintf("final score %d · press r to play again", m.session.FinalScore())
		}
	}
	return feedbackStyle.Render(truncate(text, width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func (m *Model) renderFooter() string {
	s := m.session
	profile := s.Profile()
	clock := game.FormatClock(s.Remaining())
	if s.State() == game.StateActive && s.Remaining() <= game.LowTimeThreshold {
		clock = lowTimeStyle.Render(clock)
	} else {
		clock = footerStyle.Render(clock)
	}
	counts := s.Counts()
	progress := 0
	if profile.Quota > 0 {
		progress = s.PlacedCount() * 100 / profile.Quota
	}
	segments := []string{
		profile.Name,
		fmt.Sprintf("Placed %d/%d", s.PlacedCount(), profile.Quota),
		fmt.Sprintf("Sectors %d/%d/%d", counts[0], counts[1], counts[2]),
		fmt.Sprintf("Balance %d%%", s.BalanceScore()),
		fmt.Sprintf("Score %d", s.Score()),
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Tray %d", len(s.Tray())),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d", m.lastScore))
	}
	if m.hasBest {
		segments = append(segments, fmt.Sprintf("Best %d", m.bestScore))
	}
	return clock + footerStyle.Render("  "+strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	m.hasLast, m.hasBest = false, false
	if m.store == nil {
		return
	}
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Difficulty: m.config.Difficulty, Last: 1})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	if len(sessions) > 0 {
		m.lastScore = sessions[len(sessions)-1].FinalScore
		m.hasLast = true
	}
	best, ok, err := m.store.BestScore(ctx, m.config.Difficulty)
	if err != nil {
		logErrf("failed to load best score: %v\n", err)
		return
	}
	m.bestScore, m.hasBest = best, ok
}

func (m *Model) finishSession() {
	s := m.session
	final := s.FinalScore()
	m.lastScore, m.hasLast = final, true
	if !m.hasBest || final > m.bestScore {
		m.bestScore, m.hasBest = final, true
	}
	if !m.config.Record || m.store == nil {
		return
	}
	endedAt := time.Now()
	startedAt := m.startedAt
	if startedAt.IsZero() {
		startedAt = endedAt.Add(-time.Duration(s.Profile().Duration) * time.Second)
	}
	rec := model.NewSessionRecord(s, startedAt, endedAt)
	if _, err := m.store.InsertSession(context.Background(), rec); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
