package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pepperoni/internal/model"
)

const (
	fieldDifficulty = iota
	fieldSince
	fieldLast
	fieldWindow
)

const dateLayout = "2006-01-02"

// filterForm edits the stats filters in place.
type filterForm struct {
	active bool
	inputs []textinput.Model
	index  int
	err    string
}

func newFilterForm() filterForm {
	prompts := []string{"Difficulty: ", "Since (YYYY-MM-DD): ", "Last: ", "Curve window: "}
	inputs := make([]textinput.Model, len(prompts))
	for i, prompt := range prompts {
		input := textinput.New()
		input.Prompt = prompt
		input.Cursor.SetMode(cursor.CursorBlink)
		inputs[i] = input
	}
	return filterForm{inputs: inputs}
}

func (f *filterForm) open(cfg model.StatsConfig) tea.Cmd {
	f.active = true
	f.err = ""
	f.inputs[fieldDifficulty].SetValue(cfg.Difficulty)
	f.inputs[fieldSince].SetValue("")
	if cfg.Since != nil {
		f.inputs[fieldSince].SetValue(cfg.Since.Format(dateLayout))
	}
	f.inputs[fieldLast].SetValue("")
	if cfg.Last > 0 {
		f.inputs[fieldLast].SetValue(strconv.Itoa(cfg.Last))
	}
	f.inputs[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	return f.focus(0)
}

func (f *filterForm) focus(idx int) tea.Cmd {
	count := len(f.inputs)
	f.index = (idx + count) % count
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.index {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *filterForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

// update handles a key while the form is open. applied is true when the form closed with a valid config.
func (f *filterForm) update(msg tea.KeyMsg) (cfg model.StatsConfig, applied bool, cmd tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		f.active = false
		f.err = ""
		return cfg, false, nil
	case tea.KeyEnter:
		parsed, err := f.parse()
		if err != nil {
			f.err = err.Error()
			return cfg, false, nil
		}
		f.active = false
		f.err = ""
		return parsed, true, nil
	case tea.KeyTab:
		return cfg, false, f.focus(f.index + 1)
	case tea.KeyShiftTab:
		return cfg, false, f.focus(f.index - 1)
	}
	f.inputs[f.index], cmd = f.inputs[f.index].Update(msg)
	return cfg, false, cmd
}

func (f *filterForm) parse() (model.StatsConfig, error) {
	value := func(field int) string {
		return strings.TrimSpace(f.inputs[field].Value())
	}
	cfg := model.StatsConfig{
		Difficulty:  strings.ToLower(value(fieldDifficulty)),
		CurveWindow: 1,
	}
	if raw := value(fieldSince); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if raw := value(fieldLast); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	if raw := value(fieldWindow); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return model.StatsConfig{}, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func (f *filterForm) view() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}
