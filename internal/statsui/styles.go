package statsui

import "github.com/charmbracelet/lipgloss"

var (
	crustBorder = lipgloss.RoundedBorder()

	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF4E0")).
			Bold(true).
			Padding(0, 1).
			Border(crustBorder, true).
			BorderForeground(lipgloss.Color("#D9822B"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A89F91")).
				Padding(0, 1).
				Border(crustBorder, true).
				BorderForeground(lipgloss.Color("#5A4E44"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A7064"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5533D"))

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(crustBorder, true).
			BorderForeground(lipgloss.Color("#5A4E44"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A89F91"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2C14E")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C9BFB0"))
)
