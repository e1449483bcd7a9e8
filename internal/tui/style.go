package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0b1a12")).
			Background(lipgloss.Color("#7ce38b")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7ce38b")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#d1342f", Dark: "#ff6b66"}).
			Render

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#56FF4E")).
			Render

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB454")).
			Render
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)
