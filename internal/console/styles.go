package console

import "github.com/charmbracelet/lipgloss"

const (
	dimColorCode     = "240" // Dark gray
	errorColorCode   = "196" // Red
	successColorCode = "42"  // Green
	warningColorCode = "226" // Yellow
)

func dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(dimColorCode))
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(errorColorCode)).Bold(true)
}

func successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(successColorCode))
}

func warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(warningColorCode))
}
