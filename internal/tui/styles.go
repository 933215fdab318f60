package tui

import "github.com/charmbracelet/lipgloss"

const (
	// KeyCtrlC is the key binding for cancellation
	KeyCtrlC = "ctrl+c"

	// maxRecentPaths is how many of the latest paths stay on screen
	maxRecentPaths = 10
)

const (
	accentColorCode  = "62"  // Blue
	dimColorCode     = "240" // Dark gray
	errorColorCode   = "196" // Red
	primaryColorCode = "205" // Pink/purple
	successColorCode = "42"  // Green
	warningColorCode = "226" // Yellow
)

// BoxStyle returns the style for the surrounding box
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accentColorCode)).
		Padding(1, 2) //nolint:mnd // Vertical and horizontal padding
}

// RenderDim renders text in the dimmed style
func RenderDim(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(dimColorCode)).Render(text)
}

// RenderError renders text in the error style
func RenderError(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(errorColorCode)).Bold(true).Render(text)
}

// RenderSuccess renders text in the success style
func RenderSuccess(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(successColorCode)).Render(text)
}

// RenderTitle renders text in the title style
func RenderTitle(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColorCode)).Bold(true).Render(text)
}

// RenderWarning renders text in the warning style
func RenderWarning(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(warningColorCode)).Render(text)
}
