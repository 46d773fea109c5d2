package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#89b4fa")
	colorText   = lipgloss.Color("#cdd6f4")
	colorMuted  = lipgloss.Color("#7f849c")
	colorOK     = lipgloss.Color("#a6e3a1")
	colorError  = lipgloss.Color("#f38ba8")
	colorMantle = lipgloss.Color("#181825")
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerStyle = lipgloss.NewStyle().Background(colorMantle).Foreground(colorText)

	entryStyle    = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	tableStyle     = lipgloss.NewStyle().Foreground(colorText)
	statusOKStyle  = lipgloss.NewStyle().Foreground(colorOK)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError)

	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
	bodyStyle     = lipgloss.NewStyle().Foreground(colorText).PaddingLeft(2)
)

// helpLine renders key/description pairs like "esc back  q quit".
func helpLine(pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if out != "" {
			out += "  "
		}
		out += keyStyle.Render(pairs[i]) + " " + helpDescStyle.Render(pairs[i+1])
	}
	return out
}
