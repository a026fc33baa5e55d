package confirm

import "github.com/charmbracelet/lipgloss"

// Colors used in the prompt.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Styles holds the styles for the prompt.
type Styles struct {
	Dialog lipgloss.Style
	Title  lipgloss.Style
	Text   lipgloss.Style
	Muted  lipgloss.Style
	Key    lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
		Text: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
	}
}
