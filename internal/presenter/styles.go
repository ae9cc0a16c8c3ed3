package presenter

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = "62"  // Indigo, matches the editor page
	colorMuted  = "241" // Gray
	colorText   = "252" // Light gray
)

// Styles holds the presenter's lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Body    lipgloss.Style
	Counter lipgloss.Style
	Hint    lipgloss.Style
	Frame   lipgloss.Style
}

// DefaultStyles returns the default presenter styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			MarginBottom(1),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)),
		Counter: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorAccent)).
			Padding(0, 1),
		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted)),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(1, 4),
	}
}
