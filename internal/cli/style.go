package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors: Dark is used on dark terminals, Light on light ones.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Dark: "#4ade80", Light: "#15803d"}
	ColorError   = lipgloss.AdaptiveColor{Dark: "#f87171", Light: "#b91c1c"}
	ColorWarning = lipgloss.AdaptiveColor{Dark: "#fbbf24", Light: "#b45309"}
	ColorMuted   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	ColorAccent  = lipgloss.AdaptiveColor{Dark: "#f472b6", Light: "#be185d"} // slide IDs, title boxes
	ColorURL     = lipgloss.AdaptiveColor{Dark: "#38bdf8", Light: "#0284c7"}
)

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleID      = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleURL     = lipgloss.NewStyle().Foreground(ColorURL).Underline(true)
	StyleBold    = lipgloss.NewStyle().Bold(true)

	styleTitleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 2).
			Bold(true)
	styleLabel = lipgloss.NewStyle().
			Align(lipgloss.Right).
			Foreground(ColorMuted)
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "→"
	IconCurrent = "▶"
)

func printStatus(w io.Writer, style lipgloss.Style, icon, format string, args []any) {
	fmt.Fprintf(w, "%s %s\n", style.Render(icon), fmt.Sprintf(format, args...))
}

// PrintSuccess prints a green checkmark line to stdout.
func PrintSuccess(format string, args ...any) {
	printStatus(os.Stdout, StyleSuccess, IconSuccess, format, args)
}

// PrintError prints a red cross line to stderr.
func PrintError(format string, args ...any) {
	printStatus(os.Stderr, StyleError, IconError, format, args)
}

// PrintWarning prints an amber line to stderr.
func PrintWarning(format string, args ...any) {
	printStatus(os.Stderr, StyleWarning, IconWarning, format, args)
}

// PrintInfo prints a muted arrow line to stdout.
func PrintInfo(format string, args ...any) {
	printStatus(os.Stdout, StyleMuted, IconInfo, format, args)
}

func RenderID(id string) string      { return StyleID.Render(id) }
func RenderURL(url string) string    { return StyleURL.Render(url) }
func RenderMuted(text string) string { return StyleMuted.Render(text) }
func RenderBold(text string) string  { return StyleBold.Render(text) }

// RenderCurrentMarker returns the gutter shown before a slide line: an arrow
// for the current slide, blanks otherwise.
func RenderCurrentMarker(current bool) string {
	if current {
		return StyleSuccess.Render(IconCurrent) + " "
	}
	return "  "
}

// TitleBox renders a title in a rounded accent box.
func TitleBox(title string) string {
	return styleTitleBox.Render(title)
}

// LabelValue formats a label-value pair with the label right-aligned to
// labelWidth.
func LabelValue(label, value string, labelWidth int) string {
	return fmt.Sprintf("%s %s", styleLabel.Width(labelWidth).Render(label+":"), value)
}
