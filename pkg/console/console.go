// Package console formats findings, tables and status messages for terminal
// output.
//
// Every renderer takes a color flag. With color off the output is plain text
// and byte-for-byte stable, which is what tests, pipes and CI logs get. With
// color on, lipgloss styles are applied on top of the same layout.
package console

import (
	"os"

	"github.com/agentkit-dev/agentkit/pkg/tty"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF6B6B"})
	warningStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#B8610B", Dark: "#FFB86C"})
	successStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#27AE60", Dark: "#50FA7B"})
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2980B9", Dark: "#8BE9FD"})
	codeStyle     = lipgloss.NewStyle().Bold(true)
	locationStyle = lipgloss.NewStyle().Faint(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

// ColorEnabled reports whether stdout output should be styled: stdout is a
// terminal and NO_COLOR is unset.
func ColorEnabled() bool {
	return os.Getenv("NO_COLOR") == "" && tty.IsStdoutTerminal()
}

// StderrColorEnabled is ColorEnabled for stderr.
func StderrColorEnabled() bool {
	return os.Getenv("NO_COLOR") == "" && tty.IsStderrTerminal()
}

// FormatErrorMessage formats a message for stderr with an error marker.
func FormatErrorMessage(message string, color bool) string {
	return styled(errorStyle, "✗ ", color) + message
}

// FormatSuccessMessage formats a message with a success marker.
func FormatSuccessMessage(message string, color bool) string {
	return styled(successStyle, "✓ ", color) + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string, color bool) string {
	return styled(infoStyle, "ℹ ", color) + message
}

func styled(style lipgloss.Style, s string, color bool) string {
	if !color || s == "" {
		return s
	}
	return style.Render(s)
}
