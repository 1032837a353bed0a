// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Terminal styling for operator-facing messages

package console

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

var (
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

var disabled atomic.Bool

// SetColor enables or disables styling globally (--no-color).
func SetColor(enabled bool) {
	disabled.Store(!enabled)
}

func render(style lipgloss.Style, s string) string {
	if disabled.Load() {
		return s
	}
	return style.Render(s)
}

// FormatPath renders a filesystem path for display.
func FormatPath(path any) string {
	return render(pathStyle, fmt.Sprint(path))
}

// Highlight renders target names and suggested commands.
func Highlight(s string) string {
	return render(highlightStyle, s)
}

// Kind renders an artifact kind.
func Kind(s string) string {
	return render(kindStyle, s)
}

// Success renders a positive outcome word.
func Success(s string) string {
	return render(successStyle, s)
}

// Failure renders a negative outcome word.
func Failure(s string) string {
	return render(failureStyle, s)
}
