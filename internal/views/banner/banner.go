// Package banner renders the transient outcome message.
package banner

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mergington/activities-tui/internal/theme"
)

// View renders text in the color of kind ("success", "error" or "info").
// An empty text renders nothing.
func View(text, kind string, width int) string {
	if text == "" {
		return ""
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.KindColor(kind)).
		Padding(0, 1)
	if width > 0 {
		style = style.MaxWidth(width)
	}
	return style.Render(glyph(kind) + " " + text)
}

func glyph(kind string) string {
	switch kind {
	case "success":
		return "✓"
	case "error":
		return "✗"
	default:
		return "●"
	}
}
