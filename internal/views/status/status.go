package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mergington/activities-tui/internal/theme"
)

const title = "Mergington High School Activities"

// Model holds the header bar state.
type Model struct {
	User       string
	Activities int
	Width      int
}

// New creates a header bar model.
func New() Model {
	return Model{}
}

// View renders the header bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	titleStr := theme.StyleHeader.Render(title)

	var userStr string
	if m.User != "" {
		userStr = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("● Logged in as " + m.User)
	} else {
		userStr = theme.StyleDimmed.Render("○ Not logged in  [L] teacher login")
	}

	counts := theme.StyleDimmed.Render(fmt.Sprintf("%d activities", m.Activities))

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := titleStr + sep + userStr + sep + counts

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
