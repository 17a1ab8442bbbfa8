// Package theme provides the Lip Gloss color palette and reusable styles
// for the activities TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Message colors.
var (
	ColorSuccess = lipgloss.Color("#16a34a")
	ColorError   = lipgloss.Color("#dc2626")
	ColorInfo    = lipgloss.Color("#2563eb")
)

// Capacity colors.
var (
	ColorCapacityOpen = lipgloss.Color("#22c55e") // under half full
	ColorCapacityBusy = lipgloss.Color("#d97706") // half full or more
	ColorCapacityFull = lipgloss.Color("#dc2626") // no spots left
)

// UI chrome colors.
var (
	ColorBorder   = lipgloss.Color("#4b5563")
	ColorDimmed   = lipgloss.Color("#6b7280")
	ColorBright   = lipgloss.Color("#f9fafb")
	ColorSelected = lipgloss.Color("#a855f7")
	ColorDefault  = lipgloss.Color("#9ca3af")
)

// KindColor returns the color for a message kind ("success", "error", "info").
func KindColor(kind string) lipgloss.Color {
	switch kind {
	case "success":
		return ColorSuccess
	case "error":
		return ColorError
	case "info":
		return ColorInfo
	default:
		return ColorDefault
	}
}

// CapacityColor returns the color for an activity with the given number of
// spots left out of max.
func CapacityColor(spotsLeft, max int) lipgloss.Color {
	switch {
	case spotsLeft <= 0:
		return ColorCapacityFull
	case max > 0 && spotsLeft*2 <= max:
		return ColorCapacityBusy
	default:
		return ColorCapacityOpen
	}
}

// Reusable styles.
var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSelected)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)
