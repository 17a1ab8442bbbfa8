// Package detail renders the activity info overlay: the full description as
// markdown, the schedule, an animated capacity bar and the roster.
package detail

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/mergington/activities-tui/internal/client"
	"github.com/mergington/activities-tui/internal/theme"
)

const (
	panelWidth = 64
	barWidth   = 24
	labelWidth = 14
	fps        = 60
)

var (
	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed).
			Width(labelWidth)

	styleValue = lipgloss.NewStyle().
			Foreground(theme.ColorBright)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleFooter = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)

	styleSectionHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.ColorDimmed)
)

// FrameMsg advances the capacity bar animation.
type FrameMsg struct{}

// Model holds the state for the detail overlay.
type Model struct {
	Activity      client.Activity
	Authenticated bool

	renderer    *glamour.TermRenderer
	description string

	spring    harmonica.Spring
	fill      float64
	velocity  float64
	animating bool
}

// New creates a detail model for the given activity. style is a glamour
// standard style name; an unknown style falls back to plain text.
func New(a client.Activity, style string) Model {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(panelWidth-4),
	)
	if err != nil {
		r = nil
	}
	m := Model{
		renderer: r,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.6),
	}
	m.SetActivity(a)
	return m
}

// SetActivity swaps in a refreshed snapshot. The capacity bar animates from
// its current fill to the new one.
func (m *Model) SetActivity(a client.Activity) {
	m.Activity = a
	m.description = m.renderDescription(a.Description)
	m.animating = math.Abs(m.fill-fillRatio(a)) > 0.001
}

// Init starts the capacity bar animation.
func (m Model) Init() tea.Cmd {
	if !m.animating {
		return nil
	}
	return frame()
}

// Update advances the animation on each frame.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok || !m.animating {
		return m, nil
	}
	target := fillRatio(m.Activity)
	m.fill, m.velocity = m.spring.Update(m.fill, m.velocity, target)
	if math.Abs(m.fill-target) < 0.001 && math.Abs(m.velocity) < 0.001 {
		m.fill, m.velocity = target, 0
		m.animating = false
		return m, nil
	}
	return m, frame()
}

// Animating reports whether the capacity bar is still moving.
func (m Model) Animating() bool { return m.animating }

func frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return FrameMsg{} })
}

// View renders the detail panel.
func (m Model) View() string {
	a := m.Activity
	var b strings.Builder

	b.WriteString(styleTitle.Render(a.Name) + "\n")
	b.WriteString(strings.Repeat("─", panelWidth-4) + "\n")

	if m.description != "" {
		b.WriteString(m.description + "\n")
	}

	writeRow(&b, "Schedule", a.Schedule)

	spots := a.SpotsLeft()
	color := theme.CapacityColor(spots, a.MaxParticipants)
	writeRow(&b, "Capacity", renderBar(m.fill, barWidth, color)+
		fmt.Sprintf(" %d/%d", len(a.Participants), a.MaxParticipants))
	writeRow(&b, "Availability", lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%d spots left", spots)))

	b.WriteString("\n")
	if len(a.Participants) == 0 {
		b.WriteString(theme.StyleDimmed.Italic(true).Render("No participants yet") + "\n")
	} else {
		b.WriteString(styleSectionHeader.Render(fmt.Sprintf("Participants (%d)", len(a.Participants))) + "\n")
		for _, p := range a.Participants {
			b.WriteString("  • " + p + "\n")
		}
	}

	b.WriteString("\n")
	footer := "[s] sign up  [esc] close"
	if !m.Authenticated {
		footer = "[L] log in to manage the roster  [esc] close"
	}
	b.WriteString(styleFooter.Render(footer))

	return theme.StylePanel.Width(panelWidth).Render(b.String())
}

func (m Model) renderDescription(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(styleLabel.Render(label+":") + styleValue.Render(value) + "\n")
}

// fillRatio is the roster fill used as the bar's target. renderBar clamps it.
func fillRatio(a client.Activity) float64 {
	if a.MaxParticipants <= 0 {
		if len(a.Participants) > 0 {
			return 1
		}
		return 0
	}
	return float64(len(a.Participants)) / float64(a.MaxParticipants)
}

func renderBar(pct float64, width int, color lipgloss.Color) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(math.Round(pct * float64(width)))
	empty := width - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}
