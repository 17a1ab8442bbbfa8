// Package activities renders the activity cards with their participant
// rosters and tracks the selected activity and participant.
package activities

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mergington/activities-tui/internal/client"
	"github.com/mergington/activities-tui/internal/theme"
	"github.com/samber/lo"
)

const (
	loadingText    = "Loading activities..."
	loadFailedText = "Failed to load activities. Please try again later."
	emptyListText  = "No activities available."
	noParticipants = "No participants yet"
	deleteMarker   = "✗"
	minCardWidth   = 40
)

var (
	styleCard = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(0, 1)

	styleCardSelected = styleCard.
				BorderForeground(theme.ColorSelected)

	styleName = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleLabel = lipgloss.NewStyle().Bold(true)

	styleDelete = lipgloss.NewStyle().Foreground(theme.ColorError)
)

// Model holds the rendered snapshot and the cursor.
type Model struct {
	Width  int
	Height int

	Authenticated bool
	Loading       bool
	LoadFailed    bool
	Spinner       spinner.Model

	activities  []client.Activity
	selected    int
	participant int // index into the selected roster, -1 when none
}

// New creates an empty list in the loading state.
func New() Model {
	return Model{
		Loading:     true,
		Spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		participant: -1,
	}
}

// Tick starts the loading spinner.
func (m Model) Tick() tea.Cmd {
	return m.Spinner.Tick
}

// UpdateSpinner advances the spinner while the list is loading.
func (m *Model) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !m.Loading {
		return nil
	}
	var cmd tea.Cmd
	m.Spinner, cmd = m.Spinner.Update(msg)
	return cmd
}

// SetActivities replaces the snapshot. The cursor stays on the same activity
// and participant when they still exist.
func (m *Model) SetActivities(list []client.Activity) {
	prevName, hadActivity := m.SelectedName()
	prevEmail, hadParticipant := m.SelectedParticipant()

	m.activities = list
	m.selected = 0
	m.participant = -1
	if hadActivity {
		if _, idx, ok := lo.FindIndexOf(list, func(a client.Activity) bool { return a.Name == prevName }); ok {
			m.selected = idx
		}
	}
	if hadParticipant {
		if a, ok := m.Selected(); ok {
			m.participant = lo.IndexOf(a.Participants, prevEmail)
		}
	}
}

// Len returns the number of activities shown.
func (m Model) Len() int { return len(m.activities) }

// Selected returns the activity under the cursor.
func (m Model) Selected() (client.Activity, bool) {
	if m.selected < 0 || m.selected >= len(m.activities) {
		return client.Activity{}, false
	}
	return m.activities[m.selected], true
}

// SelectedName returns the name of the activity under the cursor.
func (m Model) SelectedName() (string, bool) {
	a, ok := m.Selected()
	return a.Name, ok
}

// Select moves the cursor to the named activity.
func (m *Model) Select(name string) {
	if _, idx, ok := lo.FindIndexOf(m.activities, func(a client.Activity) bool { return a.Name == name }); ok {
		m.selected = idx
		m.participant = -1
	}
}

// SelectedParticipant returns the email under the participant cursor.
func (m Model) SelectedParticipant() (string, bool) {
	a, ok := m.Selected()
	if !ok || m.participant < 0 || m.participant >= len(a.Participants) {
		return "", false
	}
	return a.Participants[m.participant], true
}

// Next moves to the next activity, wrapping around.
func (m *Model) Next() {
	if len(m.activities) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.activities)
	m.participant = -1
}

// Prev moves to the previous activity, wrapping around.
func (m *Model) Prev() {
	if len(m.activities) == 0 {
		return
	}
	m.selected = (m.selected - 1 + len(m.activities)) % len(m.activities)
	m.participant = -1
}

// NextParticipant moves the participant cursor forward within the selected
// activity, wrapping around.
func (m *Model) NextParticipant() {
	a, ok := m.Selected()
	if !ok || len(a.Participants) == 0 {
		return
	}
	m.participant = (m.participant + 1) % len(a.Participants)
}

// PrevParticipant moves the participant cursor backward.
func (m *Model) PrevParticipant() {
	a, ok := m.Selected()
	if !ok || len(a.Participants) == 0 {
		return
	}
	if m.participant <= 0 {
		m.participant = len(a.Participants) - 1
		return
	}
	m.participant--
}

// View renders the list.
func (m Model) View() string {
	switch {
	case m.Loading && len(m.activities) == 0 && !m.LoadFailed:
		return m.Spinner.View() + " " + loadingText
	case m.LoadFailed:
		return theme.StyleError.Render(loadFailedText)
	case len(m.activities) == 0:
		return theme.StyleDimmed.Render(emptyListText)
	}

	cards := make([]string, len(m.activities))
	for i, a := range m.activities {
		cards[i] = m.renderCard(a, i == m.selected)
	}
	return lipgloss.JoinVertical(lipgloss.Left, visibleCards(cards, m.selected, m.Height)...)
}

func (m Model) renderCard(a client.Activity, selected bool) string {
	var b strings.Builder

	b.WriteString(styleName.Render(a.Name) + "\n")
	if desc := firstParagraph(a.Description); desc != "" {
		b.WriteString(desc + "\n")
	}
	b.WriteString(styleLabel.Render("Schedule:") + " " + a.Schedule + "\n")

	spots := a.SpotsLeft()
	avail := lipgloss.NewStyle().
		Foreground(theme.CapacityColor(spots, a.MaxParticipants)).
		Render(fmt.Sprintf("%d spots left", spots))
	b.WriteString(styleLabel.Render("Availability:") + " " + avail + "\n")

	if len(a.Participants) == 0 {
		b.WriteString(theme.StyleDimmed.Italic(true).Render(noParticipants))
	} else {
		b.WriteString(styleLabel.Render("Participants:"))
		for i, email := range a.Participants {
			b.WriteString("\n" + m.renderParticipant(email, selected && i == m.participant))
		}
	}

	style := styleCard
	if selected {
		style = styleCardSelected
	}
	width := m.Width - 2
	if width < minCardWidth {
		width = minCardWidth
	}
	return style.Width(width).Render(b.String())
}

func (m Model) renderParticipant(email string, selected bool) string {
	prefix := "  • "
	line := email
	if selected {
		prefix = "  > "
		line = theme.StyleSelected.Render(email)
	}
	// The delete affordance only exists for a logged-in teacher.
	if m.Authenticated {
		line += " " + styleDelete.Render(deleteMarker)
	}
	return prefix + line
}

// visibleCards returns the run of cards that fits in height while keeping
// the selected card on screen. A non-positive height shows everything.
func visibleCards(cards []string, selected, height int) []string {
	if height <= 0 {
		return cards
	}
	start, used := selected, lipgloss.Height(cards[selected])
	for start > 0 && used+lipgloss.Height(cards[start-1]) <= height {
		start--
		used += lipgloss.Height(cards[start])
	}
	end := selected + 1
	for end < len(cards) && used+lipgloss.Height(cards[end]) <= height {
		used += lipgloss.Height(cards[end])
		end++
	}
	return cards[start:end]
}

func firstParagraph(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "\n\n"); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "\n", " ")
}
