// Package signup provides the student registration form: an activity
// selector and an email field validated before submission.
package signup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
	"github.com/mergington/activities-tui/internal/theme"
	"github.com/samber/lo"
)

const (
	panelWidth       = 56
	invalidEmailText = "Enter a valid email address"
	noActivityText   = "Select an activity"
)

var validate = validator.New()

// Request is a validated registration.
type Request struct {
	Activity string `validate:"required"`
	Email    string `validate:"required,email"`
}

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)

	styleOption = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorSelected)
)

// KeyMap holds the form key bindings.
type KeyMap struct {
	PrevActivity key.Binding
	NextActivity key.Binding
	Submit       key.Binding
	Close        key.Binding
}

// DefaultKeyMap returns the default form bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevActivity: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("↑", "prev activity"),
		),
		NextActivity: key.NewBinding(
			key.WithKeys("down", "tab"),
			key.WithHelp("↓", "next activity"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sign up"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// Model is the signup form.
type Model struct {
	Keys    KeyMap
	options []string
	idx     int
	email   textinput.Model
	err     string
}

// New creates an empty form.
func New() Model {
	e := textinput.New()
	e.Placeholder = "your-email@mergington.edu"
	e.CharLimit = 254
	e.Prompt = ""
	return Model{Keys: DefaultKeyMap(), email: e}
}

// SetOptions rebuilds the activity options, keeping the current choice when
// it is still offered.
func (m *Model) SetOptions(names []string) {
	current := m.Activity()
	m.options = append([]string(nil), names...)
	m.idx = 0
	if i := lo.IndexOf(m.options, current); i >= 0 {
		m.idx = i
	}
}

// Options returns the offered activity names.
func (m Model) Options() []string { return m.options }

// Choose selects the named activity if it is offered.
func (m *Model) Choose(name string) {
	if i := lo.IndexOf(m.options, name); i >= 0 {
		m.idx = i
	}
}

// Activity returns the chosen activity, or "" when none is offered.
func (m Model) Activity() string {
	if m.idx < 0 || m.idx >= len(m.options) {
		return ""
	}
	return m.options[m.idx]
}

// Focus focuses the email field.
func (m *Model) Focus() tea.Cmd {
	m.err = ""
	return m.email.Focus()
}

// Reset clears the email and any inline error. The activity choice is kept.
func (m *Model) Reset() {
	m.email.Reset()
	m.err = ""
}

// Error returns the inline validation error, or "".
func (m Model) Error() string { return m.err }

// Submit validates the form. On failure it records an inline error and
// returns false.
func (m *Model) Submit() (Request, bool) {
	req := Request{Activity: m.Activity(), Email: strings.TrimSpace(m.email.Value())}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		m.err = invalidEmailText
		if errors.As(err, &verrs) && verrs[0].Field() == "Activity" {
			m.err = noActivityText
		}
		return Request{}, false
	}
	m.err = ""
	return req, true
}

// Update handles activity cycling and typing. Submit and Close are left to
// the caller.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && len(m.options) > 0 {
		switch {
		case key.Matches(k, m.Keys.NextActivity):
			m.idx = (m.idx + 1) % len(m.options)
			return m, nil
		case key.Matches(k, m.Keys.PrevActivity):
			m.idx = (m.idx - 1 + len(m.options)) % len(m.options)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Sign Up for an Activity") + "\n")
	b.WriteString(strings.Repeat("─", panelWidth-4) + "\n")

	b.WriteString(styleLabel.Render("Activity") + "\n")
	if act := m.Activity(); act != "" {
		b.WriteString("◂ " + styleOption.Render(act) + " ▸")
		b.WriteString(theme.StyleDimmed.Render(fmt.Sprintf("  (%d/%d)", m.idx+1, len(m.options))))
	} else {
		b.WriteString(theme.StyleDimmed.Render("-- Select an activity --"))
	}
	b.WriteString("\n\n")

	b.WriteString(styleLabel.Render("Student Email") + "\n")
	b.WriteString(m.email.View() + "\n")

	if m.err != "" {
		b.WriteString("\n" + theme.StyleError.Render(m.err) + "\n")
	}
	b.WriteString("\n" + theme.StyleDimmed.Render("[↑/↓] activity  [enter] sign up  [esc] close"))

	return theme.StylePanel.Width(panelWidth).Render(b.String())
}
