// Package login provides the teacher login dialog.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mergington/activities-tui/internal/theme"
)

const panelWidth = 48

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

// KeyMap holds the dialog key bindings.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Close  key.Binding
}

// DefaultKeyMap returns the default dialog bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log in"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// Model is the login dialog. The inline error is owned by the controller and
// passed to View.
type Model struct {
	Keys     KeyMap
	username textinput.Model
	password textinput.Model
	focus    int
}

// New creates a dialog with empty fields.
func New() Model {
	u := textinput.New()
	u.Placeholder = "username"
	u.CharLimit = 64
	u.Prompt = ""

	p := textinput.New()
	p.Placeholder = "password"
	p.CharLimit = 128
	p.Prompt = ""
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	return Model{Keys: DefaultKeyMap(), username: u, password: p}
}

// Focus focuses the username field and starts the cursor blink.
func (m *Model) Focus() tea.Cmd {
	m.focus = 0
	m.password.Blur()
	return m.username.Focus()
}

// Reset clears both fields.
func (m *Model) Reset() {
	m.username.Reset()
	m.password.Reset()
	m.focus = 0
}

// Values returns the entered username and password. The username is trimmed.
func (m Model) Values() (username, password string) {
	return strings.TrimSpace(m.username.Value()), m.password.Value()
}

// Update handles field switching and typing. Submit and Close are left to
// the caller.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.Keys.Next), key.Matches(k, m.Keys.Prev):
			return m, m.toggleFocus()
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == 0 {
		m.focus = 1
		m.username.Blur()
		return m.password.Focus()
	}
	m.focus = 0
	m.password.Blur()
	return m.username.Focus()
}

// View renders the dialog with an optional inline error.
func (m Model) View(errText string) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Teacher Login") + "\n")
	b.WriteString(strings.Repeat("─", panelWidth-4) + "\n")
	b.WriteString(styleLabel.Render("Username") + "\n")
	b.WriteString(m.username.View() + "\n\n")
	b.WriteString(styleLabel.Render("Password") + "\n")
	b.WriteString(m.password.View() + "\n")
	if errText != "" {
		b.WriteString("\n" + theme.StyleError.Render(errText) + "\n")
	}
	b.WriteString("\n" + theme.StyleDimmed.Render("[tab] switch  [enter] log in  [esc] close"))

	return theme.StylePanel.Width(panelWidth).Render(b.String())
}
