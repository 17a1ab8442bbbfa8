package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestTypingAndSwitching(t *testing.T) {
	m := New()
	m.Focus()
	m = typeText(m, " mrodriguez ")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "art123")

	u, p := m.Values()
	if u != "mrodriguez" {
		t.Errorf("username = %q, want trimmed %q", u, "mrodriguez")
	}
	if p != "art123" {
		t.Errorf("password = %q, want %q", p, "art123")
	}
}

func TestPasswordIsMasked(t *testing.T) {
	m := New()
	m.Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "secret")
	if strings.Contains(m.View(""), "secret") {
		t.Error("password should not be rendered in clear text")
	}
}

func TestReset(t *testing.T) {
	m := New()
	m.Focus()
	m = typeText(m, "user")
	m.Reset()
	if u, p := m.Values(); u != "" || p != "" {
		t.Errorf("reset should clear fields, got %q/%q", u, p)
	}
}

func TestViewShowsError(t *testing.T) {
	m := New()
	v := m.View("Invalid username or password")
	if !strings.Contains(v, "Teacher Login") {
		t.Error("dialog should have a title")
	}
	if !strings.Contains(v, "Invalid username or password") {
		t.Error("dialog should show the inline error")
	}
	if strings.Contains(m.View(""), "Invalid") {
		t.Error("no error should be shown when empty")
	}
}
