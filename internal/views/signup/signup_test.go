package signup

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func withEmail(m Model, email string) Model {
	m.Focus()
	for _, r := range email {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestSubmitValid(t *testing.T) {
	m := New()
	m.SetOptions([]string{"Chess Club", "Art Club"})
	m = withEmail(m, "student@mergington.edu")

	req, ok := m.Submit()
	if !ok {
		t.Fatalf("expected valid submission, got error %q", m.Error())
	}
	if req.Activity != "Chess Club" || req.Email != "student@mergington.edu" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestSubmitInvalidEmail(t *testing.T) {
	for _, email := range []string{"", "not-an-email", "a@"} {
		m := New()
		m.SetOptions([]string{"Chess Club"})
		m = withEmail(m, email)
		if _, ok := m.Submit(); ok {
			t.Errorf("email %q should be rejected", email)
		}
		if m.Error() != invalidEmailText {
			t.Errorf("email %q: error = %q, want %q", email, m.Error(), invalidEmailText)
		}
	}
}

func TestSubmitWithoutActivity(t *testing.T) {
	m := withEmail(New(), "student@mergington.edu")
	if _, ok := m.Submit(); ok {
		t.Fatal("submission without an activity should be rejected")
	}
	if m.Error() != noActivityText {
		t.Errorf("error = %q, want %q", m.Error(), noActivityText)
	}
}

func TestCycleActivities(t *testing.T) {
	m := New()
	m.SetOptions([]string{"Chess Club", "Art Club", "Drama"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Activity() != "Art Club" {
		t.Errorf("expected Art Club, got %q", m.Activity())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Activity() != "Drama" {
		t.Errorf("expected wrap to Drama, got %q", m.Activity())
	}
}

func TestSetOptionsKeepsChoice(t *testing.T) {
	m := New()
	m.SetOptions([]string{"Chess Club", "Art Club"})
	m.Choose("Art Club")
	m.SetOptions([]string{"Drama", "Art Club"})
	if m.Activity() != "Art Club" {
		t.Errorf("choice should survive a rebuild, got %q", m.Activity())
	}
	m.SetOptions([]string{"Drama"})
	if m.Activity() != "Drama" {
		t.Errorf("missing choice should fall back to the first option, got %q", m.Activity())
	}
	if len(m.Options()) != 1 {
		t.Errorf("options should be rebuilt, not appended: %v", m.Options())
	}
}

func TestResetKeepsActivity(t *testing.T) {
	m := New()
	m.SetOptions([]string{"Chess Club", "Art Club"})
	m.Choose("Art Club")
	m = withEmail(m, "x@y.z")
	m.Reset()
	if !strings.Contains(m.View(), "Art Club") {
		t.Error("reset should keep the chosen activity")
	}
	if _, ok := m.Submit(); ok {
		t.Error("reset should clear the email")
	}
}

func TestViewEmpty(t *testing.T) {
	if !strings.Contains(New().View(), "Select an activity") {
		t.Error("form without options should prompt for an activity")
	}
}
