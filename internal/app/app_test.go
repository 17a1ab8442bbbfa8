package app

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mergington/activities-tui/internal/client"
	"github.com/mergington/activities-tui/internal/controller"
	"github.com/mergington/activities-tui/internal/session"
)

type stubAPI struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubAPI) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) AuthStatus(id string) (*client.AuthStatus, error) {
	s.record("auth-status")
	return &client.AuthStatus{}, nil
}

func (s *stubAPI) Login(u, p string) (*client.LoginResponse, error) {
	s.record("login")
	return &client.LoginResponse{SessionID: "s-1", Username: u}, nil
}

func (s *stubAPI) Logout(id string) error {
	s.record("logout")
	return nil
}

func (s *stubAPI) Activities() ([]client.Activity, error) {
	s.record("activities")
	return chessClub(), nil
}

func (s *stubAPI) Signup(activity, email, id string) (*client.MessageResponse, error) {
	s.record("signup " + activity + " " + email)
	return &client.MessageResponse{Message: "Signed up " + email + " for " + activity}, nil
}

func (s *stubAPI) Unregister(activity, email, id string) (*client.MessageResponse, error) {
	s.record("unregister " + activity + " " + email)
	return &client.MessageResponse{Message: "Unregistered " + email + " from " + activity}, nil
}

func chessClub() []client.Activity {
	return []client.Activity{{
		Name:            "Chess Club",
		Description:     "d",
		Schedule:        "s",
		MaxParticipants: 10,
		Participants:    []string{"a@x.com"},
	}}
}

func newModel(t *testing.T, sess *session.Session) (Model, *stubAPI) {
	t.Helper()
	api := &stubAPI{}
	ctrl := controller.New(api, sess, controller.Options{
		AuthMessageDelay:    time.Millisecond,
		OutcomeMessageDelay: time.Millisecond,
	})
	m := New(ctrl, "notty")
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(m, controller.ActivitiesMsg{Activities: chessClub()})
	return m, api
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(m Model, keys string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return next.(Model), cmd
}

func TestViewBeforeResize(t *testing.T) {
	ctrl := controller.New(&stubAPI{}, nil, controller.DefaultOptions())
	if v := New(ctrl, "notty").View(); v != "Initializing..." {
		t.Errorf("View() = %q, want placeholder", v)
	}
}

func TestViewRendersActivities(t *testing.T) {
	m, _ := newModel(t, nil)
	v := m.View()
	for _, want := range []string{"Chess Club", "9 spots left", "a@x.com", "Not logged in"} {
		if !strings.Contains(v, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestUnregisterWithoutSessionSendsNothing(t *testing.T) {
	m, api := newModel(t, nil)
	m, _ = press(m, "l")
	m, cmd := press(m, "x")
	if cmd != nil {
		t.Error("no request should be issued without a session")
	}
	if calls := api.Calls(); len(calls) != 0 {
		t.Errorf("unexpected API calls: %v", calls)
	}
	if !strings.Contains(m.View(), controller.TextUnregNeedsLogin) {
		t.Error("banner should show the login precondition error")
	}
}

func TestSessionObserverUpdatesHeader(t *testing.T) {
	sess := session.New()
	m, _ := newModel(t, sess)

	sess.Set("s-1", "mrodriguez")
	v := m.View()
	if !strings.Contains(v, "Logged in as mrodriguez") {
		t.Error("header should show the logged-in teacher")
	}
	if !strings.Contains(v, "✗") {
		t.Error("participant rows should carry the delete marker when logged in")
	}

	sess.Clear()
	if strings.Contains(m.View(), "✗") {
		t.Error("delete marker should be hidden after logout")
	}
}

func TestCloseDetachesObserver(t *testing.T) {
	sess := session.New()
	m, _ := newModel(t, sess)
	m.Close()

	sess.Set("s-1", "mrodriguez")
	if strings.Contains(m.View(), "Logged in as") {
		t.Error("a closed model should no longer follow the session")
	}
}

func TestLoginDialogOpens(t *testing.T) {
	m, _ := newModel(t, nil)
	m, _ = press(m, "L")
	if !strings.Contains(m.View(), "Teacher Login") {
		t.Error("L should open the login dialog")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if strings.Contains(m.View(), "Teacher Login") {
		t.Error("esc should close the login dialog")
	}
}

func TestSignupFlow(t *testing.T) {
	sess := session.New()
	sess.Set("s-1", "mrodriguez")
	m, api := newModel(t, sess)

	m, _ = press(m, "s")
	if m.overlay != OverlaySignup {
		t.Fatalf("overlay = %d, want signup", m.overlay)
	}
	m, _ = press(m, "b@x.com")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("submit should issue the signup request")
	}
	m = update(m, cmd())

	if m.overlay != OverlayNone {
		t.Error("signup form should close after a successful signup")
	}
	if !strings.Contains(m.View(), "Signed up b@x.com for Chess Club") {
		t.Error("banner should show the server's message")
	}
	calls := api.Calls()
	if len(calls) != 1 || calls[0] != "signup Chess Club b@x.com" {
		t.Errorf("calls = %v", calls)
	}
}

func TestSignupInvalidEmailStaysOpen(t *testing.T) {
	sess := session.New()
	sess.Set("s-1", "mrodriguez")
	m, api := newModel(t, sess)

	m, _ = press(m, "s")
	m, _ = press(m, "not-an-email")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if cmd != nil {
		t.Error("invalid email should not issue a request")
	}
	if len(api.Calls()) != 0 {
		t.Errorf("unexpected API calls: %v", api.Calls())
	}
	if !strings.Contains(m.View(), "Enter a valid email address") {
		t.Error("form should show the inline validation error")
	}
}

func TestDebugOverlayLogsEvents(t *testing.T) {
	m, _ := newModel(t, nil)
	m, _ = press(m, "d")
	if !strings.Contains(m.View(), "GET /activities -> 1 activities") {
		t.Error("event log should list the activities fetch")
	}
}

func TestDetailFooterFollowsSession(t *testing.T) {
	sess := session.New()
	sess.Set("s-1", "mrodriguez")
	m, _ := newModel(t, sess)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !strings.Contains(m.View(), "[s] sign up") {
		t.Fatal("detail footer should offer signup while logged in")
	}

	sess.Clear()
	if !strings.Contains(m.View(), "log in to manage the roster") {
		t.Error("detail footer should ask to log in once the session is gone")
	}
}
