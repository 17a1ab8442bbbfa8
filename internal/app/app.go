package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mergington/activities-tui/internal/controller"
	"github.com/mergington/activities-tui/internal/session"
	"github.com/mergington/activities-tui/internal/views/activities"
	"github.com/mergington/activities-tui/internal/views/banner"
	"github.com/mergington/activities-tui/internal/views/debug"
	"github.com/mergington/activities-tui/internal/views/detail"
	"github.com/mergington/activities-tui/internal/views/login"
	"github.com/mergington/activities-tui/internal/views/signup"
	"github.com/mergington/activities-tui/internal/views/status"
)

// Overlay identifies which modal is active. The login dialog is not listed:
// its visibility belongs to the controller.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlaySignup
	OverlayDetail
	OverlayDebug
)

// sessionView mirrors the session for rendering. A session observer keeps it
// current, so it is shared by pointer across model copies.
type sessionView struct {
	user string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl *controller.Controller

	keys   KeyMap
	help   help.Model
	width  int
	height int

	overlay       Overlay
	markdownStyle string

	auth   *sessionView
	events *debug.Model
	detach func()

	statusBar  status.Model
	list       activities.Model
	loginForm  login.Model
	signupForm signup.Model
	detail     detail.Model
}

// New creates the root model around ctrl. markdownStyle is the glamour style
// used for activity descriptions.
func New(ctrl *controller.Controller, markdownStyle string) Model {
	events := debug.New()
	m := Model{
		ctrl:          ctrl,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		markdownStyle: markdownStyle,
		auth:          &sessionView{user: ctrl.Session().User()},
		events:        &events,
		statusBar:     status.New(),
		list:          activities.New(),
		loginForm:     login.New(),
		signupForm:    signup.New(),
	}

	auth, log := m.auth, m.events
	m.detach = ctrl.Session().Subscribe(func(st session.State) {
		auth.user = st.User
		if st.Authenticated() {
			log.Addf(debug.KindAuth, "session: logged in as %s", st.User)
		} else {
			log.Addf(debug.KindAuth, "session: anonymous")
		}
	})
	return m
}

// Close detaches the model from the session.
func (m Model) Close() {
	if m.detach != nil {
		m.detach()
	}
}

// Init checks the session and loads the activities.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Init(), m.list.Tick())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.list.Width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		return m, m.list.UpdateSpinner(msg)

	case detail.FrameMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case controller.AuthStatusMsg, controller.LoginResultMsg, controller.LogoutResultMsg,
		controller.ActivitiesMsg, controller.MutationResultMsg, controller.MessageExpiredMsg:
		m.logEvent(msg)
		cmd := m.ctrl.Update(msg)
		syncCmd := m.sync(msg)
		return m, tea.Batch(cmd, syncCmd)
	}

	// Everything else (cursor blink and the like) goes to the focused form.
	return m.updateFocused(msg)
}

// sync pulls controller state into the views after a controller message.
func (m *Model) sync(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case controller.ActivitiesMsg:
		m.list.SetActivities(m.ctrl.Activities())
		m.list.Loading = m.ctrl.Loading()
		m.list.LoadFailed = m.ctrl.LoadFailed()
		m.signupForm.SetOptions(m.ctrl.ActivityNames())
		if m.overlay == OverlayDetail {
			return m.refreshDetail()
		}

	case controller.LoginResultMsg:
		if !m.ctrl.LoginOpen() {
			m.loginForm.Reset()
		}

	case controller.MutationResultMsg:
		if msg.Action == controller.ActionSignup && msg.Err == nil {
			m.signupForm.Reset()
			if m.overlay == OverlaySignup {
				m.overlay = OverlayNone
			}
		}
	}
	return nil
}

func (m *Model) refreshDetail() tea.Cmd {
	a, ok := m.ctrl.Activity(m.detail.Activity.Name)
	if !ok {
		m.overlay = OverlayNone
		return nil
	}
	wasAnimating := m.detail.Animating()
	m.detail.SetActivity(a)
	if !wasAnimating {
		return m.detail.Init()
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.Close()
		return m, tea.Quit
	}

	if m.ctrl.LoginOpen() {
		return m.handleLoginKey(msg)
	}

	switch m.overlay {
	case OverlaySignup:
		return m.handleSignupKey(msg)
	case OverlayDetail:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Signup):
			return m.openSignup(m.detail.Activity.Name)
		case key.Matches(msg, m.keys.Login):
			return m.openLogin()
		}
		return m, nil
	case OverlayDebug:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Up):
			m.events.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.events.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.list.Next()
	case key.Matches(msg, m.keys.Up):
		m.list.Prev()
	case key.Matches(msg, m.keys.Right):
		m.list.NextParticipant()
	case key.Matches(msg, m.keys.Left):
		m.list.PrevParticipant()

	case key.Matches(msg, m.keys.Enter):
		a, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		m.detail = detail.New(a, m.markdownStyle)
		m.overlay = OverlayDetail
		return m, m.detail.Init()

	case key.Matches(msg, m.keys.Unregister):
		a, okA := m.list.Selected()
		email, okP := m.list.SelectedParticipant()
		if !okA || !okP {
			return m, nil
		}
		m.events.Addf(debug.KindUI, "unregister %s from %s", email, a.Name)
		return m, m.ctrl.Unregister(a.Name, email)

	case key.Matches(msg, m.keys.Signup):
		name, _ := m.list.SelectedName()
		return m.openSignup(name)

	case key.Matches(msg, m.keys.Login):
		return m.openLogin()

	case key.Matches(msg, m.keys.Logout):
		return m, m.ctrl.Logout()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.ctrl.FetchActivities()

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) openLogin() (tea.Model, tea.Cmd) {
	m.ctrl.OpenLogin()
	if !m.ctrl.LoginOpen() {
		return m, nil
	}
	m.overlay = OverlayNone
	return m, m.loginForm.Focus()
}

func (m Model) openSignup(activity string) (tea.Model, tea.Cmd) {
	m.signupForm.Choose(activity)
	m.overlay = OverlaySignup
	return m, m.signupForm.Focus()
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.loginForm.Keys.Close):
		m.ctrl.CloseLogin()
		return m, nil
	case key.Matches(msg, m.loginForm.Keys.Submit):
		username, password := m.loginForm.Values()
		return m, m.ctrl.Login(username, password)
	}
	var cmd tea.Cmd
	m.loginForm, cmd = m.loginForm.Update(msg)
	return m, cmd
}

func (m Model) handleSignupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.signupForm.Keys.Close):
		m.overlay = OverlayNone
		return m, nil
	case key.Matches(msg, m.signupForm.Keys.Submit):
		req, ok := m.signupForm.Submit()
		if !ok {
			return m, nil
		}
		m.events.Addf(debug.KindUI, "sign up %s for %s", req.Email, req.Activity)
		return m, m.ctrl.Register(req.Activity, req.Email)
	}
	var cmd tea.Cmd
	m.signupForm, cmd = m.signupForm.Update(msg)
	return m, cmd
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.ctrl.LoginOpen():
		m.loginForm, cmd = m.loginForm.Update(msg)
	case m.overlay == OverlaySignup:
		m.signupForm, cmd = m.signupForm.Update(msg)
	}
	return m, cmd
}

func (m Model) logEvent(msg tea.Msg) {
	switch msg := msg.(type) {
	case controller.AuthStatusMsg:
		if msg.Err != nil {
			m.events.Addf(debug.KindErr, "GET /auth-status: %v", msg.Err)
		} else {
			m.events.Addf(debug.KindAPI, "GET /auth-status -> authenticated=%t", msg.Status != nil && msg.Status.Authenticated)
		}
	case controller.LoginResultMsg:
		if msg.Err != nil {
			m.events.Addf(debug.KindErr, "POST /login: %v", msg.Err)
		} else {
			m.events.Addf(debug.KindAPI, "POST /login -> ok")
		}
	case controller.LogoutResultMsg:
		if msg.Err != nil {
			m.events.Addf(debug.KindErr, "POST /logout: %v", msg.Err)
		} else {
			m.events.Addf(debug.KindAPI, "POST /logout -> ok")
		}
	case controller.ActivitiesMsg:
		if msg.Err != nil {
			m.events.Addf(debug.KindErr, "GET /activities: %v", msg.Err)
		} else {
			m.events.Addf(debug.KindAPI, "GET /activities -> %d activities", len(msg.Activities))
		}
	case controller.MutationResultMsg:
		if msg.Err != nil {
			m.events.Addf(debug.KindErr, "%s %s/%s: %v", msg.Action, msg.Activity, msg.Email, msg.Err)
		} else {
			m.events.Addf(debug.KindAPI, "%s %s/%s -> ok", msg.Action, msg.Activity, msg.Email)
		}
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	m.statusBar.User = m.auth.user
	m.statusBar.Activities = m.list.Len()
	header := m.statusBar.View()

	bannerLine := ""
	if msg, ok := m.ctrl.Message(); ok {
		bannerLine = banner.View(msg.Text, string(msg.Kind), m.width)
	}
	footer := m.help.View(m.keys)

	used := lipgloss.Height(header) + lipgloss.Height(footer)
	if bannerLine != "" {
		used += lipgloss.Height(bannerLine)
	}

	sections := []string{header}
	if bannerLine != "" {
		sections = append(sections, bannerLine)
	}
	sections = append(sections, m.renderBody(m.height-used), footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBody(height int) string {
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
	}

	switch {
	case m.ctrl.LoginOpen():
		return center(m.loginForm.View(m.ctrl.LoginError()))
	case m.overlay == OverlaySignup:
		return center(m.signupForm.View())
	case m.overlay == OverlayDetail:
		d := m.detail
		d.Authenticated = m.auth.user != ""
		return center(d.View())
	case m.overlay == OverlayDebug:
		return m.events.View(m.width, height)
	}

	list := m.list
	list.Height = height
	list.Authenticated = m.auth.user != ""
	return list.View()
}
