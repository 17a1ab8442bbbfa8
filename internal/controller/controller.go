// Package controller implements the view controller for the activities
// client: session handling, the activity snapshot, the transient message and
// the login dialog state.
//
// Every operation returns a tea.Cmd that performs the network call off the
// update loop. Results come back as messages and are applied in Update, so
// all state is only ever touched from the Bubble Tea program goroutine.
package controller

import (
	"errors"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mergington/activities-tui/internal/client"
	"github.com/mergington/activities-tui/internal/session"
	"github.com/samber/lo"
)

// User-visible texts.
const (
	TextInvalidCredentials = "Invalid username or password"
	TextLoginFailed        = "Login failed. Please try again."
	TextMissingCredentials = "Username and password are required"
	TextLoggedOut          = "Logged out successfully"
	TextLoadFailed         = "Failed to load activities. Please try again later."
	TextSignupNeedsLogin   = "You must be logged in as a teacher to register students"
	TextUnregNeedsLogin    = "You must be logged in as a teacher to unregister students"
	TextSignupFailed       = "Failed to sign up. Please try again."
	TextUnregFailed        = "Failed to unregister. Please try again."
	TextGenericError       = "An error occurred"
)

// ErrNotAuthenticated is returned by RequireSession when no teacher is logged in.
var ErrNotAuthenticated = errors.New("not authenticated")

// API is the subset of the backend the controller depends on.
type API interface {
	AuthStatus(sessionID string) (*client.AuthStatus, error)
	Login(username, password string) (*client.LoginResponse, error)
	Logout(sessionID string) error
	Activities() ([]client.Activity, error)
	Signup(activity, email, sessionID string) (*client.MessageResponse, error)
	Unregister(activity, email, sessionID string) (*client.MessageResponse, error)
}

// Kind classifies a transient message.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Message is the banner currently shown to the user.
type Message struct {
	Text string
	Kind Kind
}

// Options tunes message lifetimes and logging.
type Options struct {
	AuthMessageDelay    time.Duration
	OutcomeMessageDelay time.Duration
	Logger              *slog.Logger
}

// DefaultOptions returns the stock delays: 3s for auth messages and 5s for
// signup/unregister outcomes.
func DefaultOptions() Options {
	return Options{
		AuthMessageDelay:    3 * time.Second,
		OutcomeMessageDelay: 5 * time.Second,
	}
}

// Controller owns the client-side state.
type Controller struct {
	api     API
	session *session.Session
	log     *slog.Logger
	opts    Options

	activities []client.Activity
	fetchSeq   uint64
	fetching   bool
	loaded     bool
	loadFailed bool

	message    Message
	messageSeq uint64
	hasMessage bool

	loginOpen  bool
	loginError string
}

// New creates a controller around the given API and session.
func New(api API, sess *session.Session, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if sess == nil {
		sess = session.New()
	}
	return &Controller{
		api:     api,
		session: sess,
		log:     opts.Logger,
		opts:    opts,
	}
}

// Init checks the auth status and loads the activity list.
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(c.CheckAuthStatus(), c.FetchActivities())
}

// Session returns the session owned by the controller.
func (c *Controller) Session() *session.Session { return c.session }

// Activities returns the last fetched snapshot.
func (c *Controller) Activities() []client.Activity { return c.activities }

// ActivityNames returns the activity names in server order, as offered by the
// signup form.
func (c *Controller) ActivityNames() []string {
	return lo.Map(c.activities, func(a client.Activity, _ int) string { return a.Name })
}

// Activity looks up an activity in the snapshot by name.
func (c *Controller) Activity(name string) (client.Activity, bool) {
	return lo.Find(c.activities, func(a client.Activity) bool { return a.Name == name })
}

// Loading reports whether the first fetch is still in flight.
func (c *Controller) Loading() bool { return c.fetching && !c.loaded }

// LoadFailed reports whether the last fetch failed.
func (c *Controller) LoadFailed() bool { return c.loadFailed }

// Message returns the visible message, if any.
func (c *Controller) Message() (Message, bool) { return c.message, c.hasMessage }

// LoginOpen reports whether the login dialog is shown.
func (c *Controller) LoginOpen() bool { return c.loginOpen }

// LoginError returns the inline login error, or "".
func (c *Controller) LoginError() string { return c.loginError }

// RequireSession returns the active session id or ErrNotAuthenticated.
func (c *Controller) RequireSession() (string, error) {
	if !c.session.Authenticated() {
		return "", ErrNotAuthenticated
	}
	return c.session.ID(), nil
}

// OpenLogin shows the login dialog with its error cleared. It does nothing
// while a teacher is logged in.
func (c *Controller) OpenLogin() {
	if c.session.Authenticated() {
		return
	}
	c.loginOpen = true
	c.loginError = ""
}

// CloseLogin hides the login dialog.
func (c *Controller) CloseLogin() {
	c.loginOpen = false
}

// CheckAuthStatus asks the server whether the current (possibly empty)
// session id is still valid.
func (c *Controller) CheckAuthStatus() tea.Cmd {
	id := c.session.Pending()
	api := c.api
	return func() tea.Msg {
		st, err := api.AuthStatus(id)
		return AuthStatusMsg{SessionID: id, Status: st, Err: err}
	}
}

// Login submits the credentials. Empty fields are refused without a request.
func (c *Controller) Login(username, password string) tea.Cmd {
	if username == "" || password == "" {
		c.loginError = TextMissingCredentials
		return nil
	}
	api := c.api
	return func() tea.Msg {
		resp, err := api.Login(username, password)
		return LoginResultMsg{Resp: resp, Err: err}
	}
}

// Logout invalidates the session on the server. Local state is cleared once
// the request settles, whatever its outcome.
func (c *Controller) Logout() tea.Cmd {
	if !c.session.Authenticated() {
		return nil
	}
	id := c.session.ID()
	api := c.api
	return func() tea.Msg {
		return LogoutResultMsg{Err: api.Logout(id)}
	}
}

// FetchActivities reloads the activity list from the server.
func (c *Controller) FetchActivities() tea.Cmd {
	c.fetching = true
	c.fetchSeq++
	seq := c.fetchSeq
	api := c.api
	return func() tea.Msg {
		list, err := api.Activities()
		return ActivitiesMsg{Seq: seq, Activities: list, Err: err}
	}
}

// Register signs a student up for an activity. Without a session it shows
// the precondition error and sends nothing.
func (c *Controller) Register(activity, email string) tea.Cmd {
	return c.mutate(ActionSignup, activity, email)
}

// Unregister removes a student from an activity. Without a session it shows
// the precondition error and sends nothing.
func (c *Controller) Unregister(activity, email string) tea.Cmd {
	return c.mutate(ActionUnregister, activity, email)
}

func (c *Controller) mutate(action Action, activity, email string) tea.Cmd {
	id, err := c.RequireSession()
	if err != nil {
		text := TextSignupNeedsLogin
		if action == ActionUnregister {
			text = TextUnregNeedsLogin
		}
		c.log.Info("mutation refused", "action", action, "activity", activity, "reason", err)
		return c.showMessage(text, KindError, 0)
	}

	api := c.api
	return func() tea.Msg {
		var (
			resp *client.MessageResponse
			err  error
		)
		if action == ActionSignup {
			resp, err = api.Signup(activity, email, id)
		} else {
			resp, err = api.Unregister(activity, email, id)
		}
		return MutationResultMsg{Action: action, Activity: activity, Email: email, Resp: resp, Err: err}
	}
}

// Update applies controller messages. Messages it does not own are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AuthStatusMsg:
		return c.applyAuthStatus(msg)
	case LoginResultMsg:
		return c.applyLogin(msg)
	case LogoutResultMsg:
		return c.applyLogout(msg)
	case ActivitiesMsg:
		c.applyActivities(msg)
		return nil
	case MutationResultMsg:
		return c.applyMutation(msg)
	case MessageExpiredMsg:
		if msg.Seq == c.messageSeq {
			c.hasMessage = false
		}
		return nil
	}
	return nil
}

func (c *Controller) applyAuthStatus(msg AuthStatusMsg) tea.Cmd {
	if msg.SessionID != c.session.Pending() {
		// The session changed while the request was in flight.
		return nil
	}
	if msg.Err != nil {
		c.log.Error("auth status check failed", "error", msg.Err)
		return nil
	}
	if msg.Status != nil && msg.Status.Authenticated && msg.SessionID != "" {
		c.session.Confirm(msg.Status.Username)
		c.log.Info("session confirmed", "user", c.session.User())
		return nil
	}
	if c.session.Pending() != "" {
		c.log.Info("session no longer valid")
	}
	c.session.Clear()
	return nil
}

func (c *Controller) applyLogin(msg LoginResultMsg) tea.Cmd {
	switch {
	case errors.Is(msg.Err, client.ErrInvalidCredentials):
		c.loginError = TextInvalidCredentials
		c.log.Info("login rejected")
		return nil
	case msg.Err != nil:
		c.loginError = TextLoginFailed
		c.log.Error("login failed", "error", msg.Err)
		return nil
	case msg.Resp == nil || msg.Resp.SessionID == "" || msg.Resp.Username == "":
		c.loginError = TextLoginFailed
		c.log.Error("login reply missing session id or username")
		return nil
	}

	c.session.Set(msg.Resp.SessionID, msg.Resp.Username)
	c.loginOpen = false
	c.loginError = ""
	c.log.Info("logged in", "user", msg.Resp.Username)
	return c.showMessage("Welcome, "+msg.Resp.Username+"!", KindSuccess, c.opts.AuthMessageDelay)
}

func (c *Controller) applyLogout(msg LogoutResultMsg) tea.Cmd {
	if msg.Err != nil {
		c.log.Warn("logout request failed", "error", msg.Err)
	}
	c.session.Clear()
	c.log.Info("logged out")
	return c.showMessage(TextLoggedOut, KindInfo, c.opts.AuthMessageDelay)
}

func (c *Controller) applyActivities(msg ActivitiesMsg) {
	if msg.Seq != c.fetchSeq {
		// A newer fetch is in flight; its reply supersedes this one.
		c.log.Debug("stale activities reply dropped", "seq", msg.Seq, "current", c.fetchSeq)
		return
	}
	c.fetching = false
	c.loaded = true
	if msg.Err != nil {
		c.activities = nil
		c.loadFailed = true
		c.log.Error("fetch activities failed", "error", msg.Err)
		return
	}
	c.activities = msg.Activities
	c.loadFailed = false
	c.log.Debug("activities loaded", "count", len(msg.Activities))
}

func (c *Controller) applyMutation(msg MutationResultMsg) tea.Cmd {
	log := c.log.With("action", msg.Action, "activity", msg.Activity, "email", msg.Email)

	var apiErr *client.APIError
	switch {
	case msg.Err == nil:
		text := ""
		if msg.Resp != nil {
			text = msg.Resp.Message
		}
		log.Info("mutation succeeded")
		return tea.Batch(
			c.showMessage(text, KindSuccess, c.opts.OutcomeMessageDelay),
			c.FetchActivities(),
		)
	case errors.As(msg.Err, &apiErr):
		text := apiErr.Detail
		if text == "" {
			text = TextGenericError
		}
		log.Info("mutation rejected", "status", apiErr.StatusCode, "detail", apiErr.Detail)
		return c.showMessage(text, KindError, c.opts.OutcomeMessageDelay)
	default:
		text := TextSignupFailed
		if msg.Action == ActionUnregister {
			text = TextUnregFailed
		}
		log.Error("mutation failed", "error", msg.Err)
		return c.showMessage(text, KindError, 0)
	}
}

// showMessage replaces the banner. A zero delay keeps it until the next one.
func (c *Controller) showMessage(text string, kind Kind, delay time.Duration) tea.Cmd {
	c.messageSeq++
	c.message = Message{Text: text, Kind: kind}
	c.hasMessage = true
	if delay <= 0 {
		return nil
	}
	seq := c.messageSeq
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return MessageExpiredMsg{Seq: seq}
	})
}
