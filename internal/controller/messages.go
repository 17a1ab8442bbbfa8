package controller

import "github.com/mergington/activities-tui/internal/client"

// AuthStatusMsg is returned after querying /auth-status. SessionID is the id
// that was presented, so stale replies can be discarded.
type AuthStatusMsg struct {
	SessionID string
	Status    *client.AuthStatus
	Err       error
}

// LoginResultMsg is returned after a login attempt.
type LoginResultMsg struct {
	Resp *client.LoginResponse
	Err  error
}

// LogoutResultMsg is returned after the logout request settles.
type LogoutResultMsg struct {
	Err error
}

// ActivitiesMsg delivers a freshly fetched activity list. Seq identifies the
// fetch; only the reply to the latest fetch is applied.
type ActivitiesMsg struct {
	Seq        uint64
	Activities []client.Activity
	Err        error
}

// Action names a roster mutation.
type Action string

const (
	ActionSignup     Action = "signup"
	ActionUnregister Action = "unregister"
)

// MutationResultMsg is returned after a signup or unregister request.
type MutationResultMsg struct {
	Action   Action
	Activity string
	Email    string
	Resp     *client.MessageResponse
	Err      error
}

// MessageExpiredMsg asks the controller to hide the message with the given
// sequence number. Newer messages are left alone.
type MessageExpiredMsg struct {
	Seq uint64
}
