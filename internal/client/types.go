// Package client provides the HTTP client for the activities signup backend.
// Types mirror the backend wire format without importing server packages.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by Login when the server rejects the
// username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Activity is a named extracurricular offering as returned by /activities.
// Participants keep the server's order.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft reports the remaining capacity. The server is trusted here: the
// value is passed through without clamping.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// AuthStatus is the shape returned by /auth-status.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// LoginResponse is returned by a successful /login.
type LoginResponse struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

// MessageResponse is the success body of signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}

// errorResponse is the failure body of signup and unregister. Detail is kept
// raw because validation failures carry a list instead of a string.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// APIError is a non-OK mutation response whose body could be decoded.
type APIError struct {
	StatusCode int
	// Detail is the server's detail text, or "" when it was absent or not a string.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed (%d)", e.StatusCode)
	}
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Detail)
}

func detailText(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
