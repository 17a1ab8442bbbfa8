package client

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id so client logs can be matched
// against server logs.
const RequestIDHeader = "X-Request-ID"

// HTTPClient makes REST calls to the activities backend.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewHTTPClient creates a client targeting the given base URL (e.g. "http://127.0.0.1:8000").
// A nil logger discards request logs.
func NewHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPClient {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// AuthStatus fetches /auth-status for the given (possibly empty) session id.
// A body that is not JSON is reported as unauthenticated.
func (c *HTTPClient) AuthStatus(sessionID string) (*AuthStatus, error) {
	resp, err := c.do(http.MethodGet, "/auth-status", url.Values{"session_id": {sessionID}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var s AuthStatus
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return &AuthStatus{}, nil
	}
	if !s.Authenticated {
		s.Username = ""
	}
	return &s, nil
}

// Login sends POST /login with the credentials as query parameters.
func (c *HTTPClient) Login(username, password string) (*LoginResponse, error) {
	resp, err := c.do(http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, ErrInvalidCredentials
	}
	var out LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &out, nil
}

// Logout sends POST /logout. The response body is ignored.
func (c *HTTPClient) Logout(sessionID string) error {
	resp, err := c.do(http.MethodPost, "/logout", url.Values{"session_id": {sessionID}})
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Activities fetches /activities, preserving the server's ordering.
func (c *HTTPClient) Activities() ([]Activity, error) {
	resp, err := c.do(http.MethodGet, "/activities", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GET /activities: %d %s", resp.StatusCode, string(body))
	}
	out, err := decodeActivities(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return out, nil
}

// Signup sends POST /activities/{name}/signup.
func (c *HTTPClient) Signup(activity, email, sessionID string) (*MessageResponse, error) {
	return c.mutate(http.MethodPost, activityPath(activity, "signup"), email, sessionID)
}

// Unregister sends DELETE /activities/{name}/unregister.
func (c *HTTPClient) Unregister(activity, email, sessionID string) (*MessageResponse, error) {
	return c.mutate(http.MethodDelete, activityPath(activity, "unregister"), email, sessionID)
}

func activityPath(activity, action string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action
}

func (c *HTTPClient) mutate(method, path, email, sessionID string) (*MessageResponse, error) {
	resp, err := c.do(method, path, url.Values{
		"email":      {email},
		"session_id": {sessionID},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			return nil, fmt.Errorf("%s %s: %d: decode error body: %w", method, path, resp.StatusCode, err)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: detailText(e.Detail)}
	}

	var out MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return &out, nil
}

func (c *HTTPClient) do(method, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(method, u, nil)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)
	return resp, nil
}

// decodeActivities reads the name → details object token by token so the
// resulting slice keeps the server's key order.
func decodeActivities(r io.Reader) ([]Activity, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	out := make([]Activity, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected activity name, got %v", tok)
		}
		var a Activity
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("activity %q: %w", name, err)
		}
		a.Name = name
		out = append(out, a)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
