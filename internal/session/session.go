// Package session holds the in-memory teacher session and notifies observers
// when it changes. It is not safe for concurrent use: all access is expected
// from the Bubble Tea update loop.
package session

// State is a snapshot of the session. ID and User are both empty or both set.
type State struct {
	ID   string
	User string
}

// Authenticated reports whether the snapshot holds a session.
func (s State) Authenticated() bool {
	return s.ID != "" && s.User != ""
}

// Observer is called with the new state after every change.
type Observer func(State)

// Session owns the current session state.
type Session struct {
	state     State
	pending   string
	observers map[int]Observer
	order     []int
	nextID    int
}

// New returns an anonymous session.
func New() *Session {
	return &Session{observers: make(map[int]Observer)}
}

// State returns the current snapshot.
func (s *Session) State() State { return s.state }

// ID returns the session id, or "" when anonymous.
func (s *Session) ID() string { return s.state.ID }

// User returns the logged-in username, or "" when anonymous.
func (s *Session) User() string { return s.state.User }

// Authenticated reports whether a session is active.
func (s *Session) Authenticated() bool { return s.state.Authenticated() }

// Set stores a session. An empty id or user clears the session instead, so
// the two fields can never disagree.
func (s *Session) Set(id, user string) {
	if id == "" || user == "" {
		s.Clear()
		return
	}
	s.update(State{ID: id, User: user})
}

// Seed stores a session id whose user is not known yet. The session stays
// anonymous until Confirm supplies the user.
func (s *Session) Seed(id string) {
	s.pending = id
}

// Pending returns the id to present to the auth-status endpoint: the active
// session id, or a seeded id awaiting confirmation.
func (s *Session) Pending() string {
	if s.state.ID != "" {
		return s.state.ID
	}
	return s.pending
}

// Confirm promotes the pending id to an active session for user. It is a
// no-op when there is no id to confirm.
func (s *Session) Confirm(user string) {
	id := s.Pending()
	if id == "" {
		return
	}
	s.pending = ""
	s.Set(id, user)
}

// Clear drops the session and any seeded id.
func (s *Session) Clear() {
	s.pending = ""
	s.update(State{})
}

// Subscribe registers an observer and returns a function that detaches it.
// Observers run in subscription order.
func (s *Session) Subscribe(fn Observer) (detach func()) {
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.order = append(s.order, id)
	return func() {
		delete(s.observers, id)
		for i, o := range s.order {
			if o == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Session) update(next State) {
	if next == s.state {
		return
	}
	s.state = next
	for _, id := range append([]int(nil), s.order...) {
		if fn, ok := s.observers[id]; ok {
			fn(next)
		}
	}
}
