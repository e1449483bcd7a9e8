package session

import "time"

// State is the reactive session state exposed to the UI. Authenticated
// is derived: true iff an access token and a user are both present
// locally. It is never set independently of those two facts.
type State struct {
	User          *UserProfile
	Authenticated bool
	Online        bool
	LastSyncedAt  time.Time
}

// clone returns a deep copy so subscribers can never mutate manager state
func (s State) clone() State {
	out := s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return out
}

// LoginResult reports a successful login. FromCache is true when the
// session was served from local storage without reaching the backend.
type LoginResult struct {
	User      *UserProfile
	FromCache bool
}
