package realtime

import (
	"sync"
)

// Close codes used when the registry ends a session.
const (
	CloseSessionReplaced = 4001
	CloseShutdown        = 1001
)

// Session is a live, addressable client connection.
type Session interface {
	SessionID() string
	Send(payload []byte) error
	Close(code int, reason string)
}

// SessionGauge receives the number of registered sessions after each change.
type SessionGauge interface {
	SetActiveSessions(n int)
}

// Registry is the process-local presence map: at most one session per user,
// last registration wins. It has no persisted backing; after a restart every
// user is unreachable until they reconnect.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session // sessionID -> session
	owners   map[string]string  // sessionID -> userID
	users    map[string]string  // userID -> sessionID
	gauge    SessionGauge
}

// NewRegistry constructs an empty Registry. gauge may be nil.
func NewRegistry(gauge SessionGauge) *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		owners:   make(map[string]string),
		users:    make(map[string]string),
		gauge:    gauge,
	}
}

// Register maps userID to s unconditionally and returns the session it
// displaced, if any. The caller decides how to close the previous session.
func (r *Registry) Register(userID string, s Session) (previous Session) {
	r.mu.Lock()
	if oldID, ok := r.users[userID]; ok && oldID != s.SessionID() {
		previous = r.sessions[oldID]
		delete(r.sessions, oldID)
		delete(r.owners, oldID)
	}
	r.sessions[s.SessionID()] = s
	r.owners[s.SessionID()] = userID
	r.users[userID] = s.SessionID()
	n := len(r.users)
	r.mu.Unlock()

	r.report(n)
	return previous
}

// Unregister forgets sessionID. The user mapping is removed only when it
// still points at sessionID, so a late unregister of a replaced session
// never evicts the newer one. It reports whether the user mapping was removed.
func (r *Registry) Unregister(sessionID string) bool {
	r.mu.Lock()
	userID, tracked := r.owners[sessionID]
	delete(r.sessions, sessionID)
	delete(r.owners, sessionID)
	removed := false
	if tracked && r.users[userID] == sessionID {
		delete(r.users, userID)
		removed = true
	}
	n := len(r.users)
	r.mu.Unlock()

	if removed {
		r.report(n)
	}
	return removed
}

// Lookup returns the session id currently registered for userID.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.users[userID]
	return id, ok
}

// Deliver sends payload to the user's current session. It reports false when
// the user is unreachable or the send failed.
func (r *Registry) Deliver(userID string, payload []byte) bool {
	r.mu.RLock()
	var s Session
	if id, ok := r.users[userID]; ok {
		s = r.sessions[id]
	}
	r.mu.RUnlock()
	if s == nil {
		return false
	}
	return s.Send(payload) == nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Drain closes every session and empties the registry.
func (r *Registry) Drain() {
	r.mu.Lock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]Session)
	r.owners = make(map[string]string)
	r.users = make(map[string]string)
	r.mu.Unlock()

	r.report(0)
	for _, s := range sessions {
		s.Close(CloseShutdown, "server shutdown")
	}
}

func (r *Registry) report(n int) {
	if r.gauge != nil {
		r.gauge.SetActiveSessions(n)
	}
}
