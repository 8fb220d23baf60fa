package agent

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("chat session not found")

// SessionRegistry keeps the chat sessions opened through the HTTP API. A
// session lives until it is closed or sits idle past the TTL.
type SessionRegistry struct {
	replier Replier
	cfg     SessionConfig
	ttl     time.Duration

	mu       sync.RWMutex
	sessions map[string]*registryEntry
}

type registryEntry struct {
	session  *Session
	lastUsed time.Time
}

// NewSessionRegistry creates a registry. A zero ttl keeps sessions until closed.
func NewSessionRegistry(replier Replier, cfg SessionConfig, ttl time.Duration) *SessionRegistry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionRegistry{
		replier:  replier,
		cfg:      cfg,
		ttl:      ttl,
		sessions: make(map[string]*registryEntry),
	}
}

// Create opens a new session.
func (r *SessionRegistry) Create() *Session {
	s := NewSession(r.replier, r.cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = &registryEntry{session: s, lastUsed: r.cfg.Now()}
	return s
}

// Get returns the session with the given id and marks it used.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.lastUsed = r.cfg.Now()
	return e.session, nil
}

// Close discards a session and its transcript.
func (r *SessionRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// Sweep drops sessions idle longer than the TTL and returns how many went.
// Sessions with a reply pending are kept.
func (r *SessionRegistry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.cfg.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) && !e.session.Pending() {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
