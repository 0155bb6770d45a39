package session

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the active sessions keyed by target identity. It is the one
// resource shared across concurrent session starts, so the reserve step is
// atomic relative to any other call for the same key.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Reserve registers s under key if and only if no registration exists. This
// closes the window between check and set for near-simultaneous starts.
func (r *Registry) Reserve(key string, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[key]; exists {
		return fmt.Errorf("%q: %w", key, ErrSessionExists)
	}
	r.sessions[key] = s
	return nil
}

// Release removes the registration for key, if any.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Get returns the registered session for key.
func (r *Registry) Get(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	return s, ok
}

// ByPID returns the session whose bound terminal has the given process id,
// used to correlate closure notifications.
func (r *Registry) ByPID(pid int) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Terminal != nil && s.Terminal.PID() == pid {
			return s, true
		}
	}
	return nil, false
}

// Active returns the registered target identities, sorted.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.sessions))
	for k := range r.sessions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
