package anon

import (
	"errors"
	"sync"

	"anonbot/model"
)

// ErrDuplicateSubmission is returned when a live session already exists for
// the same inbound message.
var ErrDuplicateSubmission = errors.New("a confirmation is already pending for this message")

// Registry tracks live confirmation sessions. It routes button interactions
// to the addressed session and guarantees at most one live session per
// inbound message. A single lock guards both indexes; traffic is one map
// operation per click, so contention is not a concern.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Session
	keys map[string]string // submission key -> session ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Session),
		keys: make(map[string]string),
	}
}

// Register adds a session. It fails with ErrDuplicateSubmission if a live
// session is already bound to the same (author, message) pair.
func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := s.submissionKey()
	if _, exists := r.keys[key]; exists {
		return ErrDuplicateSubmission
	}
	r.keys[key] = s.ID
	r.byID[s.ID] = s
	return nil
}

// Unregister removes a session. Removing an absent session is a no-op.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, s.submissionKey())
	delete(r.byID, s.ID)
}

// RouteDecision forwards a prompt interaction to the session it addresses.
// Interactions against unknown or already-terminal sessions are inert; the
// function reports whether a transition took effect.
func (r *Registry) RouteDecision(sessionID, actorID string, choice model.Choice) bool {
	r.mu.RLock()
	s, ok := r.byID[sessionID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return s.Decide(actorID, choice)
}
