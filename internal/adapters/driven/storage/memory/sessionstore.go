package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Sessions are lost when the process exits.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

// Save stores or updates a session.
func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	if session.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = copySession(session)
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	result := copySession(session)
	return &result, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteIdle removes sessions not updated since cutoff and returns how many were removed.
func (s *SessionStore) DeleteIdle(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// copySession detaches the token pointer so callers cannot mutate stored state.
func copySession(session domain.Session) domain.Session {
	if session.Token != nil {
		token := *session.Token
		session.Token = &token
	}
	return session
}
