// Package inmemory provides the in-process session store. Sessions are
// transient working state and never hit a database.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/session"
	"dispatcher/internal/core/ports"
	"dispatcher/internal/pkg/errs"
)

var _ ports.SessionRepository = (*SessionRepository)(nil)

// SessionRepository stores sessions in a map guarded by a mutex.
// Safe for concurrent use.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[kernel.UUID]*session.Session
}

// NewSessionRepository creates an empty session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[kernel.UUID]*session.Session),
	}
}

// Add stores a new session. Adding an id twice is an error.
func (r *SessionRepository) Add(_ context.Context, s *session.Session) error {
	if s == nil {
		return errs.NewValueIsRequiredError("session")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID()]; exists {
		return errs.NewValueIsInvalidError(fmt.Sprintf("session %s already exists", s.ID()))
	}
	r.sessions[s.ID()] = s
	return nil
}

// Get retrieves a session by id.
func (r *SessionRepository) Get(_ context.Context, id kernel.UUID) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("sessionID", id.String())
	}
	return s, nil
}

// Remove deletes a session. Removing an absent session is not an error.
func (r *SessionRepository) Remove(_ context.Context, id kernel.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// All returns every stored session, in no particular order.
func (r *SessionRepository) All(_ context.Context) ([]*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions, nil
}
