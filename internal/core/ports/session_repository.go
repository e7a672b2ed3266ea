// Package ports defines the outbound contracts of the application core:
// session storage, the assistant model provider, and the chat audit log.
// Adapters implement these interfaces; use cases depend only on them.
package ports

import (
	"context"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/session"
)

// SessionRepository stores live conversation sessions.
//
// Sessions are transient by design: the sandbox is a working copy and is
// never durably persisted. Implementations must be safe for concurrent use.
type SessionRepository interface {
	// Add stores a new session.
	// Returns an error when a session with the same id already exists.
	Add(ctx context.Context, s *session.Session) error

	// Get retrieves a session by id.
	// Returns an ObjectNotFoundError when no such session exists.
	Get(ctx context.Context, id kernel.UUID) (*session.Session, error)

	// Remove deletes a session. Removing an absent session is not an error.
	Remove(ctx context.Context, id kernel.UUID) error

	// All returns every stored session, in no particular order.
	// Used by the idle cleanup job.
	All(ctx context.Context) ([]*session.Session, error)
}
