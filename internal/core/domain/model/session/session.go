// Package session holds the conversation aggregate: one dispatcher working on
// one optimization run. The session owns the run's immutable inputs (catalog,
// time matrix, service times, constraints), the mutable sandbox, and the chat
// transcript exchanged with the assistant.
package session

import (
	"errors"
	"sync"
	"time"

	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleUser marks messages written by the dispatcher.
	RoleUser Role = "user"
	// RoleAssistant marks messages written by the assistant.
	RoleAssistant Role = "assistant"
)

// ErrSessionIsNotConstructed is returned when attempting to use an improperly
// initialized Session. Use NewSession.
var ErrSessionIsNotConstructed = errs.NewValueIsRequiredError(
	"session must be created via NewSession constructor")

// Message is one transcript entry. Content may be empty: the assistant can
// legitimately return an empty final text.
type Message struct {
	Role    Role
	Content string
}

// Session is the aggregate root of one dispatcher conversation.
//
// The run inputs never change for the lifetime of the session; only the
// sandbox and the transcript do. Exchanges must be serialized per session:
// callers hold the session lock for the whole duration of a chat round trip
// so tool executions see a stable sandbox.
type Session struct {
	id           kernel.UUID
	depotAddress string
	catalog      catalog.Catalog
	matrix       kernel.TimeMatrix
	serviceTimes kernel.ServiceTimes
	constraints  kernel.RouteConstraints
	sandbox      *sandbox.Sandbox

	messages     []Message
	createdAt    time.Time
	lastActiveAt time.Time

	mu    sync.Mutex
	guard guard.ConstructorGuard
}

// NewSession creates a session for an optimization run.
// All run inputs must be properly constructed and the depot address non-empty.
func NewSession(
	id kernel.UUID,
	depotAddress string,
	cat catalog.Catalog,
	matrix kernel.TimeMatrix,
	serviceTimes kernel.ServiceTimes,
	constraints kernel.RouteConstraints,
	sb *sandbox.Sandbox,
) (*Session, error) {
	if err := errors.Join(
		id.Validate(),
		cat.Validate(),
		matrix.Validate(),
		constraints.Validate(),
	); err != nil {
		return nil, err
	}
	if depotAddress == "" {
		return nil, errs.NewValueIsRequiredError("depotAddress")
	}
	if sb == nil {
		return nil, errs.NewValueIsRequiredError("sandbox")
	}
	if err := sb.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		id:           id,
		depotAddress: depotAddress,
		catalog:      cat,
		matrix:       matrix,
		serviceTimes: serviceTimes,
		constraints:  constraints,
		sandbox:      sb,
		createdAt:    now,
		lastActiveAt: now,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the session was created via NewSession.
func (s *Session) Validate() error {
	return s.guard.Validate(ErrSessionIsNotConstructed)
}

// ID returns the session identifier.
func (s *Session) ID() kernel.UUID {
	return s.id
}

// DepotAddress returns the fulfillment location address.
func (s *Session) DepotAddress() string {
	return s.depotAddress
}

// Catalog returns the run's immutable order catalog.
func (s *Session) Catalog() catalog.Catalog {
	return s.catalog
}

// TimeMatrix returns the run's travel time matrix.
func (s *Session) TimeMatrix() kernel.TimeMatrix {
	return s.matrix
}

// ServiceTimes returns the run's per-node unload durations.
func (s *Session) ServiceTimes() kernel.ServiceTimes {
	return s.serviceTimes
}

// Constraints returns the run's vehicle capacity and delivery window.
func (s *Session) Constraints() kernel.RouteConstraints {
	return s.constraints
}

// Sandbox returns the mutable sandbox of the session.
// Callers must hold the session lock while reading or mutating it.
func (s *Session) Sandbox() *sandbox.Sandbox {
	return s.sandbox
}

// Lock acquires the per-session exchange lock.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the per-session exchange lock.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// AppendUserMessage records a dispatcher message and touches the session.
func (s *Session) AppendUserMessage(content string) {
	s.messages = append(s.messages, Message{Role: RoleUser, Content: content})
	s.Touch()
}

// AppendAssistantMessage records an assistant message and touches the session.
func (s *Session) AppendAssistantMessage(content string) {
	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: content})
	s.Touch()
}

// Messages returns a copy of the full transcript in order.
func (s *Session) Messages() []Message {
	copied := make([]Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// PromptHistory returns the transcript prepared for the model provider:
// leading assistant messages (such as the initial route explanation shown to
// the dispatcher) are dropped so the history starts with a user turn.
func (s *Session) PromptHistory() []Message {
	history := make([]Message, 0, len(s.messages))
	for _, msg := range s.messages {
		if len(history) == 0 && msg.Role == RoleAssistant {
			continue
		}
		history = append(history, msg)
	}
	return history
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActiveAt returns the time of the last recorded activity.
func (s *Session) LastActiveAt() time.Time {
	return s.lastActiveAt
}

// Touch records activity, postponing idle eviction.
func (s *Session) Touch() {
	s.lastActiveAt = time.Now()
}

// IdleFor returns how long the session has been inactive as of now.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.lastActiveAt)
}
