package queries

import (
	"errors"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/guard"
)

var ErrExplainOrdersQueryIsNotConstructed = errors.New(
	"ExplainOrdersQuery must be created via NewExplainOrdersQuery constructor",
)

// ExplainOrdersQuery asks for a per-order explanation of why each order in a
// session received its disposition.
type ExplainOrdersQuery struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewExplainOrdersQuery creates an explanation query for a session.
func NewExplainOrdersQuery(sessionID kernel.UUID) (ExplainOrdersQuery, error) {
	if err := sessionID.Validate(); err != nil {
		return ExplainOrdersQuery{}, err
	}

	return ExplainOrdersQuery{
		sessionID: sessionID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ExplainOrdersQuery) Validate() error {
	return q.guard.Validate(ErrExplainOrdersQueryIsNotConstructed)
}

// SessionID returns the id of the session to explain.
func (q ExplainOrdersQuery) SessionID() kernel.UUID {
	return q.sessionID
}
