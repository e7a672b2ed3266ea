package queries

import (
	"errors"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/guard"
)

var ErrValidateRouteQueryIsNotConstructed = errors.New(
	"ValidateRouteQuery must be created via NewValidateRouteQuery constructor",
)

// ValidateRouteQuery asks for an analyst review of a session's current route:
// a readable sanity check of the math, the dropped orders and the margins.
type ValidateRouteQuery struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewValidateRouteQuery creates a route validation query for a session.
func NewValidateRouteQuery(sessionID kernel.UUID) (ValidateRouteQuery, error) {
	if err := sessionID.Validate(); err != nil {
		return ValidateRouteQuery{}, err
	}

	return ValidateRouteQuery{
		sessionID: sessionID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ValidateRouteQuery) Validate() error {
	return q.guard.Validate(ErrValidateRouteQueryIsNotConstructed)
}

// SessionID returns the id of the session to validate.
func (q ValidateRouteQuery) SessionID() kernel.UUID {
	return q.sessionID
}
