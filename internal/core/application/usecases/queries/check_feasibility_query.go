// Package queries contains the read-only use cases of the dispatcher:
// sandbox snapshots, feasibility checks, route validation and per-order
// explanations. Queries never mutate the sandbox.
package queries

import (
	"errors"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

var ErrCheckFeasibilityQueryIsNotConstructed = errors.New(
	"CheckFeasibilityQuery must be created via NewCheckFeasibilityQuery constructor",
)

// CheckFeasibilityQuery asks whether an order could be added to a session's
// route within capacity and time constraints.
type CheckFeasibilityQuery struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	orderID   string

	guard guard.ConstructorGuard
}

// NewCheckFeasibilityQuery creates a feasibility query.
// The session id must be valid and the order id non-empty.
func NewCheckFeasibilityQuery(sessionID kernel.UUID, orderID string) (CheckFeasibilityQuery, error) {
	query := CheckFeasibilityQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setSessionID(sessionID),
		query.setOrderID(orderID),
	); err != nil {
		return CheckFeasibilityQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q CheckFeasibilityQuery) Validate() error {
	return q.guard.Validate(ErrCheckFeasibilityQueryIsNotConstructed)
}

// SessionID returns the id of the session to check against.
func (q CheckFeasibilityQuery) SessionID() kernel.UUID {
	return q.sessionID
}

// OrderID returns the id of the candidate order.
func (q CheckFeasibilityQuery) OrderID() string {
	return q.orderID
}

func (q *CheckFeasibilityQuery) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	q.sessionID = sessionID
	return nil
}

func (q *CheckFeasibilityQuery) setOrderID(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderID")
	}

	q.orderID = orderID
	return nil
}
