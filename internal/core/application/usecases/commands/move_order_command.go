package commands

import (
	"errors"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

var ErrMoveOrderCommandIsNotConstructed = errors.New(
	"MoveOrderCommand must be created via NewMoveOrderCommand constructor",
)

// MoveOrderCommand represents a request to move a sandbox order into a target
// bucket, recording the dispatcher's reason for the change.
type MoveOrderCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	orderID   string
	target    sandbox.Category
	reason    string

	guard guard.ConstructorGuard
}

// NewMoveOrderCommand creates a command to move an order between buckets.
// The session id must be valid, the order id and reason non-empty, and the
// target a known category.
func NewMoveOrderCommand(
	sessionID kernel.UUID, orderID string, target sandbox.Category, reason string,
) (MoveOrderCommand, error) {
	cmd := MoveOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSessionID(sessionID),
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setReason(reason),
	); err != nil {
		return MoveOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MoveOrderCommand) Validate() error {
	return c.guard.Validate(ErrMoveOrderCommandIsNotConstructed)
}

// SessionID returns the id of the session whose sandbox is mutated.
func (c MoveOrderCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// OrderID returns the id of the order to move.
func (c MoveOrderCommand) OrderID() string {
	return c.orderID
}

// Target returns the requested destination bucket.
func (c MoveOrderCommand) Target() sandbox.Category {
	return c.target
}

// Reason returns the dispatcher's justification for the move.
func (c MoveOrderCommand) Reason() string {
	return c.reason
}

func (c *MoveOrderCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *MoveOrderCommand) setOrderID(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderID")
	}

	c.orderID = orderID
	return nil
}

func (c *MoveOrderCommand) setTarget(target sandbox.Category) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *MoveOrderCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}
