package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/core/ports"
	"dispatcher/internal/pkg/errs"
)

// MoveOrderResult is the dispatcher-facing outcome of a move: whether the
// sandbox accepted it and the confirmation or rejection text to show.
type MoveOrderResult struct {
	Success bool
	Message string
}

// MoveOrderCommandHandler applies a bucket move to a session's sandbox and
// renders the outcome as dispatcher-facing text. Domain rejections (unknown
// order, capacity overflow, unresolved node) become failure messages rather
// than errors; only infrastructure problems surface as errors.
type MoveOrderCommandHandler struct {
	sessions ports.SessionRepository
}

// NewMoveOrderCommandHandler creates a handler for sandbox move operations.
func NewMoveOrderCommandHandler(sessions ports.SessionRepository) MoveOrderCommandHandler {
	return MoveOrderCommandHandler{
		sessions: sessions,
	}
}

// Handle processes the move command under the session lock.
func (h *MoveOrderCommandHandler) Handle(
	ctx context.Context, cmd MoveOrderCommand,
) (MoveOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return MoveOrderResult{}, err
	}

	s, err := h.sessions.Get(ctx, cmd.SessionID())
	if err != nil {
		return MoveOrderResult{}, err
	}

	s.Lock()
	defer s.Unlock()
	s.Touch()

	result, err := s.Sandbox().MoveOrder(
		cmd.OrderID(), cmd.Target(), cmd.Reason(), s.Catalog(), s.Constraints())
	return renderMoveOutcome(cmd.OrderID(), cmd.Target(), cmd.Reason(), result, err)
}

// renderMoveOutcome turns a sandbox move outcome into the exact text the
// dispatcher (or the assistant, via the tool result) sees.
func renderMoveOutcome(
	orderID string, target sandbox.Category, reason string, result sandbox.MoveResult, err error,
) (MoveOrderResult, error) {
	if err == nil {
		if result.NoOp {
			return MoveOrderResult{
				Success: true,
				Message: fmt.Sprintf("ℹ️ Order #%s is already in %s status.", orderID, target),
			}, nil
		}
		return MoveOrderResult{
			Success: true,
			Message: fmt.Sprintf("✅ Order #%s %s. %s", orderID, target.ActionVerb(), reason),
		}, nil
	}

	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return MoveOrderResult{
			Message: fmt.Sprintf("❌ Order #%s not found in any category.", orderID),
		}, nil
	}

	var capacity *sandbox.CapacityExceededError
	if errors.As(err, &capacity) {
		return MoveOrderResult{
			Message: fmt.Sprintf(
				"❌ Cannot add order #%s to route: Would exceed capacity by %d units. Current: %d/%d units.",
				orderID, capacity.OverflowUnits(), capacity.UsedUnits, capacity.CapacityUnits),
		}, nil
	}

	if errors.Is(err, sandbox.ErrNodeUnresolved) {
		return MoveOrderResult{
			Message: fmt.Sprintf("❌ Could not find order #%s in valid orders list.", orderID),
		}, nil
	}

	return MoveOrderResult{}, err
}
