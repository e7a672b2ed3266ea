package queries

import (
	"context"

	"dispatcher/internal/core/domain/services"
	"dispatcher/internal/core/ports"
)

// CheckFeasibilityQueryHandler runs the feasibility service against a
// session's current sandbox.
type CheckFeasibilityQueryHandler struct {
	sessions ports.SessionRepository
	checker  services.FeasibilityChecker
}

// NewCheckFeasibilityQueryHandler creates a handler for feasibility queries.
func NewCheckFeasibilityQueryHandler(sessions ports.SessionRepository) CheckFeasibilityQueryHandler {
	return CheckFeasibilityQueryHandler{
		sessions: sessions,
		checker:  services.NewFeasibilityChecker(),
	}
}

// Handle checks the candidate order under the session lock and returns the
// report. The sandbox is never modified.
func (h *CheckFeasibilityQueryHandler) Handle(
	ctx context.Context, query CheckFeasibilityQuery,
) (services.FeasibilityReport, error) {
	if err := query.Validate(); err != nil {
		return services.FeasibilityReport{}, err
	}

	s, err := h.sessions.Get(ctx, query.SessionID())
	if err != nil {
		return services.FeasibilityReport{}, err
	}

	s.Lock()
	defer s.Unlock()

	return h.checker.Check(
		query.OrderID(), s.Sandbox(), s.Catalog(), s.TimeMatrix(), s.ServiceTimes(), s.Constraints())
}
