package commands

import (
	"context"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/core/domain/model/session"
	"dispatcher/internal/core/ports"
)

// CreateSessionCommandHandler opens a session: it assembles the sandbox from
// the optimizer's classified orders, creates the session aggregate and stores
// it in the session repository.
type CreateSessionCommandHandler struct {
	sessions ports.SessionRepository
}

// NewCreateSessionCommandHandler creates a handler for session creation.
func NewCreateSessionCommandHandler(sessions ports.SessionRepository) CreateSessionCommandHandler {
	return CreateSessionCommandHandler{
		sessions: sessions,
	}
}

// Handle processes the session creation command and returns the id of the
// newly stored session.
func (h *CreateSessionCommandHandler) Handle(
	ctx context.Context, cmd CreateSessionCommand,
) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	sb, err := sandbox.NewSandbox(cmd.Orders())
	if err != nil {
		return kernel.UUID{}, err
	}

	s, err := session.NewSession(
		kernel.NewUUID(),
		cmd.DepotAddress(),
		cmd.Catalog(),
		cmd.Matrix(),
		cmd.ServiceTimes(),
		cmd.Constraints(),
		sb,
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err := h.sessions.Add(ctx, s); err != nil {
		return kernel.UUID{}, err
	}

	return s.ID(), nil
}
