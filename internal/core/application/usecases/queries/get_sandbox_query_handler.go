package queries

import (
	"context"

	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/core/ports"
)

// GetSandboxQueryHandler assembles sandbox snapshots for the UI.
type GetSandboxQueryHandler struct {
	sessions ports.SessionRepository
}

// NewGetSandboxQueryHandler creates a handler for sandbox snapshot queries.
func NewGetSandboxQueryHandler(sessions ports.SessionRepository) GetSandboxQueryHandler {
	return GetSandboxQueryHandler{
		sessions: sessions,
	}
}

// Handle snapshots the session's sandbox under the session lock.
func (h *GetSandboxQueryHandler) Handle(
	ctx context.Context, query GetSandboxQuery,
) (GetSandboxQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSandboxQueryResponse{}, err
	}

	s, err := h.sessions.Get(ctx, query.SessionID())
	if err != nil {
		return GetSandboxQueryResponse{}, err
	}

	s.Lock()
	defer s.Unlock()

	sb := s.Sandbox()
	keptUnits := sb.KeptUnits()
	driveTime := sb.DriveTimeMinutes(s.TimeMatrix())
	serviceTime := sb.ServiceTimeMinutes(s.ServiceTimes())
	routeTime := driveTime + serviceTime

	return GetSandboxQueryResponse{
		Kept:       toOrderResponses(sb.Kept()),
		Early:      toOrderResponses(sb.Early()),
		Reschedule: toOrderResponses(sb.Rescheduled()),
		Cancelled:  toOrderResponses(sb.Cancelled()),

		KeptUnits:      keptUnits,
		CapacityUnits:  s.Constraints().CapacityUnits(),
		RemainingUnits: s.Constraints().CapacityUnits() - keptUnits,

		DriveTimeMinutes:   driveTime,
		ServiceTimeMinutes: serviceTime,
		RouteTimeMinutes:   routeTime,
		WindowMinutes:      s.Constraints().WindowMinutes(),
		RemainingMinutes:   s.Constraints().WindowMinutes() - routeTime,
	}, nil
}

func toOrderResponses(orders []sandbox.Order) []SandboxOrderResponse {
	responses := make([]SandboxOrderResponse, 0, len(orders))
	for _, o := range orders {
		response := SandboxOrderResponse{
			OrderID:         o.ID(),
			CustomerName:    o.Source().CustomerName(),
			DeliveryAddress: o.Source().DeliveryAddress(),
			Units:           o.Units(),
			EarlyDeliveryOK: o.Source().EarlyDeliveryOK(),
			Category:        o.Category().String(),
			Reason:          o.Reason(),
		}
		if stop, ok := o.Stop(); ok {
			response.Stop = &RouteStopResponse{
				Node:                    int(stop.Node()),
				SequenceIndex:           stop.SequenceIndex(),
				EstimatedArrivalMinutes: stop.EstimatedArrivalMinutes(),
			}
		}
		responses = append(responses, response)
	}
	return responses
}
