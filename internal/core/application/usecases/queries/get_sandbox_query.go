package queries

import (
	"errors"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/guard"
)

var ErrGetSandboxQueryIsNotConstructed = errors.New(
	"GetSandboxQuery must be created via NewGetSandboxQuery constructor",
)

// GetSandboxQuery retrieves the current sandbox state of a session, with the
// route metrics the dispatcher UI renders next to the buckets.
type GetSandboxQuery struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSandboxQuery creates a sandbox snapshot query for a session.
func NewGetSandboxQuery(sessionID kernel.UUID) (GetSandboxQuery, error) {
	if err := sessionID.Validate(); err != nil {
		return GetSandboxQuery{}, err
	}

	return GetSandboxQuery{
		sessionID: sessionID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetSandboxQuery) Validate() error {
	return q.guard.Validate(ErrGetSandboxQueryIsNotConstructed)
}

// SessionID returns the id of the session to snapshot.
func (q GetSandboxQuery) SessionID() kernel.UUID {
	return q.sessionID
}

// RouteStopResponse is the route placement of a kept order.
type RouteStopResponse struct {
	Node                    int
	SequenceIndex           int
	EstimatedArrivalMinutes int
}

// SandboxOrderResponse is one sandbox order in a snapshot. Stop is nil for
// orders outside the route.
type SandboxOrderResponse struct {
	OrderID         string
	CustomerName    string
	DeliveryAddress string
	Units           int
	EarlyDeliveryOK bool
	Category        string
	Reason          string
	Stop            *RouteStopResponse
}

// GetSandboxQueryResponse is a full sandbox snapshot: every bucket plus the
// capacity and time metrics of the current route.
type GetSandboxQueryResponse struct {
	Kept       []SandboxOrderResponse
	Early      []SandboxOrderResponse
	Reschedule []SandboxOrderResponse
	Cancelled  []SandboxOrderResponse

	KeptUnits      int
	CapacityUnits  int
	RemainingUnits int

	DriveTimeMinutes   int
	ServiceTimeMinutes int
	RouteTimeMinutes   int
	WindowMinutes      int
	RemainingMinutes   int
}
