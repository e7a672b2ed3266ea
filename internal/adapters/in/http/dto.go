package http

import (
	"dispatcher/internal/core/application/usecases/queries"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateSessionRequest carries one optimization run: the catalog, the
// optimizer's classified orders and the run constraints.
type CreateSessionRequest struct {
	DepotAddress          string         `json:"depot_address"`
	VehicleCapacityUnits  int            `json:"vehicle_capacity_units"`
	DeliveryWindowMinutes int            `json:"delivery_window_minutes"`
	TimeMatrix            [][]int        `json:"time_matrix"`
	ServiceTimes          []int          `json:"service_times"`
	Orders                []SessionOrder `json:"orders"`
}

// SessionOrder is one classified order in a session creation request.
// Node, sequence index and estimated arrival are present only for KEEP.
type SessionOrder struct {
	OrderID          string `json:"order_id"`
	CustomerName     string `json:"customer_name"`
	DeliveryAddress  string `json:"delivery_address"`
	Units            int    `json:"units"`
	EarlyDeliveryOK  bool   `json:"early_delivery_ok"`
	Category         string `json:"category"`
	Reason           string `json:"reason"`
	Node             *int   `json:"node,omitempty"`
	SequenceIndex    *int   `json:"sequence_index,omitempty"`
	EstimatedArrival *int   `json:"estimated_arrival,omitempty"`
}

// CreateSessionResponse returns the id of the newly opened session.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SandboxOrder is one sandbox order in a snapshot response.
type SandboxOrder struct {
	OrderID          string `json:"order_id"`
	CustomerName     string `json:"customer_name"`
	DeliveryAddress  string `json:"delivery_address"`
	Units            int    `json:"units"`
	EarlyDeliveryOK  bool   `json:"early_delivery_ok"`
	Category         string `json:"category"`
	Reason           string `json:"reason"`
	Node             *int   `json:"node,omitempty"`
	SequenceIndex    *int   `json:"sequence_index,omitempty"`
	EstimatedArrival *int   `json:"estimated_arrival,omitempty"`
}

// SandboxResponse is a full sandbox snapshot with route metrics.
type SandboxResponse struct {
	Keep       []SandboxOrder `json:"keep"`
	Early      []SandboxOrder `json:"early"`
	Reschedule []SandboxOrder `json:"reschedule"`
	Cancel     []SandboxOrder `json:"cancel"`

	KeptUnits      int `json:"kept_units"`
	CapacityUnits  int `json:"capacity_units"`
	RemainingUnits int `json:"remaining_units"`

	DriveTimeMinutes   int `json:"drive_time_minutes"`
	ServiceTimeMinutes int `json:"service_time_minutes"`
	RouteTimeMinutes   int `json:"route_time_minutes"`
	WindowMinutes      int `json:"window_minutes"`
	RemainingMinutes   int `json:"remaining_minutes"`
}

// ChatRequest is one dispatcher message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant's reply plus any sandbox change reports.
type ChatResponse struct {
	Reply        string   `json:"reply"`
	ToolMessages []string `json:"tool_messages,omitempty"`
}

// MoveOrderRequest asks to move an order to a new bucket.
type MoveOrderRequest struct {
	NewStatus string `json:"new_status"`
	Reason    string `json:"reason"`
}

// MoveOrderResponse reports whether the sandbox accepted the move.
type MoveOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FeasibilityResponse is the outcome of a feasibility check.
type FeasibilityResponse struct {
	OrderID                string `json:"order_id"`
	Verdict                string `json:"verdict"`
	Summary                string `json:"summary"`
	RequiredUnits          int    `json:"required_units"`
	RemainingCapacityUnits int    `json:"remaining_capacity_units"`
	CurrentRouteMinutes    int    `json:"current_route_minutes"`
	RemainingMinutes       int    `json:"remaining_minutes"`
	EstimatedMinutes       int    `json:"estimated_minutes"`
	CapacityOK             bool   `json:"capacity_ok"`
	TimeOK                 bool   `json:"time_ok"`
}

// ValidationResponse is the analyst review of the current route.
type ValidationResponse struct {
	Validation string `json:"validation"`
}

// ExplanationsResponse maps order ids to their explanations.
type ExplanationsResponse struct {
	Explanations map[string]string `json:"explanations"`
}

// SuggestionsResponse lists questions dispatchers commonly start with.
type SuggestionsResponse struct {
	Questions []string `json:"questions"`
}

func toSandboxOrders(orders []queries.SandboxOrderResponse) []SandboxOrder {
	out := make([]SandboxOrder, 0, len(orders))
	for _, o := range orders {
		dto := SandboxOrder{
			OrderID:         o.OrderID,
			CustomerName:    o.CustomerName,
			DeliveryAddress: o.DeliveryAddress,
			Units:           o.Units,
			EarlyDeliveryOK: o.EarlyDeliveryOK,
			Category:        o.Category,
			Reason:          o.Reason,
		}
		if o.Stop != nil {
			node := o.Stop.Node
			seq := o.Stop.SequenceIndex
			eta := o.Stop.EstimatedArrivalMinutes
			dto.Node = &node
			dto.SequenceIndex = &seq
			dto.EstimatedArrival = &eta
		}
		out = append(out, dto)
	}
	return out
}
