// Package http is the inbound HTTP adapter. It translates echo requests into
// application commands and queries and renders their results as JSON.
package http

import (
	"errors"
	"net/http"

	"dispatcher/internal/core/application/usecases/commands"
	"dispatcher/internal/core/application/usecases/queries"
	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createSessionHandler commands.CreateSessionCommandHandler
	moveOrderHandler     commands.MoveOrderCommandHandler
	chatHandler          commands.ChatCommandHandler

	// Query handlers
	getSandboxHandler       queries.GetSandboxQueryHandler
	checkFeasibilityHandler queries.CheckFeasibilityQueryHandler
	validateRouteHandler    queries.ValidateRouteQueryHandler
	explainOrdersHandler    queries.ExplainOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createSessionHandler commands.CreateSessionCommandHandler,
	moveOrderHandler commands.MoveOrderCommandHandler,
	chatHandler commands.ChatCommandHandler,
	getSandboxHandler queries.GetSandboxQueryHandler,
	checkFeasibilityHandler queries.CheckFeasibilityQueryHandler,
	validateRouteHandler queries.ValidateRouteQueryHandler,
	explainOrdersHandler queries.ExplainOrdersQueryHandler,
) *Server {
	return &Server{
		createSessionHandler:    createSessionHandler,
		moveOrderHandler:        moveOrderHandler,
		chatHandler:             chatHandler,
		getSandboxHandler:       getSandboxHandler,
		checkFeasibilityHandler: checkFeasibilityHandler,
		validateRouteHandler:    validateRouteHandler,
		explainOrdersHandler:    explainOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/sessions", s.CreateSession)
	api.GET("/sessions/:sessionID/sandbox", s.GetSandbox)
	api.POST("/sessions/:sessionID/messages", s.Chat)
	api.POST("/sessions/:sessionID/orders/:orderID/move", s.MoveOrder)
	api.GET("/sessions/:sessionID/orders/:orderID/feasibility", s.CheckFeasibility)
	api.POST("/sessions/:sessionID/validation", s.ValidateRoute)
	api.GET("/sessions/:sessionID/explanations", s.ExplainOrders)
	api.GET("/suggestions", s.GetSuggestions)
}

// CreateSession handles POST /api/v1/sessions - opens a session for one
// optimization run.
func (s *Server) CreateSession(ctx echo.Context) error {
	var request CreateSessionRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cat, orders, err := sessionOrdersFromRequest(request.Orders)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	matrix, err := kernel.NewTimeMatrix(request.TimeMatrix)
	if err != nil {
		return badRequest(ctx, "Invalid time matrix: "+err.Error())
	}

	serviceTimes, err := kernel.NewServiceTimes(request.ServiceTimes)
	if err != nil {
		return badRequest(ctx, "Invalid service times: "+err.Error())
	}

	constraints, err := kernel.NewRouteConstraints(
		request.VehicleCapacityUnits, request.DeliveryWindowMinutes)
	if err != nil {
		return badRequest(ctx, "Invalid route constraints: "+err.Error())
	}

	cmd, err := commands.NewCreateSessionCommand(
		request.DepotAddress, cat, orders, matrix, serviceTimes, constraints)
	if err != nil {
		return badRequest(ctx, "Invalid session data: "+err.Error())
	}

	sessionID, err := s.createSessionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if isDomainRejection(err) {
			return badRequest(ctx, "Invalid session data: "+err.Error())
		}
		return internalError(ctx, "Failed to create session")
	}

	return ctx.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: sessionID.String(),
	})
}

// GetSandbox handles GET /api/v1/sessions/:sessionID/sandbox - returns the
// current sandbox snapshot with route metrics.
func (s *Server) GetSandbox(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionID"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	query, err := queries.NewGetSandboxQuery(sessionID)
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	snapshot, err := s.getSandboxHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapQueryError(ctx, err, "Failed to retrieve sandbox")
	}

	return ctx.JSON(http.StatusOK, SandboxResponse{
		Keep:       toSandboxOrders(snapshot.Kept),
		Early:      toSandboxOrders(snapshot.Early),
		Reschedule: toSandboxOrders(snapshot.Reschedule),
		Cancel:     toSandboxOrders(snapshot.Cancelled),

		KeptUnits:      snapshot.KeptUnits,
		CapacityUnits:  snapshot.CapacityUnits,
		RemainingUnits: snapshot.RemainingUnits,

		DriveTimeMinutes:   snapshot.DriveTimeMinutes,
		ServiceTimeMinutes: snapshot.ServiceTimeMinutes,
		RouteTimeMinutes:   snapshot.RouteTimeMinutes,
		WindowMinutes:      snapshot.WindowMinutes,
		RemainingMinutes:   snapshot.RemainingMinutes,
	})
}

// Chat handles POST /api/v1/sessions/:sessionID/messages - runs one exchange
// with the assistant.
func (s *Server) Chat(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionID"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	var request ChatRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewChatCommand(sessionID, request.Message)
	if err != nil {
		return badRequest(ctx, "Invalid chat message: "+err.Error())
	}

	result, err := s.chatHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, commands.ErrAssistantLoopExceeded) {
			return ctx.JSON(http.StatusBadGateway, Error{
				Code:    http.StatusBadGateway,
				Message: "Assistant exceeded the tool call limit",
			})
		}
		return mapQueryError(ctx, err, "Failed to process message")
	}

	return ctx.JSON(http.StatusOK, ChatResponse{
		Reply:        result.Reply,
		ToolMessages: result.ToolMessages,
	})
}

// MoveOrder handles POST /api/v1/sessions/:sessionID/orders/:orderID/move -
// moves an order to a new bucket.
func (s *Server) MoveOrder(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionID"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	var request MoveOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := sandbox.CategoryFromString(request.NewStatus)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+request.NewStatus)
	}

	cmd, err := commands.NewMoveOrderCommand(sessionID, ctx.Param("orderID"), target, request.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid move request: "+err.Error())
	}

	result, err := s.moveOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapQueryError(ctx, err, "Failed to move order")
	}

	return ctx.JSON(http.StatusOK, MoveOrderResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

// CheckFeasibility handles GET /api/v1/sessions/:sessionID/orders/:orderID/feasibility -
// estimates whether an order could be added to the route.
func (s *Server) CheckFeasibility(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionID"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	query, err := queries.NewCheckFeasibilityQuery(sessionID, ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid feasibility request: "+err.Error())
	}

	report, err := s.checkFeasibilityHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapQueryError(ctx, err, "Failed to check feasibility")
	}

	return ctx.JSON(http.StatusOK, FeasibilityResponse{
		OrderID:                report.OrderID,
		Verdict:                report.Verdict.String(),
		Summary:                report.Summary(),
		RequiredUnits:          report.RequiredUnits,
		RemainingCapacityUnits: report.RemainingCapacityUnits,
		CurrentRouteMinutes:    report.CurrentRouteMinutes,
		RemainingMinutes:       report.RemainingMinutes,
		EstimatedMinutes:       report.EstimatedMinutes,
		CapacityOK:             report.CapacityOK,
		TimeOK:                 report.TimeOK,
	})
}

// ValidateRoute handles POST /api/v1/sessions/:sessionID/validation - runs an
// analyst review of the current route.
func (s *Server) ValidateRoute(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionID"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	query, err := queries.NewValidateRouteQuery(sessionID)
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	validation, err := s.validateRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapQueryError(ctx, err, "Failed to validate route")
	}

	return ctx.JSON(http.StatusOK, ValidationResponse{Validation: validation})
}

// ExplainOrders handles GET /api/v1/sessions/:sessionID/explanations - returns
// per-order explanations of the optimizer's dispositions.
func (s *Server) ExplainOrders(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionID"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	query, err := queries.NewExplainOrdersQuery(sessionID)
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	explanations, err := s.explainOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapQueryError(ctx, err, "Failed to generate explanations")
	}

	if explanations == nil {
		explanations = map[string]string{}
	}

	return ctx.JSON(http.StatusOK, ExplanationsResponse{Explanations: explanations})
}

// GetSuggestions handles GET /api/v1/suggestions - returns starter questions
// for the chat UI.
func (s *Server) GetSuggestions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SuggestionsResponse{
		Questions: queries.SuggestedQuestions(),
	})
}

func sessionOrdersFromRequest(requestOrders []SessionOrder) (catalog.Catalog, []sandbox.Order, error) {
	catalogOrders := make([]catalog.Order, 0, len(requestOrders))
	for _, o := range requestOrders {
		source, err := catalog.NewOrder(
			o.OrderID, o.CustomerName, o.DeliveryAddress, o.Units, o.EarlyDeliveryOK)
		if err != nil {
			return catalog.Catalog{}, nil, err
		}
		catalogOrders = append(catalogOrders, source)
	}

	cat, err := catalog.NewCatalog(catalogOrders)
	if err != nil {
		return catalog.Catalog{}, nil, err
	}

	sandboxOrders := make([]sandbox.Order, 0, len(requestOrders))
	for i, o := range requestOrders {
		category, err := sandbox.CategoryFromString(o.Category)
		if err != nil {
			return catalog.Catalog{}, nil, err
		}

		var order sandbox.Order
		if category == sandbox.Keep {
			if o.Node == nil || o.SequenceIndex == nil || o.EstimatedArrival == nil {
				return catalog.Catalog{}, nil,
					errs.NewValueIsRequiredError("node, sequence_index and estimated_arrival for KEEP order " + o.OrderID)
			}
			stop, err := sandbox.NewRouteStop(kernel.Node(*o.Node), *o.SequenceIndex, *o.EstimatedArrival)
			if err != nil {
				return catalog.Catalog{}, nil, err
			}
			order, err = sandbox.NewRoutedOrder(catalogOrders[i], o.Reason, stop)
			if err != nil {
				return catalog.Catalog{}, nil, err
			}
		} else {
			order, err = sandbox.NewShelvedOrder(catalogOrders[i], category, o.Reason)
			if err != nil {
				return catalog.Catalog{}, nil, err
			}
		}
		sandboxOrders = append(sandboxOrders, order)
	}

	return cat, sandboxOrders, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

func mapQueryError(ctx echo.Context, err error, fallback string) error {
	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Session not found",
		})
	}
	if isDomainRejection(err) {
		return badRequest(ctx, err.Error())
	}
	return internalError(ctx, fallback)
}

func isDomainRejection(err error) bool {
	var invalid *errs.ValueIsInvalidError
	var required *errs.ValueIsRequiredError
	return errors.As(err, &invalid) || errors.As(err, &required)
}
