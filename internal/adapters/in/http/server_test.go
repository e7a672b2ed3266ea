package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpin "dispatcher/internal/adapters/in/http"
	"dispatcher/internal/adapters/out/inmemory"
	"dispatcher/internal/core/application/usecases/commands"
	"dispatcher/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createSessionBody = `{
	"depot_address": "100 Warehouse Rd",
	"vehicle_capacity_units": 100,
	"delivery_window_minutes": 240,
	"time_matrix": [[0,5,7,10],[5,0,4,8],[7,4,0,6],[10,8,6,0]],
	"service_times": [0,4,2],
	"orders": [
		{"order_id":"70509","customer_name":"Jane Miller","delivery_address":"12 Oak St","units":10,"early_delivery_ok":true,"category":"KEEP","reason":"On route","node":1,"sequence_index":0,"estimated_arrival":5},
		{"order_id":"70592","customer_name":"Bob Chen","delivery_address":"44 Maple Ave","units":20,"early_delivery_ok":false,"category":"KEEP","reason":"High priority","node":2,"sequence_index":1,"estimated_arrival":9},
		{"order_id":"70610","customer_name":"Tom Reed","delivery_address":"9 Elm St","units":5,"early_delivery_ok":true,"category":"RESCHEDULE","reason":"Too far from cluster"}
	]
}`

// newTestServer wires the full handler stack over an in-memory session
// repository with no model configured and test mode on.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	sessions := inmemory.NewSessionRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httpin.NewServer(
		commands.NewCreateSessionCommandHandler(sessions),
		commands.NewMoveOrderCommandHandler(sessions),
		commands.NewChatCommandHandler(sessions, nil, nil, logger),
		queries.NewGetSandboxQueryHandler(sessions),
		queries.NewCheckFeasibilityQueryHandler(sessions),
		queries.NewValidateRouteQueryHandler(sessions, nil, true),
		queries.NewExplainOrdersQueryHandler(sessions, nil, true),
	)

	e := echo.New()
	server.RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := doRequest(e, http.MethodPost, "/api/v1/sessions", createSessionBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response httpin.CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotEmpty(t, response.SessionID)
	return response.SessionID
}

func TestCreateSession(t *testing.T) {
	t.Run("returns_session_id", func(t *testing.T) {
		e := newTestServer(t)

		sessionID := createSession(t, e)
		assert.NotEmpty(t, sessionID)
	})

	t.Run("rejects_invalid_body", func(t *testing.T) {
		e := newTestServer(t)

		rec := doRequest(e, http.MethodPost, "/api/v1/sessions", `{"orders": "nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects_kept_order_without_stop", func(t *testing.T) {
		e := newTestServer(t)

		body := strings.Replace(createSessionBody,
			`"category":"KEEP","reason":"On route","node":1,"sequence_index":0,"estimated_arrival":5`,
			`"category":"KEEP","reason":"On route"`, 1)
		rec := doRequest(e, http.MethodPost, "/api/v1/sessions", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects_unknown_category", func(t *testing.T) {
		e := newTestServer(t)

		body := strings.Replace(createSessionBody, `"category":"RESCHEDULE"`, `"category":"POSTPONE"`, 1)
		rec := doRequest(e, http.MethodPost, "/api/v1/sessions", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetSandbox(t *testing.T) {
	t.Run("returns_snapshot_with_metrics", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodGet, "/api/v1/sessions/"+sessionID+"/sandbox", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.SandboxResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

		assert.Len(t, response.Keep, 2)
		assert.Len(t, response.Reschedule, 1)
		assert.Empty(t, response.Early)
		assert.Empty(t, response.Cancel)

		assert.Equal(t, 30, response.KeptUnits)
		assert.Equal(t, 100, response.CapacityUnits)
		assert.Equal(t, 70, response.RemainingUnits)
		assert.Equal(t, 16, response.DriveTimeMinutes)
		assert.Equal(t, 6, response.ServiceTimeMinutes)
		assert.Equal(t, 22, response.RouteTimeMinutes)
		assert.Equal(t, 218, response.RemainingMinutes)

		require.NotNil(t, response.Keep[0].Node)
		assert.Equal(t, 1, *response.Keep[0].Node)
		assert.Nil(t, response.Reschedule[0].Node)
	})

	t.Run("unknown_session_returns_404", func(t *testing.T) {
		e := newTestServer(t)

		rec := doRequest(e, http.MethodGet,
			"/api/v1/sessions/0b7b8c9a-2f6e-4f4b-9b3a-1c2d3e4f5a6b/sandbox", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed_session_id_returns_400", func(t *testing.T) {
		e := newTestServer(t)

		rec := doRequest(e, http.MethodGet, "/api/v1/sessions/not-a-uuid/sandbox", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMoveOrder(t *testing.T) {
	t.Run("moves_order_to_cancel", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodPost,
			"/api/v1/sessions/"+sessionID+"/orders/70509/move",
			`{"new_status":"CANCEL","reason":"Customer called to cancel"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.MoveOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "✅ Order #70509 removed from route (cancelled). Customer called to cancel", response.Message)

		rec = doRequest(e, http.MethodGet, "/api/v1/sessions/"+sessionID+"/sandbox", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot httpin.SandboxResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Len(t, snapshot.Keep, 1)
		assert.Len(t, snapshot.Cancel, 1)
		assert.Equal(t, 20, snapshot.KeptUnits)
	})

	t.Run("unknown_order_reports_failure", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodPost,
			"/api/v1/sessions/"+sessionID+"/orders/99999/move",
			`{"new_status":"CANCEL","reason":"Cleanup"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.MoveOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.False(t, response.Success)
		assert.Equal(t, "❌ Order #99999 not found in any category.", response.Message)
	})

	t.Run("invalid_status_returns_400", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodPost,
			"/api/v1/sessions/"+sessionID+"/orders/70509/move",
			`{"new_status":"POSTPONE","reason":"Whatever"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing_reason_returns_400", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodPost,
			"/api/v1/sessions/"+sessionID+"/orders/70509/move",
			`{"new_status":"CANCEL"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChat(t *testing.T) {
	t.Run("unconfigured_assistant_returns_notice", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodPost,
			"/api/v1/sessions/"+sessionID+"/messages",
			`{"message":"Can you add back order #70610?"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Contains(t, response.Reply, "Chat assistant is not configured")
		assert.Empty(t, response.ToolMessages)
	})

	t.Run("empty_message_returns_400", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodPost,
			"/api/v1/sessions/"+sessionID+"/messages", `{"message":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCheckFeasibility(t *testing.T) {
	t.Run("shelved_order_is_feasible", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodGet,
			"/api/v1/sessions/"+sessionID+"/orders/70610/feasibility", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.FeasibilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "FEASIBLE", response.Verdict)
		assert.Equal(t, 5, response.RequiredUnits)
		assert.Equal(t, 70, response.RemainingCapacityUnits)
		assert.True(t, response.CapacityOK)
		assert.True(t, response.TimeOK)
		assert.Contains(t, response.Summary, "FEASIBLE")
	})

	t.Run("unknown_order_reports_not_found_verdict", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodGet,
			"/api/v1/sessions/"+sessionID+"/orders/99999/feasibility", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.FeasibilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "NOT_FOUND", response.Verdict)
		assert.Equal(t, "❌ Order #99999 not found.", response.Summary)
	})
}

func TestValidateRoute(t *testing.T) {
	t.Run("test_mode_returns_template", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodPost, "/api/v1/sessions/"+sessionID+"/validation", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.ValidationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Contains(t, response.Validation, "2 orders kept")
	})
}

func TestExplainOrders(t *testing.T) {
	t.Run("test_mode_explains_every_order", func(t *testing.T) {
		e := newTestServer(t)
		sessionID := createSession(t, e)

		rec := doRequest(e, http.MethodGet, "/api/v1/sessions/"+sessionID+"/explanations", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var response httpin.ExplanationsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Len(t, response.Explanations, 3)
		assert.Contains(t, response.Explanations, "70509")
		assert.Contains(t, response.Explanations, "70610")
	})
}

func TestGetSuggestions(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/suggestions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response httpin.SuggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Questions, 6)
	assert.Contains(t, response.Questions, "Can you add back order #70610?")
}
