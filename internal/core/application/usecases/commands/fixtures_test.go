package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/core/domain/model/session"
	"dispatcher/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SessionRepositoryMock struct {
	mock.Mock
}

func (m *SessionRepositoryMock) Add(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepositoryMock) Get(ctx context.Context, id kernel.UUID) (*session.Session, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*session.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepositoryMock) Remove(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepositoryMock) All(ctx context.Context) ([]*session.Session, error) {
	args := m.Called(ctx)
	if sessions, ok := args.Get(0).([]*session.Session); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

type AssistantModelMock struct {
	mock.Mock
}

func (m *AssistantModelMock) Complete(
	ctx context.Context, req ports.CompletionRequest,
) (ports.Completion, error) {
	args := m.Called(ctx, req)
	if completion, ok := args.Get(0).(ports.Completion); ok {
		return completion, args.Error(1)
	}
	return ports.Completion{}, args.Error(1)
}

type ChatLogRepositoryMock struct {
	mock.Mock
}

func (m *ChatLogRepositoryMock) AppendTranscript(ctx context.Context, entry ports.TranscriptEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ChatLogRepositoryMock) AppendToolExecution(ctx context.Context, entry ports.ToolExecutionEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sessionFixture builds a session with #70509 (10 units) and #70592 (20 units)
// kept at nodes 1 and 2, and #70610 (5 units) rescheduled at node 3.
func sessionFixture(t *testing.T, capacityUnits int, windowMinutes int) *session.Session {
	t.Helper()

	o1, err := catalog.NewOrder("70509", "Jane Miller", "12 Oak St", 10, false)
	require.NoError(t, err)
	o2, err := catalog.NewOrder("70592", "Bob Chen", "44 Maple Ave", 20, true)
	require.NoError(t, err)
	o3, err := catalog.NewOrder("70610", "Tom Reed", "9 Elm St", 5, true)
	require.NoError(t, err)

	cat, err := catalog.NewCatalog([]catalog.Order{o1, o2, o3})
	require.NoError(t, err)

	matrix, err := kernel.NewTimeMatrix([][]int{
		{0, 5, 7, 10},
		{5, 0, 4, 8},
		{7, 4, 0, 6},
		{10, 8, 6, 0},
	})
	require.NoError(t, err)

	serviceTimes, err := kernel.NewServiceTimes([]int{0, 4, 2})
	require.NoError(t, err)

	constraints, err := kernel.NewRouteConstraints(capacityUnits, windowMinutes)
	require.NoError(t, err)

	stop1, err := sandbox.NewRouteStop(1, 0, 0)
	require.NoError(t, err)
	kept1, err := sandbox.NewRoutedOrder(o1, "On optimized route", stop1)
	require.NoError(t, err)

	stop2, err := sandbox.NewRouteStop(2, 1, 0)
	require.NoError(t, err)
	kept2, err := sandbox.NewRoutedOrder(o2, "On optimized route", stop2)
	require.NoError(t, err)

	shelved, err := sandbox.NewShelvedOrder(o3, sandbox.Reschedule, "Too far from cluster")
	require.NoError(t, err)

	sb, err := sandbox.NewSandbox([]sandbox.Order{kept1, kept2, shelved})
	require.NoError(t, err)

	s, err := session.NewSession(
		kernel.NewUUID(), "100 Warehouse Rd", cat, matrix, serviceTimes, constraints, sb)
	require.NoError(t, err)
	return s
}
