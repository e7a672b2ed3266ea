package queries

import (
	"context"
	"fmt"
	"strings"

	"dispatcher/internal/core/domain/model/session"
	"dispatcher/internal/core/ports"
)

const (
	validationMaxTokens = 800

	validationSystemPrompt = "You are an expert logistics analyst validating delivery route optimizations."
)

// ValidateRouteQueryHandler produces the analyst review of a route.
//
// In test mode the review is a template filled from the sandbox, with no
// provider call. Without a configured model the review is empty. Provider
// failures degrade to a readable notice.
type ValidateRouteQueryHandler struct {
	sessions ports.SessionRepository
	model    ports.AssistantModel
	testMode bool
}

// NewValidateRouteQueryHandler creates a handler for route validation.
// A nil model disables validation outside test mode.
func NewValidateRouteQueryHandler(
	sessions ports.SessionRepository, model ports.AssistantModel, testMode bool,
) ValidateRouteQueryHandler {
	return ValidateRouteQueryHandler{
		sessions: sessions,
		model:    model,
		testMode: testMode,
	}
}

// Handle renders the validation text for the session's current route.
func (h *ValidateRouteQueryHandler) Handle(
	ctx context.Context, query ValidateRouteQuery,
) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}

	s, err := h.sessions.Get(ctx, query.SessionID())
	if err != nil {
		return "", err
	}

	s.Lock()
	defer s.Unlock()

	if h.testMode {
		return mockValidation(s), nil
	}
	if h.model == nil {
		return "", nil
	}

	completion, err := h.model.Complete(ctx, ports.CompletionRequest{
		System: validationSystemPrompt,
		Messages: []ports.PromptMessage{
			{Role: session.RoleUser, Content: validationPrompt(s)},
		},
		MaxTokens: validationMaxTokens,
	})
	if err != nil {
		return fmt.Sprintf("⚠️ Could not validate results: %s", err), nil
	}

	return completion.Text, nil
}

// mockValidation fills the test mode template from the sandbox, skipping the
// provider entirely.
func mockValidation(s *session.Session) string {
	sb := s.Sandbox()
	capacity := s.Constraints().CapacityUnits()
	keptUnits := sb.KeptUnits()

	return fmt.Sprintf(`✅ Route validation (Test Mode - Mock Response):

**Capacity Check:**
- %d orders kept (%d/%d units = %.1f%%)
- Capacity constraint satisfied

**Order Disposition:**
- %d orders on route
- %d orders for early delivery
- %d orders to reschedule
- %d orders to cancel

**Time Estimate:**
- Estimated route time: %d minutes (test mode uses simplified calculation)

**Test Mode Notice:** This is a mock validation. Enable AI (disable test mode) for detailed route analysis.`,
		len(sb.Kept()), keptUnits, capacity, routePercent(keptUnits, capacity),
		len(sb.Kept()), len(sb.Early()), len(sb.Rescheduled()), len(sb.Cancelled()),
		s.Constraints().WindowMinutes())
}

// validationPrompt lays out the full route for the analyst: totals,
// constraints, metrics with the drive/service split, and the kept sequence.
func validationPrompt(s *session.Session) string {
	sb := s.Sandbox()
	kept := sb.Kept()
	capacity := s.Constraints().CapacityUnits()
	window := s.Constraints().WindowMinutes()
	keptUnits := sb.KeptUnits()
	driveTime := sb.DriveTimeMinutes(s.TimeMatrix())
	serviceTime := sb.ServiceTimeMinutes(s.ServiceTimes())
	routeTime := driveTime + serviceTime

	var b strings.Builder

	fmt.Fprintf(&b, `You are an expert logistics analyst reviewing an optimized delivery route.
Your job is to:
1. Validate the math and logic
2. Explain why this route makes the most sense
3. Flag any concerns or considerations

OPTIMIZATION RESULTS:
===================
Total Orders: %d
- KEPT: %d orders (%d units)
- EARLY DELIVERY: %d orders
- RESCHEDULE: %d orders
- CANCEL: %d orders

CONSTRAINTS:
- Vehicle Capacity: %d units
- Delivery Window: %d minutes

ROUTE METRICS:
- Capacity Used: %d/%d units (%.1f%%)
- Drive Time: %d minutes
- Service Time: %d minutes (unloading at %d stops)
- Total Route Time: %d minutes (%.1f%% of window)

KEPT ORDERS SEQUENCE:
`,
		s.Catalog().Len(),
		len(kept), keptUnits,
		len(sb.Early()), len(sb.Rescheduled()), len(sb.Cancelled()),
		capacity, window,
		keptUnits, capacity, routePercent(keptUnits, capacity),
		driveTime,
		serviceTime, len(kept),
		routeTime, routePercent(routeTime, window))

	for _, o := range kept {
		stop, _ := o.Stop()
		fmt.Fprintf(&b, "\n%d. Order #%s: %d units, %d min service time",
			stop.SequenceIndex()+1, o.ID(), o.Units(), s.ServiceTimes().At(stop.Node()))
	}

	fmt.Fprintf(&b, `

DROPPED ORDERS:
- %d orders marked for early delivery (customer approved)
- %d orders to reschedule (10-20 min from cluster)
- %d orders to cancel (>20 min from cluster)

YOUR TASK:
=========
1. **Validate Math**: Verify capacity (%d ≤ %d) and time (%d ≤ %d)
2. **Check Logic**: Confirm dropped orders make sense given constraints
3. **Explain Route**: Why is THIS specific route optimal? What makes it better than alternatives?
4. **Flag Concerns**: Any edge cases, tight margins, or risks?

Provide a concise analysis (4-6 sentences) that helps the dispatcher understand and trust this route.
Focus on:
- Why we kept these %d orders specifically
- Why we dropped the others
- Any tight constraints (capacity at %.0f%%, time at %.0f%%)
- Overall confidence in this route
`,
		len(sb.Early()), len(sb.Rescheduled()), len(sb.Cancelled()),
		keptUnits, capacity, routeTime, window,
		len(kept),
		routePercent(keptUnits, capacity), routePercent(routeTime, window))

	return b.String()
}

func routePercent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
