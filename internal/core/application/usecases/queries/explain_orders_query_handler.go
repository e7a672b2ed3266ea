package queries

import (
	"context"
	"fmt"
	"strings"

	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/core/domain/model/session"
	"dispatcher/internal/core/ports"
)

const explanationsMaxTokens = 2000

// ExplainOrdersQueryHandler generates one short explanation per sandbox
// order, keyed by order id.
//
// In test mode explanations are fixed per-category texts. Without a
// configured model the result is nil and callers fall back to the reasons
// already recorded on the orders.
type ExplainOrdersQueryHandler struct {
	sessions ports.SessionRepository
	model    ports.AssistantModel
	testMode bool
}

// NewExplainOrdersQueryHandler creates a handler for order explanations.
func NewExplainOrdersQueryHandler(
	sessions ports.SessionRepository, model ports.AssistantModel, testMode bool,
) ExplainOrdersQueryHandler {
	return ExplainOrdersQueryHandler{
		sessions: sessions,
		model:    model,
		testMode: testMode,
	}
}

// Handle returns explanations for every order in the session's sandbox.
// Provider failures surface as errors; the caller keeps the recorded reasons.
func (h *ExplainOrdersQueryHandler) Handle(
	ctx context.Context, query ExplainOrdersQuery,
) (map[string]string, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s, err := h.sessions.Get(ctx, query.SessionID())
	if err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	if h.testMode {
		return mockExplanations(s.Sandbox().AllOrders()), nil
	}
	if h.model == nil {
		return nil, nil
	}

	completion, err := h.model.Complete(ctx, ports.CompletionRequest{
		Messages: []ports.PromptMessage{
			{Role: session.RoleUser, Content: explanationsPrompt(s)},
		},
		MaxTokens: explanationsMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return parseExplanations(completion.Text), nil
}

func mockExplanations(orders []sandbox.Order) map[string]string {
	explanations := make(map[string]string, len(orders))
	for _, o := range orders {
		var explanation string
		switch o.Category() {
		case sandbox.Keep:
			explanation = "Test mode - Order kept in optimized route"
		case sandbox.Early:
			explanation = "Test mode - Order eligible for early delivery"
		case sandbox.Reschedule:
			explanation = "Test mode - Order recommended for rescheduling"
		case sandbox.Cancel:
			explanation = "Test mode - Order recommended for cancellation"
		default:
			explanation = "Test mode - Generic reason"
		}
		explanations[o.ID()] = explanation
	}
	return explanations
}

// explanationsPrompt lists every order with its disposition and asks the
// model for one "ORDER_ID|explanation" line per order.
func explanationsPrompt(s *session.Session) string {
	sb := s.Sandbox()
	kept := sb.Kept()
	early := sb.Early()
	reschedule := sb.Rescheduled()
	cancelled := sb.Cancelled()
	total := len(kept) + len(early) + len(reschedule) + len(cancelled)

	var b strings.Builder

	fmt.Fprintf(&b, `You are a logistics expert explaining route optimization decisions to a dispatcher.

CONTEXT:
- Fulfillment Location: %s
- Total orders processed: %d
- Orders kept in route: %d
- Orders for alternate handling: %d

ORDERS KEPT IN ROUTE:
`,
		s.DepotAddress(), total, len(kept), len(early)+len(reschedule)+len(cancelled))

	for _, o := range kept {
		stop, _ := o.Stop()
		depotLeg := 0
		if minutes, err := s.TimeMatrix().Travel(0, stop.Node()); err == nil {
			depotLeg = minutes
		}
		fmt.Fprintf(&b, "\n- Order #%s: %s, %d units", o.ID(), o.Source().CustomerName(), o.Units())
		fmt.Fprintf(&b, "\n  Stop #%d, %d min from depot", stop.SequenceIndex()+1, depotLeg)
	}

	writeExplanationBucket(&b, "EARLY DELIVERY CANDIDATES", early)
	writeExplanationBucket(&b, "RESCHEDULE CANDIDATES", reschedule)
	writeExplanationBucket(&b, "CANCEL RECOMMENDATIONS", cancelled)

	b.WriteString(`

YOUR TASK:
Generate a brief, specific explanation (1-2 sentences) for EACH order explaining why it received its disposition.

Format your response EXACTLY as follows (one line per order):
ORDER_ID|explanation text here

Examples:
70509|Kept in route - optimal position in cluster, minimizes total drive time while fitting capacity constraints.
70592|Recommended for early delivery - only 8 minutes from route cluster and customer approved early delivery.
70610|Recommended for rescheduling - 15 minutes from cluster, would add significant time but could fit in adjacent window.
70611|Recommended for cancellation - 25+ minutes from route cluster, cost to serve exceeds delivery value.

Generate explanations for ALL orders listed above. Be specific about:
- Geographic reasoning (distances, cluster positioning)
- Efficiency factors (units delivered, time added)
- Constraint impacts (capacity, time window)
- Strategic recommendations (why this disposition makes business sense)

Format: ORDER_ID|explanation (one per line, no extra text)
`)

	return b.String()
}

func writeExplanationBucket(b *strings.Builder, heading string, orders []sandbox.Order) {
	fmt.Fprintf(b, "\n\n%s (%d orders):", heading, len(orders))
	for _, o := range orders {
		fmt.Fprintf(b, "\n- Order #%s: %s, %d units", o.ID(), o.Source().CustomerName(), o.Units())
		fmt.Fprintf(b, "\n  Address: %s", o.Source().DeliveryAddress())
	}
}

// parseExplanations reads "ORDER_ID|explanation" lines, splitting on the
// first pipe and ignoring anything else.
func parseExplanations(text string) map[string]string {
	explanations := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		orderID, explanation, found := strings.Cut(line, "|")
		if !found {
			continue
		}
		orderID = strings.TrimSpace(orderID)
		explanation = strings.TrimSpace(explanation)
		if orderID == "" || explanation == "" {
			continue
		}
		explanations[orderID] = explanation
	}
	return explanations
}
