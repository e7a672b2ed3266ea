package commands

import (
	"fmt"
	"strings"

	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/core/domain/model/session"
)

// AssistantContext renders the system context for a chat exchange: the run
// configuration, every sandbox bucket in full detail, current route metrics
// and the assistant's operating instructions.
//
// Route time here is driving time only. Unload durations are deliberately
// left out of the conversational metrics; the feasibility tool is the place
// where they count.
func AssistantContext(s *session.Session) string {
	sb := s.Sandbox()
	kept := sb.Kept()
	early := sb.Early()
	reschedule := sb.Rescheduled()
	cancelled := sb.Cancelled()

	capacity := s.Constraints().CapacityUnits()
	window := s.Constraints().WindowMinutes()
	keptUnits := sb.KeptUnits()
	remainingCapacity := capacity - keptUnits
	routeTime := sb.DriveTimeMinutes(s.TimeMatrix())
	remainingTime := window - routeTime

	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI assistant helping a delivery dispatcher understand and optimize delivery routes.

OPTIMIZATION CONFIGURATION:
===========================
- Fulfillment Location: %s
- Vehicle Capacity: %d units (Currently using: %d units, Remaining: %d units)
- Delivery Window: %d minutes (Route time: %d min, Remaining: %d min)
- Total Orders Processed: %d

COMPLETE ORDER DETAILS:
======================

KEPT ORDERS (%d orders, %d units):
`,
		s.DepotAddress(),
		capacity, keptUnits, remainingCapacity,
		window, routeTime, remainingTime,
		s.Catalog().Len(),
		len(kept), keptUnits)

	for _, o := range kept {
		stop, _ := o.Stop()
		fmt.Fprintf(&b, "\n- Order #%s: %s", o.ID(), o.Source().CustomerName())
		fmt.Fprintf(&b, "\n  Address: %s", o.Source().DeliveryAddress())
		fmt.Fprintf(&b, "\n  Units: %d", o.Units())
		fmt.Fprintf(&b, "\n  Sequence: Stop #%d", stop.SequenceIndex()+1)
		fmt.Fprintf(&b, "\n  Est. Arrival: %d min from start", stop.EstimatedArrivalMinutes())
		fmt.Fprintf(&b, "\n  Status: KEPT - On optimized route")
	}

	fmt.Fprintf(&b, "\n\nEARLY DELIVERY CANDIDATES (%d orders):", len(early))
	for _, o := range early {
		writeShelvedOrder(&b, o)
		earlyOK := "No"
		if o.Source().EarlyDeliveryOK() {
			earlyOK = "Yes"
		}
		fmt.Fprintf(&b, "\n  Early Delivery OK: %s", earlyOK)
		fmt.Fprintf(&b, "\n  Status: EARLY - %s", o.Reason())
	}

	fmt.Fprintf(&b, "\n\nRESCHEDULE CANDIDATES (%d orders):", len(reschedule))
	for _, o := range reschedule {
		writeShelvedOrder(&b, o)
		fmt.Fprintf(&b, "\n  Status: RESCHEDULE - %s", o.Reason())
	}

	fmt.Fprintf(&b, "\n\nCANCEL RECOMMENDATIONS (%d orders):", len(cancelled))
	for _, o := range cancelled {
		writeShelvedOrder(&b, o)
		fmt.Fprintf(&b, "\n  Status: CANCEL - %s", o.Reason())
	}

	fmt.Fprintf(&b, `

ROUTE CONSTRAINTS & METRICS:
============================
- Current route uses %d/%d units (%.1f%% capacity)
- Current route time: %d/%d minutes (%.1f%% of window)
- Spare capacity: %d units
- Spare time: %d minutes

YOUR ROLE & CAPABILITIES:
========================
You have access to tools that let you DIRECTLY MODIFY the Dispatcher Sandbox in response to user requests.

**Available Actions:**
1. **Move orders between categories** - Use modify_sandbox_order tool
   - KEEP: Add to route
   - EARLY: Move to early delivery
   - RESCHEDULE: Move to different window
   - CANCEL: Remove from delivery

2. **Check feasibility** - Use check_order_feasibility tool before adding orders
   - Validates capacity and time constraints
   - Provides detailed analysis

**When to Use Tools:**

**"Remove order #X" / "Take out order #X"**
→ Use modify_sandbox_order to move from KEEP to CANCEL/RESCHEDULE
→ Explain why (e.g., "Removed to free up capacity for other orders")

**"Add order #X back" / "Put order #X in the route"**
→ First use check_order_feasibility to validate
→ If feasible, use modify_sandbox_order to move to KEEP
→ If not feasible, explain why and suggest alternatives (remove other orders first)

**"Move order #X to early delivery"**
→ Use modify_sandbox_order to move to EARLY status
→ Confirm customer approved early delivery

**Question-Only Requests:**
**"Why is order #X not included?"**
→ Don't use tools, just explain the reason from the data above

**"What if I remove order #X?"**
→ Don't use tools, just calculate what would change

**IMPORTANT RULES:**
✅ USE TOOLS when dispatcher clearly wants to make changes ("remove", "add", "move")
✅ DON'T use tools for hypothetical questions ("what if", "can you", "would it")
✅ ALWAYS check feasibility before adding orders to KEEP
✅ Be specific about why you're making each change
✅ After using tools, explain what you did and the impact on capacity/time
✅ Changes you make with tools are IMMEDIATELY applied to the Dispatcher Sandbox
✅ Users can see updated map and metrics after you make changes
`,
		keptUnits, capacity, percent(keptUnits, capacity),
		routeTime, window, percent(routeTime, window),
		remainingCapacity,
		remainingTime)

	return b.String()
}

func writeShelvedOrder(b *strings.Builder, o sandbox.Order) {
	fmt.Fprintf(b, "\n- Order #%s: %s", o.ID(), o.Source().CustomerName())
	fmt.Fprintf(b, "\n  Address: %s", o.Source().DeliveryAddress())
	fmt.Fprintf(b, "\n  Units: %d", o.Units())
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
