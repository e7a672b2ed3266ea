package commands

import (
	"dispatcher/internal/core/ports"
)

const (
	toolModifySandboxOrder    = "modify_sandbox_order"
	toolCheckOrderFeasibility = "check_order_feasibility"
)

// sandboxToolSpecs defines the tools the assistant can use to work on the
// Dispatcher Sandbox during a chat exchange.
func sandboxToolSpecs() []ports.ToolSpec {
	return []ports.ToolSpec{
		{
			Name: toolModifySandboxOrder,
			Description: "Move an order between categories (KEEP, EARLY, RESCHEDULE, CANCEL) " +
				"in the Dispatcher Sandbox. Use this when the dispatcher asks to add, remove, or move orders.",
			Properties: map[string]any{
				"order_id": map[string]any{
					"type":        "string",
					"description": "The order ID to modify (e.g., '70509')",
				},
				"new_status": map[string]any{
					"type": "string",
					"enum": []string{"KEEP", "EARLY", "RESCHEDULE", "CANCEL"},
					"description": "The new status for the order. KEEP = include in route, " +
						"EARLY = deliver early, RESCHEDULE = move to different window, CANCEL = don't deliver",
				},
				"reason": map[string]any{
					"type":        "string",
					"description": "Brief explanation of why this change is being made (for audit trail)",
				},
			},
			Required: []string{"order_id", "new_status", "reason"},
		},
		{
			Name: toolCheckOrderFeasibility,
			Description: "Check if adding an order to the route is feasible given current capacity " +
				"and time constraints. Use this before moving an order to KEEP status.",
			Properties: map[string]any{
				"order_id": map[string]any{
					"type":        "string",
					"description": "The order ID to check",
				},
			},
			Required: []string{"order_id"},
		},
	}
}
