package queries

// SuggestedQuestions returns prompts dispatchers commonly start with. The UI
// shows them next to an empty chat box.
func SuggestedQuestions() []string {
	return []string{
		"Why was order #70592 kept in the route?",
		"Can you add back order #70610?",
		"Remove order #70509 from the route",
		"Why are some orders recommended for cancellation?",
		"How can I fit more orders in this route?",
		"Which rescheduled orders are closest to the current route?",
	}
}
