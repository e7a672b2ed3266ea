package ports

import (
	"context"

	"dispatcher/internal/core/domain/model/session"
)

// ToolSpec describes a tool offered to the assistant model, as a JSON Schema
// object: property name to schema fragment, plus the required property names.
type ToolSpec struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// ToolCall is the model's request to invoke a tool with parsed JSON input.
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]any
}

// ToolResult carries the outcome of one tool execution back to the model.
type ToolResult struct {
	ToolCallID string
	Content    string
	IsError    bool
}

// PromptMessage is one turn of the conversation sent to the model. A turn
// carries either plain content, the model's own tool calls (assistant role),
// or tool results (user role).
type PromptMessage struct {
	Role        session.Role
	Content     string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// CompletionRequest is a single round trip to the model provider.
type CompletionRequest struct {
	System    string
	Messages  []PromptMessage
	Tools     []ToolSpec
	MaxTokens int
}

// Completion is the model's reply: its text blocks concatenated, plus any
// tool calls it wants executed. A reply with tool calls continues the round;
// a reply without them ends it.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// AssistantModel is the outbound port to the LLM provider.
//
// Implementations translate the provider-agnostic request into the provider's
// wire format. Errors are provider errors (network, auth, rate limits); the
// application layer degrades them to dispatcher-visible text.
type AssistantModel interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}
