package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/core/domain/model/session"
	"dispatcher/internal/core/domain/services"
	"dispatcher/internal/core/ports"
)

const (
	// DefaultMaxToolRounds bounds how many tool rounds one exchange may run.
	DefaultMaxToolRounds = 10

	maxChatTokens = 2000

	notConfiguredMessage = "⚠️ Chat assistant is not configured. " +
		"Please add your ANTHROPIC_API_KEY to the .env file to enable AI chat."
)

// ErrAssistantLoopExceeded is returned when the assistant keeps requesting
// tool rounds past the hard cap and the exchange is aborted.
var ErrAssistantLoopExceeded = errors.New("assistant loop exceeded")

// exchangeState tracks where a chat exchange is in its model/tool loop.
type exchangeState int

const (
	stateAwaitingModel exchangeState = iota
	stateExecutingTools
	stateDone
	stateLoopExceeded
)

// ChatResult is the outcome of one chat exchange: the assistant's final reply
// and the confirmation messages of every sandbox change made along the way.
type ChatResult struct {
	Reply        string
	ToolMessages []string
}

// ChatCommandHandler runs one dispatcher message through the assistant.
//
// An exchange is a bounded loop: the model replies with text or with tool
// calls; tool calls are executed against the session's sandbox and their
// results sent back, until the model replies with text only or the round cap
// trips. The whole exchange runs under the session lock so tool executions
// see a stable sandbox.
//
// A nil model means the assistant is not configured: exchanges degrade to a
// fixed notice. A nil chat log disables the audit trail.
type ChatCommandHandler struct {
	sessions      ports.SessionRepository
	model         ports.AssistantModel
	chatLog       ports.ChatLogRepository
	checker       services.FeasibilityChecker
	maxToolRounds int
	logger        *slog.Logger
}

// NewChatCommandHandler creates a handler for chat exchanges.
func NewChatCommandHandler(
	sessions ports.SessionRepository,
	model ports.AssistantModel,
	chatLog ports.ChatLogRepository,
	logger *slog.Logger,
) ChatCommandHandler {
	return ChatCommandHandler{
		sessions:      sessions,
		model:         model,
		chatLog:       chatLog,
		checker:       services.NewFeasibilityChecker(),
		maxToolRounds: DefaultMaxToolRounds,
		logger:        logger.With("component", "chat_handler"),
	}
}

// Handle runs the exchange and returns the assistant's reply.
//
// Provider failures are not errors to the caller: they degrade to a reply the
// dispatcher can read, leaving the session transcript untouched. The only
// exchange-level error is ErrAssistantLoopExceeded.
func (h *ChatCommandHandler) Handle(ctx context.Context, cmd ChatCommand) (ChatResult, error) {
	if err := cmd.Validate(); err != nil {
		return ChatResult{}, err
	}

	s, err := h.sessions.Get(ctx, cmd.SessionID())
	if err != nil {
		return ChatResult{}, err
	}

	s.Lock()
	defer s.Unlock()

	if h.model == nil {
		return ChatResult{Reply: notConfiguredMessage}, nil
	}

	prompt := promptFromHistory(s.PromptHistory())
	prompt = append(prompt, ports.PromptMessage{Role: session.RoleUser, Content: cmd.Message()})

	request := ports.CompletionRequest{
		System:    AssistantContext(s),
		Tools:     sandboxToolSpecs(),
		MaxTokens: maxChatTokens,
	}

	var (
		completion   ports.Completion
		toolMessages []string
		executions   []ports.ToolExecutionEntry
	)

	rounds := 0
	state := stateAwaitingModel

	for {
		switch state {
		case stateAwaitingModel:
			request.Messages = prompt
			completion, err = h.model.Complete(ctx, request)
			if err != nil {
				h.logger.WarnContext(ctx, "assistant provider call failed", "error", err)
				return ChatResult{
					Reply: fmt.Sprintf("❌ Error communicating with AI assistant: %s", err),
				}, nil
			}

			if len(completion.ToolCalls) > 0 {
				state = stateExecutingTools
			} else {
				state = stateDone
			}

		case stateExecutingTools:
			rounds++
			if rounds > h.maxToolRounds {
				state = stateLoopExceeded
				continue
			}

			results := make([]ports.ToolResult, 0, len(completion.ToolCalls))
			for _, call := range completion.ToolCalls {
				result := h.executeTool(s, call)
				results = append(results, result)

				if call.Name == toolModifySandboxOrder {
					toolMessages = append(toolMessages, result.Content)
				}
				executions = append(executions, ports.ToolExecutionEntry{
					SessionID: s.ID(),
					ToolName:  call.Name,
					Input:     encodeToolInput(call.Input),
					Result:    result.Content,
					IsError:   result.IsError,
				})
			}

			prompt = append(prompt,
				ports.PromptMessage{
					Role:      session.RoleAssistant,
					Content:   completion.Text,
					ToolCalls: completion.ToolCalls,
				},
				ports.PromptMessage{
					Role:        session.RoleUser,
					ToolResults: results,
				},
			)
			state = stateAwaitingModel

		case stateDone:
			s.AppendUserMessage(cmd.Message())
			s.AppendAssistantMessage(completion.Text)
			h.audit(ctx, s, cmd.Message(), completion.Text, executions)

			return ChatResult{Reply: completion.Text, ToolMessages: toolMessages}, nil

		case stateLoopExceeded:
			h.logger.WarnContext(ctx, "chat exchange aborted",
				"session_id", s.ID().String(), "tool_rounds", rounds-1)
			return ChatResult{}, ErrAssistantLoopExceeded
		}
	}
}

func (h *ChatCommandHandler) executeTool(s *session.Session, call ports.ToolCall) ports.ToolResult {
	switch call.Name {
	case toolModifySandboxOrder:
		return h.executeModifyOrder(s, call)
	case toolCheckOrderFeasibility:
		return h.executeCheckFeasibility(s, call)
	default:
		return ports.ToolResult{
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("❌ Unknown tool %q.", call.Name),
			IsError:    true,
		}
	}
}

func (h *ChatCommandHandler) executeModifyOrder(s *session.Session, call ports.ToolCall) ports.ToolResult {
	orderID, _ := call.Input["order_id"].(string)
	newStatus, _ := call.Input["new_status"].(string)
	reason, _ := call.Input["reason"].(string)

	target, err := sandbox.CategoryFromString(newStatus)
	if err != nil {
		return ports.ToolResult{
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("❌ Unknown status %q.", newStatus),
			IsError:    true,
		}
	}

	result, err := s.Sandbox().MoveOrder(orderID, target, reason, s.Catalog(), s.Constraints())
	outcome, err := renderMoveOutcome(orderID, target, reason, result, err)
	if err != nil {
		return ports.ToolResult{
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("❌ %s", err),
			IsError:    true,
		}
	}

	return ports.ToolResult{
		ToolCallID: call.ID,
		Content:    outcome.Message,
		IsError:    !outcome.Success,
	}
}

func (h *ChatCommandHandler) executeCheckFeasibility(s *session.Session, call ports.ToolCall) ports.ToolResult {
	orderID, _ := call.Input["order_id"].(string)

	report, err := h.checker.Check(
		orderID, s.Sandbox(), s.Catalog(), s.TimeMatrix(), s.ServiceTimes(), s.Constraints())
	if err != nil {
		return ports.ToolResult{
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("❌ %s", err),
			IsError:    true,
		}
	}

	return ports.ToolResult{ToolCallID: call.ID, Content: report.Summary()}
}

// audit records the exchange in the chat log. Audit failures are logged and
// swallowed: the dispatcher already has the reply.
func (h *ChatCommandHandler) audit(
	ctx context.Context,
	s *session.Session,
	userMessage string,
	reply string,
	executions []ports.ToolExecutionEntry,
) {
	if h.chatLog == nil {
		return
	}

	entries := []ports.TranscriptEntry{
		{SessionID: s.ID(), Role: session.RoleUser, Content: userMessage},
		{SessionID: s.ID(), Role: session.RoleAssistant, Content: reply},
	}
	for _, entry := range entries {
		if err := h.chatLog.AppendTranscript(ctx, entry); err != nil {
			h.logger.WarnContext(ctx, "transcript audit write failed", "error", err)
		}
	}
	for _, execution := range executions {
		if err := h.chatLog.AppendToolExecution(ctx, execution); err != nil {
			h.logger.WarnContext(ctx, "tool execution audit write failed", "error", err)
		}
	}
}

func promptFromHistory(history []session.Message) []ports.PromptMessage {
	prompt := make([]ports.PromptMessage, 0, len(history)+1)
	for _, msg := range history {
		prompt = append(prompt, ports.PromptMessage{Role: msg.Role, Content: msg.Content})
	}
	return prompt
}

func encodeToolInput(input map[string]any) string {
	encoded, err := json.Marshal(input)
	if err != nil {
		return fmt.Sprintf("%v", input)
	}
	return string(encoded)
}
