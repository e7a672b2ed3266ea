// Package anthropicllm implements the assistant model port on top of the
// Anthropic Messages API.
package anthropicllm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dispatcher/internal/core/domain/model/session"
	"dispatcher/internal/core/ports"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

// Client translates provider-agnostic completion requests into Anthropic
// Messages API calls.
type Client struct {
	client anthropic.Client
	model  string
}

// NewClient creates an assistant model client.
// An empty model falls back to DefaultModel.
func NewClient(apiKey string, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete runs one round trip to the Messages API and returns the reply's
// text blocks concatenated plus any requested tool calls.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (ports.Completion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  toMessageParams(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = toToolParams(req.Tools)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return ports.Completion{}, err
	}

	return parseMessage(msg)
}

func toMessageParams(messages []ports.PromptMessage) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		var blocks []anthropic.ContentBlockParamUnion
		if msg.Content != "" {
			blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
		}
		for _, call := range msg.ToolCalls {
			blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Input, call.Name))
		}
		for _, result := range msg.ToolResults {
			blocks = append(blocks, anthropic.NewToolResultBlock(
				result.ToolCallID, result.Content, result.IsError))
		}

		if msg.Role == session.RoleAssistant {
			params = append(params, anthropic.NewAssistantMessage(blocks...))
		} else {
			params = append(params, anthropic.NewUserMessage(blocks...))
		}
	}
	return params
}

func toToolParams(tools []ports.ToolSpec) []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		params = append(params, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: tool.Properties,
					Required:   tool.Required,
				},
			},
		})
	}
	return params
}

func parseMessage(msg *anthropic.Message) (ports.Completion, error) {
	var completion ports.Completion
	var text strings.Builder

	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			input := make(map[string]any)
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &input); err != nil {
					return ports.Completion{}, fmt.Errorf("decode tool input for %s: %w", b.Name, err)
				}
			}
			completion.ToolCalls = append(completion.ToolCalls, ports.ToolCall{
				ID:    b.ID,
				Name:  b.Name,
				Input: input,
			})
		}
	}

	completion.Text = text.String()
	return completion, nil
}
