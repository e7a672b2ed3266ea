package ports

import (
	"context"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/session"
)

// TranscriptEntry is one chat message to be recorded in the audit log.
type TranscriptEntry struct {
	SessionID kernel.UUID
	Role      session.Role
	Content   string
}

// ToolExecutionEntry records one tool invocation performed during a chat
// exchange: what the assistant asked for and what came back.
type ToolExecutionEntry struct {
	SessionID kernel.UUID
	ToolName  string
	Input     string
	Result    string
	IsError   bool
}

// ChatLogRepository persists the conversation audit trail: transcript lines
// and tool executions. Orders and sandboxes are never persisted; the audit
// log exists so operators can reconstruct what the assistant did and why.
//
// Appends are best-effort from the caller's perspective: a failing audit
// write must not fail the exchange.
type ChatLogRepository interface {
	AppendTranscript(ctx context.Context, entry TranscriptEntry) error
	AppendToolExecution(ctx context.Context, entry ToolExecutionEntry) error
}
