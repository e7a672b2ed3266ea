// Package chatlog persists the conversation audit trail: transcript lines and
// tool executions. Rows are append-only; the sandbox itself is never stored.
package chatlog

import (
	"time"

	"dispatcher/internal/core/ports"

	"github.com/google/uuid"
)

// TranscriptDTO is one chat message row in the audit log.
type TranscriptDTO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SessionID uuid.UUID `gorm:"type:uuid;index"`
	Role      string
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the database table name for transcript rows.
func (TranscriptDTO) TableName() string {
	return "chat_transcripts"
}

// ToolExecutionDTO is one tool invocation row in the audit log: the
// assistant's input and what the tool returned.
type ToolExecutionDTO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	SessionID uuid.UUID `gorm:"type:uuid;index"`
	ToolName  string
	Input     string `gorm:"type:text"`
	Result    string `gorm:"type:text"`
	IsError   bool
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the database table name for tool execution rows.
func (ToolExecutionDTO) TableName() string {
	return "chat_tool_executions"
}

func fromTranscriptEntry(entry ports.TranscriptEntry) TranscriptDTO {
	return TranscriptDTO{
		SessionID: entry.SessionID.Bytes(),
		Role:      string(entry.Role),
		Content:   entry.Content,
	}
}

func fromToolExecutionEntry(entry ports.ToolExecutionEntry) ToolExecutionDTO {
	return ToolExecutionDTO{
		SessionID: entry.SessionID.Bytes(),
		ToolName:  entry.ToolName,
		Input:     entry.Input,
		Result:    entry.Result,
		IsError:   entry.IsError,
	}
}
