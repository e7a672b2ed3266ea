package chatlog

import (
	"context"

	"dispatcher/internal/core/ports"
	"dispatcher/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.ChatLogRepository = (*GormChatLogRepository)(nil)

// GormChatLogRepository implements ChatLogRepository using GORM.
type GormChatLogRepository struct {
	db *gorm.DB
}

// NewGormChatLogRepository creates a new GORM chat log repository.
func NewGormChatLogRepository(db *gorm.DB) *GormChatLogRepository {
	return &GormChatLogRepository{
		db: db,
	}
}

// AppendTranscript records one chat message.
func (r *GormChatLogRepository) AppendTranscript(ctx context.Context, entry ports.TranscriptEntry) error {
	if err := entry.SessionID.Validate(); err != nil {
		return err
	}
	if entry.Role == "" {
		return errs.NewValueIsRequiredError("role")
	}

	dto := fromTranscriptEntry(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// AppendToolExecution records one tool invocation.
func (r *GormChatLogRepository) AppendToolExecution(ctx context.Context, entry ports.ToolExecutionEntry) error {
	if err := entry.SessionID.Validate(); err != nil {
		return err
	}
	if entry.ToolName == "" {
		return errs.NewValueIsRequiredError("toolName")
	}

	dto := fromToolExecutionEntry(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}
