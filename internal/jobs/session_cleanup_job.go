package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatcher/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// SessionCleanupJob evicts idle conversation sessions.
// Runs every minute and removes sessions whose last activity is older than
// the configured TTL.
type SessionCleanupJob struct {
	sessions ports.SessionRepository
	ttl      time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSessionCleanupJob creates a cleanup job for idle sessions.
func NewSessionCleanupJob(
	sessions ports.SessionRepository, ttl time.Duration, logger *slog.Logger,
) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions: sessions,
		ttl:      ttl,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "session_cleanup_job"),
	}
}

// Start begins the cleanup job to run every minute.
func (j *SessionCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		if err := j.evictIdleSessions(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Session cleanup job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session cleanup job started (running every minute)",
		"ttl", j.ttl.String())
	return nil
}

// Stop stops the cleanup job.
func (j *SessionCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Session cleanup job stopped")
}

func (j *SessionCleanupJob) evictIdleSessions(ctx context.Context) error {
	sessions, err := j.sessions.All(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, s := range sessions {
		s.Lock()
		idle := s.IdleFor(now)
		s.Unlock()

		if idle <= j.ttl {
			continue
		}
		if err := j.sessions.Remove(ctx, s.ID()); err != nil {
			j.logger.ErrorContext(ctx, "Failed to remove idle session",
				"session_id", s.ID().String(), "error", err)
			continue
		}
		j.logger.InfoContext(ctx, "Removed idle session",
			"session_id", s.ID().String(), "idle", idle.String())
	}

	return nil
}
