// Package jobs provides scheduled background tasks for the dispatcher.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping.
//
// # Available Jobs
//
// 1. SessionCleanupJob - Runs every minute to evict conversation sessions
// that have been idle longer than the configured TTL
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(sessionRepository, sessionTTL, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Cleanup failures are logged and retried on the next tick; a session that
// cannot be removed now will be picked up again a minute later.
package jobs
