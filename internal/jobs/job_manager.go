package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs of the dispatch engine.
type JobManager struct {
	riderMatchingJob  *RiderMatchingJob
	matchingExpiryJob *MatchingExpiryJob
}

// NewJobManager wires both dispatch jobs from their command handlers.
func NewJobManager(
	matchHandler commands.MatchRidersCommandHandler,
	expireHandler commands.ExpireMatchingCommandHandler,
	matchingWindow time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		riderMatchingJob:  NewRiderMatchingJob(matchHandler, logger),
		matchingExpiryJob: NewMatchingExpiryJob(expireHandler, matchingWindow, logger),
	}
}

// StartAll starts all scheduled jobs, stopping already-started ones when a
// later job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.riderMatchingJob.Start(); err != nil {
		return fmt.Errorf("failed to start rider matching job: %w", err)
	}

	if err := jm.matchingExpiryJob.Start(); err != nil {
		jm.riderMatchingJob.Stop()
		return fmt.Errorf("failed to start matching expiry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs.
func (jm *JobManager) StopAll() {
	jm.matchingExpiryJob.Stop()
	jm.riderMatchingJob.Stop()
}
