package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"marketplace/internal/core/application/usecases/commands"
)

// RiderMatchingJob runs a matching round every second, offering pending
// deliveries to the best available rider.
type RiderMatchingJob struct {
	handler commands.MatchRidersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRiderMatchingJob creates the matching job.
func NewRiderMatchingJob(handler commands.MatchRidersCommandHandler, logger *slog.Logger) *RiderMatchingJob {
	return &RiderMatchingJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "rider_matching_job"),
	}
}

// Start schedules the matching round to run every second.
func (j *RiderMatchingJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewMatchRidersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "rider matching round failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "rider matching job started (running every second)")
	return nil
}

// Stop stops the matching job.
func (j *RiderMatchingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "rider matching job stopped")
}
