package jobs

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// finishedJobRetention is how long completed and terminally failed delivery
// jobs stay around for inspection before the sweeper removes them.
const finishedJobRetention = 7 * 24 * time.Hour

// JobRetentionJob removes finished delivery jobs past the retention window.
// Pending jobs are never touched regardless of age.
type JobRetentionJob struct {
	uowFactory ports.UnitOfWorkFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewJobRetentionJob creates the retention sweeper.
func NewJobRetentionJob(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) *JobRetentionJob {
	return &JobRetentionJob{
		uowFactory: uowFactory,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "job_retention_job"),
	}
}

// Start begins the retention job to run at the top of every hour.
func (j *JobRetentionJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Job retention sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Job retention job started (running hourly)")
	return nil
}

// Stop stops the retention job.
func (j *JobRetentionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Job retention job stopped")
}

// RunOnce deletes one batch of expired finished jobs.
func (j *JobRetentionJob) RunOnce(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().UTC().Add(-finishedJobRetention)
	removed, err := uow.NotificationRepository().DeleteFinishedJobsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if removed > 0 {
		j.logger.InfoContext(ctx, "Removed expired delivery jobs", "count", removed)
	}
	return nil
}
