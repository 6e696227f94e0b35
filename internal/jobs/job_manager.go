package jobs

import (
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	deliveryJob  *NotificationDeliveryJob
	retentionJob *JobRetentionJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	uowFactory ports.UnitOfWorkFactory,
	gateways []ports.MessageGateway,
	deliveryWorkers int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		deliveryJob:  NewNotificationDeliveryJob(uowFactory, gateways, deliveryWorkers, logger),
		retentionJob: NewJobRetentionJob(uowFactory, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.deliveryJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification delivery job: %w", err)
	}

	if err := jm.retentionJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.deliveryJob.Stop()
		return fmt.Errorf("failed to start job retention job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.retentionJob.Stop()
	jm.deliveryJob.Stop()
}
