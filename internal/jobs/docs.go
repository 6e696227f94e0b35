// Package jobs provides scheduled background tasks for the delivery system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the delivery service.
//
// # Available Jobs
//
// 1. NotificationDeliveryJob - Runs every second to drain due delivery jobs
// through the configured message gateways with bounded concurrency
// 2. JobRetentionJob - Runs hourly to remove finished delivery jobs past the
// retention window
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the unit of work factory and gateways
//	jobManager := jobs.NewJobManager(uowFactory, gateways, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Delivery failures schedule a retry with exponential backoff until the
// attempt limit, then the failure is logged and the job marked failed
// - Claimed jobs are locked for the transaction, so concurrent instances
// never deliver the same job twice
// - Failed job starts will stop any already running jobs
package jobs
