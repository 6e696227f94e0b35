package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	// defaultBatchSize bounds how many due jobs one tick claims.
	defaultBatchSize = 50
	// defaultWorkers bounds how many gateway sends run concurrently.
	defaultWorkers = 4
)

// NotificationDeliveryJob drains the durable delivery queue.
// Runs every second, claims due jobs under row locks and pushes their
// channels through the configured gateways. A crash between a gateway send
// and the commit re-delivers on restart; channel sends are at-least-once.
type NotificationDeliveryJob struct {
	uowFactory ports.UnitOfWorkFactory
	gateways   map[notification.Channel]ports.MessageGateway
	cron       *cron.Cron
	logger     *slog.Logger
	batchSize  int
	workers    int
}

// NewNotificationDeliveryJob creates the queue worker. A non-positive
// workers count falls back to the default. Channels without a configured
// gateway fail their jobs permanently, so the gateway set should cover every
// channel the notify service enqueues.
func NewNotificationDeliveryJob(
	uowFactory ports.UnitOfWorkFactory,
	gateways []ports.MessageGateway,
	workers int,
	logger *slog.Logger,
) *NotificationDeliveryJob {
	byChannel := make(map[notification.Channel]ports.MessageGateway, len(gateways))
	for _, gateway := range gateways {
		byChannel[gateway.Channel()] = gateway
	}

	if workers <= 0 {
		workers = defaultWorkers
	}

	return &NotificationDeliveryJob{
		uowFactory: uowFactory,
		gateways:   byChannel,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "notification_delivery_job"),
		batchSize:  defaultBatchSize,
		workers:    workers,
	}
}

// Start begins the delivery job to run every second.
func (j *NotificationDeliveryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Notification delivery tick failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification delivery job started (running every second)")
	return nil
}

// Stop stops the delivery job.
func (j *NotificationDeliveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification delivery job stopped")
}

// RunOnce claims and processes one batch of due jobs.
// The claim, the outcome records and the commit share one transaction, so a
// claimed job is either fully recorded or released for the next tick.
func (j *NotificationDeliveryJob) RunOnce(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()

	claimed, err := repo.ClaimDue(ctx, time.Now().UTC(), j.batchSize)
	if err != nil {
		return err
	}
	if len(claimed) == 0 {
		return uow.Rollback(ctx)
	}

	outcomes := j.deliverAll(ctx, repo, claimed)

	for i, job := range claimed {
		if recordErr := j.record(ctx, repo, job, outcomes[i]); recordErr != nil {
			return recordErr
		}
	}

	return uow.Commit(ctx)
}

// deliverAll pushes the claimed jobs through their gateways with bounded
// concurrency. Notifications are loaded up front and outcomes recorded by
// the caller, because the shared transaction is not safe for concurrent use.
func (j *NotificationDeliveryJob) deliverAll(
	ctx context.Context, repo ports.NotificationRepository, claimed []*notification.Job,
) []error {
	outcomes := make([]error, len(claimed))
	payloads := make([]*notification.Notification, len(claimed))

	for i, job := range claimed {
		payloads[i], outcomes[i] = repo.Get(ctx, job.NotificationID())
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, j.workers)

	for i, job := range claimed {
		if outcomes[i] != nil {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job *notification.Job, aggregate *notification.Notification) {
			defer wg.Done()
			defer func() { <-sem }()

			outcomes[i] = j.deliver(ctx, job, aggregate)
		}(i, job, payloads[i])
	}

	wg.Wait()
	return outcomes
}

// deliver sends every channel of one job, stopping at the first failure so
// the retry picks up from a consistent error.
func (j *NotificationDeliveryJob) deliver(
	ctx context.Context, job *notification.Job, aggregate *notification.Notification,
) error {
	for _, channel := range job.Channels() {
		gateway, ok := j.gateways[channel]
		if !ok {
			return errs.NewValueIsInvalidError("no gateway for channel " + string(channel))
		}

		if err := gateway.Send(ctx, aggregate); err != nil {
			return err
		}
	}
	return nil
}

// record persists one job's outcome. Terminal failures are logged and
// swallowed; the notification row itself stays available in the inbox.
func (j *NotificationDeliveryJob) record(
	ctx context.Context, repo ports.NotificationRepository, job *notification.Job, outcome error,
) error {
	if outcome == nil {
		if err := job.RecordSuccess(); err != nil {
			return err
		}
		return repo.UpdateJob(ctx, job)
	}

	terminal, err := job.RecordFailure(outcome)
	if err != nil {
		return err
	}

	if terminal {
		j.logger.ErrorContext(ctx, "Notification delivery failed permanently",
			"jobId", job.ID().String(),
			"notificationId", job.NotificationID().String(),
			"attempts", job.Attempts(),
			"error", outcome)
	} else {
		j.logger.WarnContext(ctx, "Notification delivery failed, will retry",
			"jobId", job.ID().String(),
			"attempt", job.Attempts(),
			"nextAttemptAt", job.NextAttemptAt(),
			"error", outcome)
	}

	return repo.UpdateJob(ctx, job)
}
