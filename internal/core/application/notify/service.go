// Package notify implements notification fan-out: persist first, push to
// live connections best-effort, queue durable delivery for the rest.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/ports"
)

var ErrServiceIsNotConstructed = errors.New(
	"notify Service must be created via NewService constructor",
)

// UoW is the transaction surface the service needs.
type UoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	NotificationRepository() ports.NotificationRepository
}

// UoWFactory creates a fresh UoW per operation.
type UoWFactory interface {
	Create() UoW
}

// Service fans a notification out across its requested channels.
//
// The ordering contract:
//  1. the Notification row is persisted unconditionally, before anything else;
//  2. realtime push is attempted best-effort, failures are logged and never
//     surfaced;
//  3. background channels are enqueued as one durable job; a queue failure
//     does not roll back step 1 and is reported through the queued flag, not
//     as an error.
type Service struct {
	uowFactory UoWFactory
	emitter    ports.RealtimeEmitter
	logger     *slog.Logger
}

// NewService creates the fan-out service.
func NewService(uowFactory UoWFactory, emitter ports.RealtimeEmitter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		uowFactory: uowFactory,
		emitter:    emitter,
		logger:     logger,
	}
}

// Validate reports whether the service was built through the constructor.
func (s *Service) Validate() error {
	if s == nil || s.uowFactory == nil {
		return ErrServiceIsNotConstructed
	}
	return nil
}

// Dispatch creates and fans out one notification.
// Returns the persisted notification id and whether durable queuing (when
// requested) succeeded. An error means the notification was not persisted;
// every later step degrades instead of failing.
func (s *Service) Dispatch(
	ctx context.Context,
	recipientID kernel.UUID,
	kind, title, body string,
	payload map[string]any,
	channels []notification.Channel,
) (kernel.UUID, bool, error) {
	aggregate, err := notification.NewNotification(
		kernel.NewUUID(), recipientID, kind, title, body, payload, channels)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	if err = s.persist(ctx, aggregate); err != nil {
		return kernel.UUID{}, false, err
	}

	if aggregate.WantsRealtime() {
		s.pushRealtime(aggregate)
	}

	queued := true
	if background := aggregate.BackgroundChannels(); len(background) > 0 {
		if err = s.enqueue(ctx, aggregate, background); err != nil {
			s.logger.Error("notification job enqueue failed",
				"notificationId", aggregate.ID().String(), "error", err)
			queued = false
		}
	}

	return aggregate.ID(), queued, nil
}

func (s *Service) persist(ctx context.Context, aggregate *notification.Notification) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.NotificationRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// pushRealtime emits to the recipient's individual scope. A panicking or
// absent emitter degrades to a log line; the notification row already exists
// and clients recover it by polling.
func (s *Service) pushRealtime(aggregate *notification.Notification) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("realtime push panicked",
				"notificationId", aggregate.ID().String(), "panic", r)
		}
	}()

	if s.emitter == nil {
		return
	}

	delivered := s.emitter.EmitToScope(
		ports.UserScope(aggregate.RecipientID()),
		NotificationNewEvent{
			ID:        aggregate.ID().String(),
			Kind:      aggregate.Kind(),
			Title:     aggregate.Title(),
			Body:      aggregate.Body(),
			Payload:   aggregate.Payload(),
			CreatedAt: aggregate.CreatedAt(),
		},
	)
	if !delivered {
		s.logger.Debug("recipient not connected, realtime push skipped",
			"notificationId", aggregate.ID().String())
	}
}

func (s *Service) enqueue(
	ctx context.Context, aggregate *notification.Notification, channels []notification.Channel,
) error {
	job, err := notification.NewJob(
		kernel.NewUUID(), aggregate.ID(), aggregate.RecipientID(), channels)
	if err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.NotificationRepository().Enqueue(ctx, job); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
