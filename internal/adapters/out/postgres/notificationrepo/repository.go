package notificationrepo

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultPageSize applies when a fetch does not specify one.
const defaultPageSize = 20

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB, tracker aggregateTracker) *GormNotificationRepository {
	return &GormNotificationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new notification to the database.
func (r *GormNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a notification by ID.
func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByRecipient retrieves a recipient's notifications newest first, along
// with the total count matching the filters.
func (r *GormNotificationRepository) GetByRecipient(
	ctx context.Context, recipientID kernel.UUID, params ports.NotificationFetchParams,
) ([]*notification.Notification, int64, error) {
	if err := recipientID.Validate(); err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	scope := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("recipient_id = ?", recipientID.Bytes())
	if params.UnreadOnly {
		scope = scope.Where("read = FALSE")
	}
	if params.Kind != "" {
		scope = scope.Where("kind = ?", params.Kind)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []NotificationDTO
	if err := scope.
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&dtos).Error; err != nil {
		return nil, 0, err
	}

	notifications := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, aggregate)
	}

	return notifications, total, nil
}

// CountUnread returns how many of the recipient's notifications are unread.
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	if err := recipientID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("recipient_id = ? AND read = FALSE", recipientID.Bytes()).
		Count(&count).Error
	return count, err
}

// Update persists a notification's read state.
func (r *GormNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"read":    aggregate.Read(),
			"read_at": aggregate.ReadAt(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// MarkAllRead marks every unread notification of the recipient as read.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	if err := recipientID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("recipient_id = ? AND read = FALSE", recipientID.Bytes()).
		Updates(map[string]any{
			"read":    true,
			"read_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

// Enqueue persists a new delivery job.
func (r *GormNotificationRepository) Enqueue(ctx context.Context, job *notification.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dto := jobFromDomain(job)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(job.ID(), job)
	return nil
}

// ClaimDue retrieves up to limit pending jobs whose next attempt time has
// passed, oldest first. Rows are locked with FOR UPDATE SKIP LOCKED so
// concurrent workers never claim the same job.
func (r *GormNotificationRepository) ClaimDue(
	ctx context.Context, now time.Time, limit int,
) ([]*notification.Job, error) {
	var dtos []JobDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND next_attempt_at <= ?", notification.JobStatusPending.String(), now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	jobs := make([]*notification.Job, 0, len(dtos))
	for _, dto := range dtos {
		job, err := jobToDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// UpdateJob persists a job's attempt count, schedule and status.
func (r *GormNotificationRepository) UpdateJob(ctx context.Context, job *notification.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", job.ID().Bytes()).
		Updates(map[string]any{
			"status":          job.Status().String(),
			"attempts":        job.Attempts(),
			"next_attempt_at": job.NextAttemptAt(),
			"last_error":      job.LastError(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification job", job.ID().String())
	}

	r.tracker.TrackAggregate(job.ID(), job)
	return nil
}

// DeleteFinishedJobsBefore removes completed and failed jobs created before
// the cutoff.
func (r *GormNotificationRepository) DeleteFinishedJobsBefore(
	ctx context.Context, cutoff time.Time,
) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", []string{
			notification.JobStatusCompleted.String(),
			notification.JobStatusFailed.String(),
		}, cutoff).
		Delete(&JobDTO{})
	return result.RowsAffected, result.Error
}
