// Package notificationrepo persists notifications and their background
// delivery jobs. Notifications are the durable inbox record; jobs carry the
// retry state for non-realtime channels.
package notificationrepo

import (
	"encoding/json"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
)

// NotificationDTO represents the database structure for persisting
// notifications. The recipient/read composite index serves both the feed
// query and the unread counter.
type NotificationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;index:idx_notifications_recipient_read"`
	Kind        string    `gorm:"index"`
	Title       string
	Body        string
	Payload     []byte `gorm:"type:jsonb"`
	// Channels holds the requested channel names comma-separated,
	// e.g. "realtime,sms".
	Channels  string
	Read      bool `gorm:"index:idx_notifications_recipient_read"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for notifications.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// JobDTO represents the database structure for delivery jobs.
// The status/next_attempt_at pair is what ClaimDue scans.
type JobDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	NotificationID uuid.UUID `gorm:"type:uuid;index"`
	RecipientID    uuid.UUID `gorm:"type:uuid"`
	Channels       string
	Status         string `gorm:"index:idx_notification_jobs_due"`
	Attempts       int
	NextAttemptAt  time.Time `gorm:"index:idx_notification_jobs_due"`
	LastError      string
	CreatedAt      time.Time
}

// TableName specifies the database table name for delivery jobs.
func (JobDTO) TableName() string {
	return "notification_jobs"
}

// fromDomain converts a notification aggregate to its database representation.
func fromDomain(aggregate *notification.Notification) (NotificationDTO, error) {
	var payload []byte
	if aggregate.Payload() != nil {
		raw, err := json.Marshal(aggregate.Payload())
		if err != nil {
			return NotificationDTO{}, err
		}
		payload = raw
	}

	return NotificationDTO{
		ID:          aggregate.ID().Bytes(),
		RecipientID: aggregate.RecipientID().Bytes(),
		Kind:        aggregate.Kind(),
		Title:       aggregate.Title(),
		Body:        aggregate.Body(),
		Payload:     payload,
		Channels:    channelsToText(aggregate.Channels()),
		Read:        aggregate.Read(),
		ReadAt:      aggregate.ReadAt(),
		CreatedAt:   aggregate.CreatedAt(),
	}, nil
}

// toDomain converts a database DTO to a notification aggregate.
func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if len(dto.Payload) > 0 {
		if err = json.Unmarshal(dto.Payload, &payload); err != nil {
			return nil, err
		}
	}

	channels, err := channelsFromText(dto.Channels)
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(
		id, recipientID, dto.Kind, dto.Title, dto.Body,
		payload, channels, dto.Read, dto.ReadAt, dto.CreatedAt,
	)
}

// jobFromDomain converts a delivery job aggregate to its database representation.
func jobFromDomain(job *notification.Job) JobDTO {
	return JobDTO{
		ID:             job.ID().Bytes(),
		NotificationID: job.NotificationID().Bytes(),
		RecipientID:    job.RecipientID().Bytes(),
		Channels:       channelsToText(job.Channels()),
		Status:         job.Status().String(),
		Attempts:       job.Attempts(),
		NextAttemptAt:  job.NextAttemptAt(),
		LastError:      job.LastError(),
		CreatedAt:      job.CreatedAt(),
	}
}

// jobToDomain converts a database DTO to a delivery job aggregate.
func jobToDomain(dto JobDTO) (*notification.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	notificationID, err := kernel.UUIDFromBytes(dto.NotificationID[:])
	if err != nil {
		return nil, err
	}

	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	channels, err := channelsFromText(dto.Channels)
	if err != nil {
		return nil, err
	}

	status, err := jobStatusFromName(dto.Status)
	if err != nil {
		return nil, err
	}

	return notification.RestoreJob(
		id, notificationID, recipientID, channels,
		status, dto.Attempts, dto.NextAttemptAt, dto.LastError, dto.CreatedAt,
	)
}

func channelsToText(channels []notification.Channel) string {
	names := make([]string, len(channels))
	for i, channel := range channels {
		names[i] = string(channel)
	}
	return strings.Join(names, ",")
}

func channelsFromText(text string) ([]notification.Channel, error) {
	if text == "" {
		return nil, errs.NewValueIsRequiredError("channels")
	}

	names := strings.Split(text, ",")
	channels := make([]notification.Channel, len(names))
	for i, name := range names {
		channel := notification.Channel(name)
		if err := channel.Validate(); err != nil {
			return nil, err
		}
		channels[i] = channel
	}
	return channels, nil
}

func jobStatusFromName(name string) (notification.JobStatus, error) {
	for _, status := range []notification.JobStatus{
		notification.JobStatusPending,
		notification.JobStatusCompleted,
		notification.JobStatusFailed,
	} {
		if status.String() == name {
			return status, nil
		}
	}
	return notification.JobStatusUnknown, errs.NewValueIsInvalidError("job status")
}
