package notification

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// JobStatus is the lifecycle state of a delivery job.
type JobStatus int

const (
	// JobStatusUnknown is the zero value and never valid.
	JobStatusUnknown JobStatus = iota
	// JobStatusPending means the job is waiting for its next attempt.
	JobStatusPending
	// JobStatusCompleted means every channel of the job was delivered.
	JobStatusCompleted
	// JobStatusFailed means the job exhausted its attempts.
	JobStatusFailed
)

// Validate checks the status is one of the enumerated set.
func (s JobStatus) Validate() error {
	if s < JobStatusPending || s > JobStatusFailed {
		return errs.NewValueIsInvalidErrorWithCause("job status is invalid",
			fmt.Errorf("%d is not a valid job status", int(s)))
	}
	return nil
}

// String returns the status name used in storage and logs.
func (s JobStatus) String() string {
	switch s {
	case JobStatusPending:
		return "pending"
	case JobStatusCompleted:
		return "completed"
	case JobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Retry policy for delivery jobs. The delay before attempt n (1-based) is
// retryBaseDelay * 4^(n-1): 30s, 2m, 8m.
const (
	maxDeliveryAttempts = 3
	retryBaseDelay      = 30 * time.Second
)

// Domain errors for delivery job operations.
var (
	// ErrJobIsNotConstructed is returned when using an improperly initialized Job.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob or RestoreJob constructors")
	// ErrJobIsFinished is returned when recording an outcome on a completed or failed job.
	ErrJobIsFinished = errors.New("job already reached a terminal status")
)

// Job is one durable delivery attempt record for a notification's
// background channels. Realtime delivery never goes through a Job.
type Job struct {
	id             kernel.UUID
	notificationID kernel.UUID
	recipientID    kernel.UUID
	channels       []Channel
	status         JobStatus
	attempts       int
	nextAttemptAt  time.Time
	lastError      string
	createdAt      time.Time

	guard guard.ConstructorGuard
}

// NewJob creates a pending Job due immediately.
func NewJob(id, notificationID, recipientID kernel.UUID, channels []Channel) (*Job, error) {
	now := time.Now().UTC()
	j := &Job{
		status:        JobStatusPending,
		nextAttemptAt: now,
		createdAt:     now,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		j.setID(id),
		j.setNotificationID(notificationID),
		j.setRecipientID(recipientID),
		j.setChannels(channels),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob reconstructs a Job from persistent storage.
func RestoreJob(
	id, notificationID, recipientID kernel.UUID,
	channels []Channel,
	status JobStatus,
	attempts int,
	nextAttemptAt time.Time,
	lastError string,
	createdAt time.Time,
) (*Job, error) {
	j, err := NewJob(id, notificationID, recipientID, channels)
	if err != nil {
		return nil, err
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}

	j.status = status
	j.attempts = attempts
	j.nextAttemptAt = nextAttemptAt
	j.lastError = lastError
	j.createdAt = createdAt
	return j, nil
}

// Validate ensures the Job was created through a constructor.
func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// NotificationID returns the notification this job delivers.
func (j *Job) NotificationID() kernel.UUID {
	return j.notificationID
}

// RecipientID returns the recipient the delivery targets.
func (j *Job) RecipientID() kernel.UUID {
	return j.recipientID
}

// Channels returns the background channels the job must deliver on.
func (j *Job) Channels() []Channel {
	return j.channels
}

// Status returns the job's lifecycle state.
func (j *Job) Status() JobStatus {
	return j.status
}

// Attempts returns how many delivery attempts have been recorded.
func (j *Job) Attempts() int {
	return j.attempts
}

// NextAttemptAt returns when the job becomes due. Meaningless once the
// job is terminal.
func (j *Job) NextAttemptAt() time.Time {
	return j.nextAttemptAt
}

// LastError returns the text of the most recent delivery failure.
func (j *Job) LastError() string {
	return j.lastError
}

// CreatedAt returns when the job was enqueued.
func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

// IsDue reports whether the job is pending and its next attempt time has
// passed.
func (j *Job) IsDue(now time.Time) bool {
	return j.status == JobStatusPending && !j.nextAttemptAt.After(now)
}

// RecordSuccess marks the job completed.
func (j *Job) RecordSuccess() error {
	if j.status != JobStatusPending {
		return ErrJobIsFinished
	}

	j.attempts++
	j.status = JobStatusCompleted
	return nil
}

// RecordFailure counts a failed attempt. While attempts remain the job is
// rescheduled with exponential backoff; on the final attempt it is marked
// failed for good. The returned bool reports whether the job went terminal.
func (j *Job) RecordFailure(cause error) (terminal bool, err error) {
	if j.status != JobStatusPending {
		return false, ErrJobIsFinished
	}

	j.attempts++
	if cause != nil {
		j.lastError = cause.Error()
	}

	if j.attempts >= maxDeliveryAttempts {
		j.status = JobStatusFailed
		return true, nil
	}

	j.nextAttemptAt = time.Now().UTC().Add(backoffDelay(j.attempts))
	return false, nil
}

// backoffDelay returns the delay before the next attempt given the number
// of attempts already made.
func backoffDelay(attemptsMade int) time.Duration {
	delay := retryBaseDelay
	for i := 1; i < attemptsMade; i++ {
		delay *= 4
	}
	return delay
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setNotificationID(notificationID kernel.UUID) error {
	if err := notificationID.Validate(); err != nil {
		return err
	}
	j.notificationID = notificationID
	return nil
}

func (j *Job) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}
	j.recipientID = recipientID
	return nil
}

func (j *Job) setChannels(channels []Channel) error {
	if len(channels) == 0 {
		return errs.NewValueIsRequiredError("job channels")
	}
	for _, c := range channels {
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.Background() {
			return errs.NewValueIsInvalidErrorWithCause("job channels",
				errors.New("realtime delivery is not queued"))
		}
	}
	j.channels = channels
	return nil
}
