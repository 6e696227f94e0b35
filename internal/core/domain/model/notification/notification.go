// Package notification implements the Notification aggregate and the durable
// NotificationJob that carries non-realtime channel delivery.
//
// A Notification is the record a client polls; it is persisted exactly once,
// before any delivery attempt, and mutated only by mark-read operations.
// NotificationJobs are consumed by a background worker and retired after a
// bounded number of attempts.
package notification

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// Channel is a delivery channel for a notification.
type Channel string

const (
	// ChannelRealtime delivers over the live push/presence connection.
	ChannelRealtime Channel = "realtime"
	// ChannelSMS delivers via the SMS gateway collaborator.
	ChannelSMS Channel = "sms"
	// ChannelEmail delivers via the email gateway collaborator.
	ChannelEmail Channel = "email"
	// ChannelMobilePush delivers via the mobile push gateway collaborator.
	ChannelMobilePush Channel = "mobile_push"
)

// Validate checks the channel is one of the enumerated set.
func (c Channel) Validate() error {
	switch c {
	case ChannelRealtime, ChannelSMS, ChannelEmail, ChannelMobilePush:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("channel is invalid",
			fmt.Errorf("%q is not a valid channel", string(c)))
	}
}

// Background reports whether the channel is drained by the background worker
// rather than the live connection.
func (c Channel) Background() bool {
	return c != ChannelRealtime
}

// Domain errors for notification operations.
var (
	// ErrNotificationIsNotConstructed is returned when using an improperly initialized Notification.
	ErrNotificationIsNotConstructed = errors.New(
		"Notification must be created via NewNotification or RestoreNotification constructors")
	// ErrTypeIsRequired is returned when creating a notification without a type.
	ErrTypeIsRequired = errs.NewValueIsRequiredError("notification type")
	// ErrTitleIsRequired is returned when creating a notification without a title.
	ErrTitleIsRequired = errs.NewValueIsRequiredError("notification title")
)

// Notification is a message addressed to one recipient.
// Payload is arbitrary structured data forwarded to clients untouched.
type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	// kind is the type/category clients filter on, e.g. "order_update".
	kind     string
	title    string
	body     string
	payload  map[string]any
	channels []Channel
	read     bool
	readAt   *time.Time
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewNotification creates an unread Notification.
func NewNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	kind, title, body string,
	payload map[string]any,
	channels []Channel,
) (*Notification, error) {
	n := &Notification{
		payload:   payload,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		n.setID(id),
		n.setRecipientID(recipientID),
		n.setKind(kind),
		n.setTitle(title),
		n.setChannels(channels),
	); err != nil {
		return nil, err
	}

	n.body = body
	return n, nil
}

// RestoreNotification reconstructs a Notification from persistent storage.
func RestoreNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	kind, title, body string,
	payload map[string]any,
	channels []Channel,
	read bool,
	readAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, recipientID, kind, title, body, payload, channels)
	if err != nil {
		return nil, err
	}

	n.read = read
	n.readAt = readAt
	n.createdAt = createdAt
	return n, nil
}

// Validate ensures the Notification was created through a constructor.
func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// RecipientID returns the addressed recipient.
func (n *Notification) RecipientID() kernel.UUID {
	return n.recipientID
}

// Kind returns the type/category of the notification.
func (n *Notification) Kind() string {
	return n.kind
}

// Title returns the short display title.
func (n *Notification) Title() string {
	return n.title
}

// Body returns the display body text.
func (n *Notification) Body() string {
	return n.body
}

// Payload returns the structured payload, nil when none was attached.
func (n *Notification) Payload() map[string]any {
	return n.payload
}

// Channels returns the requested delivery channel set.
func (n *Notification) Channels() []Channel {
	return n.channels
}

// BackgroundChannels returns the subset of requested channels drained by the
// background worker (everything except realtime).
func (n *Notification) BackgroundChannels() []Channel {
	var background []Channel
	for _, c := range n.channels {
		if c.Background() {
			background = append(background, c)
		}
	}
	return background
}

// WantsRealtime reports whether the realtime channel was requested.
func (n *Notification) WantsRealtime() bool {
	for _, c := range n.channels {
		if c == ChannelRealtime {
			return true
		}
	}
	return false
}

// Read reports whether the recipient has read the notification.
func (n *Notification) Read() bool {
	return n.read
}

// ReadAt returns when the notification was read, nil while unread.
func (n *Notification) ReadAt() *time.Time {
	return n.readAt
}

// CreatedAt returns when the notification was created.
func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// MarkRead marks the notification read and stamps the read time.
// Marking an already-read notification is a no-op.
func (n *Notification) MarkRead() {
	if n.read {
		return
	}
	now := time.Now().UTC()
	n.read = true
	n.readAt = &now
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}
	n.recipientID = recipientID
	return nil
}

func (n *Notification) setKind(kind string) error {
	if kind == "" {
		return ErrTypeIsRequired
	}
	n.kind = kind
	return nil
}

func (n *Notification) setTitle(title string) error {
	if title == "" {
		return ErrTitleIsRequired
	}
	n.title = title
	return nil
}

func (n *Notification) setChannels(channels []Channel) error {
	if len(channels) == 0 {
		return errs.NewValueIsRequiredError("channels")
	}
	for _, c := range channels {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	n.channels = channels
	return nil
}
