package models

import (
	"time"
)

type NotificationType string

const (
	NotificationJoinApproved    NotificationType = "join_approved"
	NotificationJoinRejected    NotificationType = "join_rejected"
	NotificationPaymentReceived NotificationType = "payment_received"
	NotificationEventReminder   NotificationType = "event_reminder"
	NotificationEventUpdate     NotificationType = "event_update"
)

// Notification is an in-app message shown to a user
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	EventID   *string          `json:"event_id,omitempty" db:"event_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
