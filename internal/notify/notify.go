package notify

import (
	"fmt"
	"log"

	"github.com/wildanre/Evently-sub001/internal/models"
	"github.com/wildanre/Evently-sub001/internal/store"
)

// Notifier creates in-app notifications for registration and payment events.
type Notifier struct {
	store *store.Store
}

func New(st *store.Store) *Notifier {
	return &Notifier{store: st}
}

// Icon returns the display icon for a notification type.
func Icon(t models.NotificationType) string {
	switch t {
	case models.NotificationJoinApproved:
		return "✅"
	case models.NotificationJoinRejected:
		return "❌"
	case models.NotificationPaymentReceived:
		return "💳"
	case models.NotificationEventReminder:
		return "⏰"
	case models.NotificationEventUpdate:
		return "📢"
	default:
		return "🔔"
	}
}

func (n *Notifier) create(userID string, eventID *string, t models.NotificationType, title, message string) {
	notification := &models.Notification{
		UserID:  userID,
		EventID: eventID,
		Type:    t,
		Title:   title,
		Message: message,
	}
	if err := n.store.CreateNotification(notification); err != nil {
		log.Printf("[NOTIFY] Failed to create %s notification for user %s: %v", t, userID, err)
	}
}

// JoinApproved notifies a user that their join request was approved.
func (n *Notifier) JoinApproved(userID string, event *models.Event) {
	n.create(userID, &event.ID, models.NotificationJoinApproved,
		"Join request approved",
		fmt.Sprintf("Your request to join %s was approved.", event.Name))
}

// JoinRejected notifies a user that their join request was rejected.
func (n *Notifier) JoinRejected(userID string, event *models.Event) {
	n.create(userID, &event.ID, models.NotificationJoinRejected,
		"Join request rejected",
		fmt.Sprintf("Your request to join %s was rejected.", event.Name))
}

// PaymentReceived notifies a user that their payment settled.
func (n *Notifier) PaymentReceived(userID string, event *models.Event, orderNumber string) {
	n.create(userID, &event.ID, models.NotificationPaymentReceived,
		"Payment received",
		fmt.Sprintf("Payment for %s (order %s) was received.", event.Name, orderNumber))
}

// EventUpdate notifies a user that an event they registered for changed.
func (n *Notifier) EventUpdate(userID string, event *models.Event, detail string) {
	n.create(userID, &event.ID, models.NotificationEventUpdate,
		fmt.Sprintf("%s was updated", event.Name), detail)
}

// EventReminder notifies a user that an event is starting soon.
func (n *Notifier) EventReminder(userID string, event *models.Event) {
	n.create(userID, &event.ID, models.NotificationEventReminder,
		"Event starting soon",
		fmt.Sprintf("%s starts at %s.", event.Name, event.StartsAt.Format("Jan 2 15:04 MST")))
}
