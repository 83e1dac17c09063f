package store

import (
	"github.com/wildanre/Evently-sub001/internal/models"
)

// CreateNotification inserts a notification and fills in ID and timestamp
func (s *Store) CreateNotification(n *models.Notification) error {
	if s.postgres() {
		return s.db.QueryRow(
			`INSERT INTO notifications (user_id, event_id, type, title, message)
			VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
			n.UserID, n.EventID, n.Type, n.Title, n.Message,
		).Scan(&n.ID, &n.CreatedAt)
	}

	n.ID = newID()
	n.CreatedAt = now()
	_, err := s.db.Exec(
		"INSERT INTO notifications (id, user_id, event_id, type, title, message, read, created_at) VALUES (?, ?, ?, ?, ?, ?, 0, ?)",
		n.ID, n.UserID, n.EventID, n.Type, n.Title, n.Message, n.CreatedAt,
	)
	return err
}

// ListUserNotifications returns a user's notifications, newest first
func (s *Store) ListUserNotifications(userID string, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT id, user_id, event_id, type, title, message, read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC LIMIT ?"
	if s.postgres() {
		query = "SELECT id, user_id, event_id, type, title, message, read, created_at FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2"
	}

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.EventID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnreadNotifications counts a user's unread notifications
func (s *Store) CountUnreadNotifications(userID string) (int, error) {
	query := "SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0"
	if s.postgres() {
		query = "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE"
	}
	var count int
	err := s.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// MarkNotificationRead marks one of the user's notifications as read
func (s *Store) MarkNotificationRead(notificationID, userID string) error {
	query := "UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?"
	if s.postgres() {
		query = "UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2"
	}
	_, err := s.db.Exec(query, notificationID, userID)
	return err
}
