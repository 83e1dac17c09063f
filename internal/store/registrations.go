package store

import (
	"github.com/wildanre/Evently-sub001/internal/models"
)

// GetRegistration fetches the registration for one event/user pair.
// Returns sql.ErrNoRows when the user never registered.
func (s *Store) GetRegistration(eventID, userID string) (*models.Registration, error) {
	query := "SELECT id, event_id, user_id, status, created_at, updated_at FROM registrations WHERE event_id = ? AND user_id = ?"
	if s.postgres() {
		query = "SELECT id, event_id, user_id, status, created_at, updated_at FROM registrations WHERE event_id = $1 AND user_id = $2"
	}

	r := &models.Registration{}
	err := s.db.QueryRow(query, eventID, userID).Scan(
		&r.ID, &r.EventID, &r.UserID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRegistration inserts a registration and fills in ID and timestamps
func (s *Store) CreateRegistration(r *models.Registration) error {
	if s.postgres() {
		return s.db.QueryRow(
			`INSERT INTO registrations (event_id, user_id, status) VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at`,
			r.EventID, r.UserID, r.Status,
		).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	}

	r.ID = newID()
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
	_, err := s.db.Exec(
		"INSERT INTO registrations (id, event_id, user_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.EventID, r.UserID, r.Status, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

// UpdateRegistrationStatus moves a registration to a new status
func (s *Store) UpdateRegistrationStatus(eventID, userID string, status models.RegistrationState) error {
	query := "UPDATE registrations SET status = ?, updated_at = ? WHERE event_id = ? AND user_id = ?"
	if s.postgres() {
		query = "UPDATE registrations SET status = $1, updated_at = $2 WHERE event_id = $3 AND user_id = $4"
	}
	_, err := s.db.Exec(query, status, now(), eventID, userID)
	return err
}

// DeleteRegistration removes the registration for one event/user pair
func (s *Store) DeleteRegistration(eventID, userID string) error {
	query := "DELETE FROM registrations WHERE event_id = ? AND user_id = ?"
	if s.postgres() {
		query = "DELETE FROM registrations WHERE event_id = $1 AND user_id = $2"
	}
	_, err := s.db.Exec(query, eventID, userID)
	return err
}

// CountActiveRegistrations counts pending and joined registrations,
// the number that counts toward event capacity
func (s *Store) CountActiveRegistrations(eventID string) (int, error) {
	query := "SELECT COUNT(*) FROM registrations WHERE event_id = ? AND status IN ('pending', 'joined')"
	if s.postgres() {
		query = "SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status IN ('pending', 'joined')"
	}
	var count int
	err := s.db.QueryRow(query, eventID).Scan(&count)
	return count, err
}

// ListEventRegistrations returns all registrations for an event with
// the registrant attached, for the organizer view
func (s *Store) ListEventRegistrations(eventID string) ([]*models.Registration, error) {
	query := `SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at,
			u.id, u.name, u.email, u.role, u.created_at, u.updated_at
		FROM registrations r JOIN users u ON u.id = r.user_id
		WHERE r.event_id = ? ORDER BY r.created_at`
	if s.postgres() {
		query = `SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at,
				u.id, u.name, u.email, u.role, u.created_at, u.updated_at
			FROM registrations r JOIN users u ON u.id = r.user_id
			WHERE r.event_id = $1 ORDER BY r.created_at`
	}

	rows, err := s.db.Query(query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		r := &models.Registration{User: &models.User{}}
		err := rows.Scan(
			&r.ID, &r.EventID, &r.UserID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.User.ID, &r.User.Name, &r.User.Email, &r.User.Role, &r.User.CreatedAt, &r.User.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// ListUserRegistrations returns a user's registrations with the event attached
func (s *Store) ListUserRegistrations(userID string) ([]*models.Registration, error) {
	query := `SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at,
			e.id, e.organizer_id, e.name, e.starts_at, e.ends_at, e.ticket_price
		FROM registrations r JOIN events e ON e.id = r.event_id
		WHERE r.user_id = ? ORDER BY e.starts_at DESC`
	if s.postgres() {
		query = `SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at,
				e.id, e.organizer_id, e.name, e.starts_at, e.ends_at, e.ticket_price
			FROM registrations r JOIN events e ON e.id = r.event_id
			WHERE r.user_id = $1 ORDER BY e.starts_at DESC`
	}

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		r := &models.Registration{Event: &models.Event{}}
		err := rows.Scan(
			&r.ID, &r.EventID, &r.UserID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.Event.ID, &r.Event.OrganizerID, &r.Event.Name, &r.Event.StartsAt, &r.Event.EndsAt, &r.Event.TicketPrice,
		)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}
