package store

import (
	"github.com/wildanre/Evently-sub001/internal/models"
)

const eventColumns = `id, organizer_id, name, description, location, category, starts_at, ends_at,
	ticket_price, capacity, require_approval, deferred_payment, image_url, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Name, &e.Description, &e.Location, &e.Category,
		&e.StartsAt, &e.EndsAt, &e.TicketPrice, &e.Capacity, &e.RequireApproval,
		&e.DeferredPayment, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEvent inserts the event and fills in ID and timestamps
func (s *Store) CreateEvent(e *models.Event) error {
	if s.postgres() {
		return s.db.QueryRow(
			`INSERT INTO events (organizer_id, name, description, location, category, starts_at, ends_at,
				ticket_price, capacity, require_approval, deferred_payment, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at, updated_at`,
			e.OrganizerID, e.Name, e.Description, e.Location, e.Category, e.StartsAt, e.EndsAt,
			e.TicketPrice, e.Capacity, e.RequireApproval, e.DeferredPayment, e.ImageURL,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	}

	e.ID = newID()
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt
	_, err := s.db.Exec(
		`INSERT INTO events (id, organizer_id, name, description, location, category, starts_at, ends_at,
			ticket_price, capacity, require_approval, deferred_payment, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrganizerID, e.Name, e.Description, e.Location, e.Category, e.StartsAt, e.EndsAt,
		e.TicketPrice, e.Capacity, e.RequireApproval, e.DeferredPayment, e.ImageURL, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

// GetEventByID retrieves an event by ID
func (s *Store) GetEventByID(id string) (*models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE id = ?"
	if s.postgres() {
		query = "SELECT " + eventColumns + " FROM events WHERE id = $1"
	}
	return scanEvent(s.db.QueryRow(query, id))
}

// ListEvents returns events ordered by start time, most recent window first
func (s *Store) ListEvents(limit, offset int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + eventColumns + " FROM events ORDER BY starts_at DESC LIMIT ? OFFSET ?"
	if s.postgres() {
		query = "SELECT " + eventColumns + " FROM events ORDER BY starts_at DESC LIMIT $1 OFFSET $2"
	}

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListEventsByOrganizer returns all events created by one organizer
func (s *Store) ListEventsByOrganizer(organizerID string) ([]*models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE organizer_id = ? ORDER BY starts_at DESC"
	if s.postgres() {
		query = "SELECT " + eventColumns + " FROM events WHERE organizer_id = $1 ORDER BY starts_at DESC"
	}

	rows, err := s.db.Query(query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEvent updates the mutable fields of an event
func (s *Store) UpdateEvent(e *models.Event) error {
	e.UpdatedAt = now()
	query := `UPDATE events SET name = ?, description = ?, location = ?, category = ?, starts_at = ?,
		ends_at = ?, ticket_price = ?, capacity = ?, require_approval = ?, deferred_payment = ?,
		image_url = ?, updated_at = ? WHERE id = ?`
	if s.postgres() {
		query = `UPDATE events SET name = $1, description = $2, location = $3, category = $4, starts_at = $5,
			ends_at = $6, ticket_price = $7, capacity = $8, require_approval = $9, deferred_payment = $10,
			image_url = $11, updated_at = $12 WHERE id = $13`
	}
	_, err := s.db.Exec(query,
		e.Name, e.Description, e.Location, e.Category, e.StartsAt, e.EndsAt,
		e.TicketPrice, e.Capacity, e.RequireApproval, e.DeferredPayment, e.ImageURL, e.UpdatedAt, e.ID,
	)
	return err
}

// DeleteEvent removes an event; registrations and orders cascade
func (s *Store) DeleteEvent(id string) error {
	query := "DELETE FROM events WHERE id = ?"
	if s.postgres() {
		query = "DELETE FROM events WHERE id = $1"
	}
	_, err := s.db.Exec(query, id)
	return err
}
