package models

import (
	"time"
)

// RegistrationState is the per (event, user) membership status
type RegistrationState string

const (
	RegistrationNotJoined RegistrationState = "not_joined"
	RegistrationPending   RegistrationState = "pending"
	RegistrationJoined    RegistrationState = "joined"
	RegistrationRejected  RegistrationState = "rejected"
)

// ParseRegistrationState maps a wire value to a RegistrationState.
// Unknown or empty values fall back to not_joined, never to a positive state.
func ParseRegistrationState(s string) RegistrationState {
	switch RegistrationState(s) {
	case RegistrationPending, RegistrationJoined, RegistrationRejected:
		return RegistrationState(s)
	default:
		return RegistrationNotJoined
	}
}

// Registration records a user's membership in an event
type Registration struct {
	ID        string            `json:"id" db:"id"`
	EventID   string            `json:"event_id" db:"event_id"`
	UserID    string            `json:"user_id" db:"user_id"`
	Status    RegistrationState `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`

	// Relations
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}

// IsActive reports whether the registration counts toward event capacity
func (r *Registration) IsActive() bool {
	return r.Status == RegistrationPending || r.Status == RegistrationJoined
}
