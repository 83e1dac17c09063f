package models

import (
	"time"
)

// Event is the core event model
type Event struct {
	ID              string    `json:"id" db:"id"`
	OrganizerID     string    `json:"organizer_id" db:"organizer_id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	Location        string    `json:"location" db:"location"`
	Category        string    `json:"category" db:"category"`
	StartsAt        time.Time `json:"starts_at" db:"starts_at"`
	EndsAt          time.Time `json:"ends_at" db:"ends_at"`
	TicketPrice     float64   `json:"ticket_price" db:"ticket_price"`
	Capacity        int       `json:"capacity" db:"capacity"` // 0 = unlimited
	RequireApproval bool      `json:"require_approval" db:"require_approval"`
	DeferredPayment bool      `json:"deferred_payment" db:"deferred_payment"`
	ImageURL        string    `json:"image_url,omitempty" db:"image_url"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Relations
	Organizer *User `json:"organizer,omitempty"`

	// Derived, populated on read
	AttendeeCount int `json:"attendee_count" db:"-"`
}

// IsPaid reports whether joining this event requires a ticket purchase.
// A zero or negative ticket price means the event is free.
func (e *Event) IsPaid() bool {
	return e.TicketPrice > 0
}

// HasCapacity reports whether another attendee fits given the current
// count of non-rejected registrations
func (e *Event) HasCapacity(current int) bool {
	if e.Capacity <= 0 {
		return true
	}
	return current < e.Capacity
}

// HasStarted returns true once the event start time has passed
func (e *Event) HasStarted() bool {
	return time.Now().After(e.StartsAt)
}
