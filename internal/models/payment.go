package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// PaymentOrder represents a ticket purchase for an event
type PaymentOrder struct {
	ID          string        `json:"id" db:"id"`
	EventID     string        `json:"event_id" db:"event_id"`
	UserID      string        `json:"user_id" db:"user_id"`
	OrderNumber string        `json:"order_number" db:"order_number"`
	Amount      float64       `json:"amount" db:"amount"`
	Currency    string        `json:"currency" db:"currency"`
	ProviderRef *string       `json:"provider_ref" db:"provider_ref"`
	QRCodeData  *string       `json:"qr_code_data" db:"qr_code_data"`
	Status      PaymentStatus `json:"status" db:"status"`
	PaidAt      *time.Time    `json:"paid_at" db:"paid_at"`
	ExpiresAt   *time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	// Relations
	Event *Event `json:"event,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// IsExpired checks if the order has expired
func (o *PaymentOrder) IsExpired() bool {
	if o.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*o.ExpiresAt)
}

// IsSettled reports whether the order reached a terminal state
func (o *PaymentOrder) IsSettled() bool {
	return o.Status == PaymentStatusPaid || o.Status == PaymentStatusFailed || o.Status == PaymentStatusExpired
}

// HasQRCode checks if the order has QR code data
func (o *PaymentOrder) HasQRCode() bool {
	return o.QRCodeData != nil && *o.QRCodeData != ""
}

// GetProviderRef returns the provider reference or empty string if not set
func (o *PaymentOrder) GetProviderRef() string {
	if o.ProviderRef == nil {
		return ""
	}
	return *o.ProviderRef
}
