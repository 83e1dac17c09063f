package store

import (
	"time"

	"github.com/wildanre/Evently-sub001/internal/models"
)

const orderColumns = `id, event_id, user_id, order_number, amount, currency, provider_ref,
	qr_code_data, status, paid_at, expires_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.PaymentOrder, error) {
	o := &models.PaymentOrder{}
	err := row.Scan(
		&o.ID, &o.EventID, &o.UserID, &o.OrderNumber, &o.Amount, &o.Currency,
		&o.ProviderRef, &o.QRCodeData, &o.Status, &o.PaidAt, &o.ExpiresAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CreatePaymentOrder inserts a payment order and fills in ID and timestamps
func (s *Store) CreatePaymentOrder(o *models.PaymentOrder) error {
	if o.Status == "" {
		o.Status = models.PaymentStatusPending
	}

	if s.postgres() {
		return s.db.QueryRow(
			`INSERT INTO payment_orders (event_id, user_id, order_number, amount, currency, provider_ref,
				qr_code_data, status, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			o.EventID, o.UserID, o.OrderNumber, o.Amount, o.Currency, o.ProviderRef,
			o.QRCodeData, o.Status, o.ExpiresAt,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	}

	o.ID = newID()
	o.CreatedAt = now()
	o.UpdatedAt = o.CreatedAt
	_, err := s.db.Exec(
		`INSERT INTO payment_orders (id, event_id, user_id, order_number, amount, currency, provider_ref,
			qr_code_data, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.EventID, o.UserID, o.OrderNumber, o.Amount, o.Currency, o.ProviderRef,
		o.QRCodeData, o.Status, o.ExpiresAt, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

// GetOrderByNumber retrieves an order by its order number
func (s *Store) GetOrderByNumber(orderNumber string) (*models.PaymentOrder, error) {
	query := "SELECT " + orderColumns + " FROM payment_orders WHERE order_number = ?"
	if s.postgres() {
		query = "SELECT " + orderColumns + " FROM payment_orders WHERE order_number = $1"
	}
	return scanOrder(s.db.QueryRow(query, orderNumber))
}

// GetLatestOrder returns the most recent order for one event/user pair.
// Returns sql.ErrNoRows when none exists.
func (s *Store) GetLatestOrder(eventID, userID string) (*models.PaymentOrder, error) {
	query := "SELECT " + orderColumns + " FROM payment_orders WHERE event_id = ? AND user_id = ? ORDER BY created_at DESC LIMIT 1"
	if s.postgres() {
		query = "SELECT " + orderColumns + " FROM payment_orders WHERE event_id = $1 AND user_id = $2 ORDER BY created_at DESC LIMIT 1"
	}
	return scanOrder(s.db.QueryRow(query, eventID, userID))
}

// GetPendingOrders returns all orders awaiting payment
func (s *Store) GetPendingOrders() ([]*models.PaymentOrder, error) {
	query := "SELECT " + orderColumns + " FROM payment_orders WHERE status = 'pending' ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.PaymentOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkOrderPaid records a successful payment for an order
func (s *Store) MarkOrderPaid(orderID, providerRef string, paidAt time.Time) error {
	query := `UPDATE payment_orders SET status = 'paid', provider_ref = ?, paid_at = ?, updated_at = ? WHERE id = ?`
	if s.postgres() {
		query = `UPDATE payment_orders SET status = 'paid', provider_ref = $1, paid_at = $2, updated_at = $3 WHERE id = $4`
	}
	_, err := s.db.Exec(query, providerRef, paidAt, now(), orderID)
	return err
}

// UpdateOrderStatus moves an order to a new status
func (s *Store) UpdateOrderStatus(orderID string, status models.PaymentStatus) error {
	query := "UPDATE payment_orders SET status = ?, updated_at = ? WHERE id = ?"
	if s.postgres() {
		query = "UPDATE payment_orders SET status = $1, updated_at = $2 WHERE id = $3"
	}
	_, err := s.db.Exec(query, status, now(), orderID)
	return err
}

// UpdateOrderQRData attaches generated QR code data to an order
func (s *Store) UpdateOrderQRData(orderID, qrData string) error {
	query := "UPDATE payment_orders SET qr_code_data = ?, updated_at = ? WHERE id = ?"
	if s.postgres() {
		query = "UPDATE payment_orders SET qr_code_data = $1, updated_at = $2 WHERE id = $3"
	}
	_, err := s.db.Exec(query, qrData, now(), orderID)
	return err
}

// HasPaid reports whether a paid order exists for the event and the
// user owning the given email
func (s *Store) HasPaid(eventID, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM payment_orders o JOIN users u ON u.id = o.user_id
		WHERE o.event_id = ? AND u.email = ? AND o.status = 'paid'`
	if s.postgres() {
		query = `SELECT COUNT(*) FROM payment_orders o JOIN users u ON u.id = o.user_id
			WHERE o.event_id = $1 AND u.email = $2 AND o.status = 'paid'`
	}
	var count int
	if err := s.db.QueryRow(query, eventID, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
