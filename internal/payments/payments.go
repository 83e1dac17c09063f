package payments

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/wildanre/Evently-sub001/internal/config"
	"github.com/wildanre/Evently-sub001/internal/models"
	"github.com/wildanre/Evently-sub001/internal/notify"
	"github.com/wildanre/Evently-sub001/internal/store"
)

// providerOrder is the provider's view of an order, as returned by its status API.
type providerOrder struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Reference   string `json:"reference"`
	PaidAt      string `json:"paid_at"`
}

// Service handles payment orders for paid events: checkout, QR codes,
// webhook settlement and background verification against the provider.
type Service struct {
	store      *store.Store
	notifier   *notify.Notifier
	httpClient *http.Client

	providerURL string
	apiKey      string
	currency    string
	orderTTL    time.Duration
}

// NewService creates a payment service from the payments config section.
func NewService(st *store.Store, notifier *notify.Notifier, cfg *config.Config) *Service {
	ttl := time.Duration(cfg.Payments.OrderTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Service{
		store:       st,
		notifier:    notifier,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		providerURL: strings.TrimRight(cfg.Payments.ProviderURL, "/"),
		apiKey:      cfg.Payments.APIKey,
		currency:    cfg.Payments.Currency,
		orderTTL:    ttl,
	}
}

// generateOrderNumber produces a short human-readable order reference.
func generateOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("EVT-%s", id[:12])
}

// GeneratePaymentQR renders a payment URI as a base64 PNG QR code.
func (s *Service) GeneratePaymentQR(orderNumber string, amount float64) (string, error) {
	paymentURI := fmt.Sprintf("%s/pay/%s?amount=%.2f&currency=%s", s.providerURL, orderNumber, amount, s.currency)

	qrCode, err := qrcode.Encode(paymentURI, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %v", err)
	}

	return base64.StdEncoding.EncodeToString(qrCode), nil
}

// CreateCheckout opens a pending order for a paid event. An existing pending
// order that has not expired is returned instead of opening a second one.
func (s *Service) CreateCheckout(event *models.Event, userID string) (*models.PaymentOrder, error) {
	if !event.IsPaid() {
		return nil, fmt.Errorf("event %s is free, nothing to pay", event.ID)
	}

	if existing, err := s.store.GetLatestOrder(event.ID, userID); err == nil {
		if existing.Status == models.PaymentStatusPending && !existing.IsExpired() {
			log.Printf("[PAYMENT] Reusing pending order %s for event %s", existing.OrderNumber, event.ID)
			return existing, nil
		}
	}

	expiresAt := time.Now().UTC().Add(s.orderTTL)
	order := &models.PaymentOrder{
		EventID:     event.ID,
		UserID:      userID,
		OrderNumber: generateOrderNumber(),
		Amount:      event.TicketPrice,
		Currency:    s.currency,
		ExpiresAt:   &expiresAt,
	}

	if err := s.store.CreatePaymentOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %v", err)
	}

	qrData, err := s.GeneratePaymentQR(order.OrderNumber, order.Amount)
	if err != nil {
		log.Printf("[PAYMENT] Warning: failed to generate QR code for order %s: %v", order.OrderNumber, err)
	} else {
		if err := s.store.UpdateOrderQRData(order.ID, qrData); err != nil {
			log.Printf("[PAYMENT] Warning: failed to store QR data for order %s: %v", order.OrderNumber, err)
		} else {
			order.QRCodeData = &qrData
		}
	}

	log.Printf("[PAYMENT] Created order %s for event %s, amount %.2f %s", order.OrderNumber, event.ID, order.Amount, s.currency)
	return order, nil
}

// ApplyWebhook settles an order from a provider callback.
func (s *Service) ApplyWebhook(orderNumber, providerRef string) error {
	order, err := s.store.GetOrderByNumber(orderNumber)
	if err != nil {
		return fmt.Errorf("unknown order %s: %v", orderNumber, err)
	}

	if order.IsSettled() {
		log.Printf("[PAYMENT] Order %s already settled, ignoring webhook", orderNumber)
		return nil
	}

	return s.settleOrder(order, providerRef, time.Now().UTC())
}

func (s *Service) settleOrder(order *models.PaymentOrder, providerRef string, paidAt time.Time) error {
	if err := s.store.MarkOrderPaid(order.ID, providerRef, paidAt); err != nil {
		return fmt.Errorf("failed to mark order %s paid: %v", order.OrderNumber, err)
	}

	log.Printf("[PAYMENT] Order %s marked paid (ref %s)", order.OrderNumber, providerRef)

	event, err := s.store.GetEventByID(order.EventID)
	if err != nil {
		log.Printf("[PAYMENT] Warning: could not load event %s for notification: %v", order.EventID, err)
		return nil
	}
	s.notifier.PaymentReceived(order.UserID, event, order.OrderNumber)
	return nil
}

// fetchProviderOrder asks the provider for the current state of an order.
func (s *Service) fetchProviderOrder(orderNumber string) (*providerOrder, error) {
	url := fmt.Sprintf("%s/orders/%s", s.providerURL, orderNumber)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order status: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var po providerOrder
	if err := json.NewDecoder(resp.Body).Decode(&po); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %v", err)
	}
	return &po, nil
}

// VerifyPayments reconciles all pending orders against the provider and
// expires orders past their deadline.
func (s *Service) VerifyPayments() error {
	pendingOrders, err := s.store.GetPendingOrders()
	if err != nil {
		return fmt.Errorf("failed to get pending orders: %v", err)
	}

	if len(pendingOrders) == 0 {
		return nil
	}

	log.Printf("[PAYMENT] Found %d pending orders to verify", len(pendingOrders))

	for _, order := range pendingOrders {
		if order.IsExpired() {
			if err := s.store.UpdateOrderStatus(order.ID, models.PaymentStatusExpired); err != nil {
				log.Printf("[PAYMENT] Failed to expire order %s: %v", order.OrderNumber, err)
			} else {
				log.Printf("[PAYMENT] Order %s expired", order.OrderNumber)
			}
			continue
		}

		if s.providerURL == "" {
			continue
		}

		po, err := s.fetchProviderOrder(order.OrderNumber)
		if err != nil {
			log.Printf("[PAYMENT] Error verifying order %s: %v", order.OrderNumber, err)
			continue
		}

		switch po.Status {
		case "paid":
			paidAt := time.Now().UTC()
			if t, err := time.Parse(time.RFC3339, po.PaidAt); err == nil {
				paidAt = t
			}
			if err := s.settleOrder(order, po.Reference, paidAt); err != nil {
				log.Printf("[PAYMENT] %v", err)
			}
		case "failed":
			if err := s.store.UpdateOrderStatus(order.ID, models.PaymentStatusFailed); err != nil {
				log.Printf("[PAYMENT] Failed to fail order %s: %v", order.OrderNumber, err)
			}
		}
	}

	return nil
}

// StartMonitoring runs the verification loop until the ticker stops.
func (s *Service) StartMonitoring(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	log.Printf("[PAYMENT] Starting payment verification (interval: %v)", interval)

	if err := s.VerifyPayments(); err != nil {
		log.Printf("[PAYMENT] Initial payment verification failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			if err := s.VerifyPayments(); err != nil {
				log.Printf("[PAYMENT] Payment verification failed: %v", err)
			}
		}
	}()
}
