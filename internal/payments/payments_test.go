package payments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wildanre/Evently-sub001/internal/config"
	"github.com/wildanre/Evently-sub001/internal/database"
	"github.com/wildanre/Evently-sub001/internal/models"
	"github.com/wildanre/Evently-sub001/internal/notify"
	"github.com/wildanre/Evently-sub001/internal/store"
)

func setupService(t *testing.T, providerURL string) (*Service, *store.Store) {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "payments_test.db")
	cfg.Payments.ProviderURL = providerURL
	cfg.Payments.APIKey = "test-key"
	cfg.Payments.Currency = "USD"
	cfg.Payments.OrderTTLHours = 24

	require.NoError(t, database.Init(cfg))
	t.Cleanup(func() { database.Close() })

	st := store.New(database.GetConnection(), database.Type())
	return NewService(st, notify.New(st), cfg), st
}

func seedPaidEvent(t *testing.T, st *store.Store, price float64) (*models.Event, *models.User) {
	user, err := models.NewUser("Buyer", "buyer@example.com", "Str0ng!pass")
	require.NoError(t, err)
	require.NoError(t, st.CreateUser(user))

	event := &models.Event{
		OrganizerID: user.ID,
		Name:        "Paid Conf",
		StartsAt:    time.Now().Add(48 * time.Hour),
		EndsAt:      time.Now().Add(50 * time.Hour),
		TicketPrice: price,
	}
	require.NoError(t, st.CreateEvent(event))
	return event, user
}

func TestCreateCheckout(t *testing.T) {
	svc, st := setupService(t, "https://pay.example.com")
	event, user := seedPaidEvent(t, st, 25)

	order, err := svc.CreateCheckout(event, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, order.Status)
	assert.Equal(t, 25.0, order.Amount)
	assert.Equal(t, "USD", order.Currency)
	assert.Contains(t, order.OrderNumber, "EVT-")
	assert.True(t, order.HasQRCode())
	require.NotNil(t, order.ExpiresAt)
	assert.True(t, order.ExpiresAt.After(time.Now()))
}

func TestCreateCheckoutFreeEvent(t *testing.T) {
	svc, st := setupService(t, "https://pay.example.com")
	event, user := seedPaidEvent(t, st, 0)

	_, err := svc.CreateCheckout(event, user.ID)
	assert.Error(t, err)
}

func TestCreateCheckoutReusesPendingOrder(t *testing.T) {
	svc, st := setupService(t, "https://pay.example.com")
	event, user := seedPaidEvent(t, st, 25)

	first, err := svc.CreateCheckout(event, user.ID)
	require.NoError(t, err)
	second, err := svc.CreateCheckout(event, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
}

func TestApplyWebhook(t *testing.T) {
	svc, st := setupService(t, "https://pay.example.com")
	event, user := seedPaidEvent(t, st, 25)

	order, err := svc.CreateCheckout(event, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ApplyWebhook(order.OrderNumber, "prov-ref-9"))

	settled, err := st.GetOrderByNumber(order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, settled.Status)
	assert.Equal(t, "prov-ref-9", settled.GetProviderRef())
	require.NotNil(t, settled.PaidAt)

	paid, err := st.HasPaid(event.ID, user.Email)
	require.NoError(t, err)
	assert.True(t, paid)

	notifications, err := st.ListUserNotifications(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationPaymentReceived, notifications[0].Type)

	// A second delivery of the same webhook is a no-op.
	require.NoError(t, svc.ApplyWebhook(order.OrderNumber, "prov-ref-9"))
	notifications, err = st.ListUserNotifications(user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestApplyWebhookUnknownOrder(t *testing.T) {
	svc, _ := setupService(t, "https://pay.example.com")
	assert.Error(t, svc.ApplyWebhook("EVT-DOESNOTEXIST", "ref"))
}

func TestVerifyPaymentsExpiresStaleOrders(t *testing.T) {
	svc, st := setupService(t, "")
	event, user := seedPaidEvent(t, st, 25)

	expired := time.Now().Add(-time.Hour)
	order := &models.PaymentOrder{
		EventID:     event.ID,
		UserID:      user.ID,
		OrderNumber: "EVT-STALE000001",
		Amount:      25,
		Currency:    "USD",
		ExpiresAt:   &expired,
	}
	require.NoError(t, st.CreatePaymentOrder(order))

	require.NoError(t, svc.VerifyPayments())

	got, err := st.GetOrderByNumber(order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, got.Status)
}

func TestVerifyPaymentsSettlesFromProvider(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "paid",
			"reference": "prov-42",
			"paid_at":   time.Now().UTC().Format(time.RFC3339),
		})
	}))
	defer provider.Close()

	svc, st := setupService(t, provider.URL)
	event, user := seedPaidEvent(t, st, 25)

	order, err := svc.CreateCheckout(event, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyPayments())

	got, err := st.GetOrderByNumber(order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.Status)
	assert.Equal(t, "prov-42", got.GetProviderRef())
}

func TestVerifyPaymentsMarksFailed(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "failed"})
	}))
	defer provider.Close()

	svc, st := setupService(t, provider.URL)
	event, user := seedPaidEvent(t, st, 25)

	order, err := svc.CreateCheckout(event, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyPayments())

	got, err := st.GetOrderByNumber(order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, got.Status)
}
