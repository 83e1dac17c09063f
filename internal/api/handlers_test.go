package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wildanre/Evently-sub001/internal/config"
	"github.com/wildanre/Evently-sub001/internal/database"
	"github.com/wildanre/Evently-sub001/internal/notify"
	"github.com/wildanre/Evently-sub001/internal/payments"
	"github.com/wildanre/Evently-sub001/internal/store"
)

func newTestApi(t *testing.T) (*Api, *httptest.Server) {
	return newTestApiWithImages(t, nil)
}

func newTestApiWithImages(t *testing.T, images ImageStore) (*Api, *httptest.Server) {
	cfg := &config.Config{}
	cfg.APIPort = 0
	cfg.AllowedOrigins = []string{"*"}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "api_test.db")
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1
	cfg.Payments.Currency = "USD"
	cfg.Payments.OrderTTLHours = 24

	require.NoError(t, database.Init(cfg))
	t.Cleanup(func() { database.Close() })

	st := store.New(database.GetConnection(), database.Type())
	notifier := notify.New(st)
	pay := payments.NewService(st, notifier, cfg)

	a, err := NewApi(cfg, st, pay, notifier, images)
	require.NoError(t, err)

	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)
	return a, srv
}

// doJSON fires a request with an optional bearer token and decodes the
// JSON response body.
func doJSON(t *testing.T, method, url, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func signupUser(t *testing.T, baseURL, name, email string) string {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, baseURL+"/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusCreated, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createEvent(t *testing.T, baseURL, token string, extra map[string]interface{}) string {
	t.Helper()
	payload := map[string]interface{}{
		"name":      "Test Event",
		"starts_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"ends_at":   time.Now().Add(26 * time.Hour).Format(time.RFC3339),
	}
	for k, v := range extra {
		payload[k] = v
	}
	status, body := doJSON(t, http.MethodPost, baseURL+"/events", token, payload)
	require.Equal(t, http.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	_, srv := newTestApi(t)

	signupUser(t, srv.URL, "Ana", "ana@example.com")

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"name": "Ana again", "email": "ana@example.com", "password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong-password1!",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	_, srv := newTestApi(t)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"name": "Ana", "email": "not-an-email", "password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Password")
	assert.NotEmpty(t, body["requirements"])
}

func TestJoinStatusRequiresAuth(t *testing.T) {
	_, srv := newTestApi(t)
	resp, err := http.Get(srv.URL + "/events/some-id/join-status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegistrationRoundTrip(t *testing.T) {
	_, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	attendee := signupUser(t, srv.URL, "Att", "att@example.com")
	eventID := createEvent(t, srv.URL, organizer, nil)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["isJoined"])
	assert.Equal(t, "not_joined", body["status"])

	status, body = doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, false, body["requireApproval"])

	status, body = doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isJoined"])
	assert.Equal(t, "joined", body["status"])

	// The duplicate error body carries the exact phrase clients match on.
	status, body = doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "already registered")

	status, body = doJSON(t, http.MethodDelete, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "You left the event", body["message"])

	status, body = doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["isJoined"])
}

func TestRegisterUnknownEvent(t *testing.T) {
	_, srv := newTestApi(t)
	attendee := signupUser(t, srv.URL, "Att", "att@example.com")

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/events/nope/register", attendee, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestEventFull(t *testing.T) {
	_, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	first := signupUser(t, srv.URL, "First", "first@example.com")
	second := signupUser(t, srv.URL, "Second", "second@example.com")
	eventID := createEvent(t, srv.URL, organizer, map[string]interface{}{"capacity": 1})

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", first, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", second, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Event is full", body["error"])
}

func TestApprovalWorkflow(t *testing.T) {
	a, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	attendee := signupUser(t, srv.URL, "Att", "att@example.com")
	eventID := createEvent(t, srv.URL, organizer, map[string]interface{}{"require_approval": true})

	status, body := doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["requireApproval"])

	status, body = doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", body["status"])

	attendeeUser, err := a.store.GetUserByEmail("att@example.com")
	require.NoError(t, err)

	// A non-organizer cannot review.
	reviewURL := fmt.Sprintf("%s/events/%s/registrations/%s", srv.URL, eventID, attendeeUser.ID)
	status, _ = doJSON(t, http.MethodPatch, reviewURL, attendee, map[string]string{"action": "approve"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, http.MethodPatch, reviewURL, organizer, map[string]string{"action": "approve"})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "joined", body["status"])

	status, body = doJSON(t, http.MethodGet, srv.URL+"/notifications", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "join_approved", items[0].(map[string]interface{})["type"])
}

func TestRejectedMayRegisterAgain(t *testing.T) {
	a, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	attendee := signupUser(t, srv.URL, "Att", "att@example.com")
	eventID := createEvent(t, srv.URL, organizer, map[string]interface{}{"require_approval": true})

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	require.Equal(t, http.StatusCreated, status)

	attendeeUser, err := a.store.GetUserByEmail("att@example.com")
	require.NoError(t, err)
	reviewURL := fmt.Sprintf("%s/events/%s/registrations/%s", srv.URL, eventID, attendeeUser.ID)
	status, _ = doJSON(t, http.MethodPatch, reviewURL, organizer, map[string]string{"action": "reject"})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rejected", body["status"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	assert.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", body["status"])
}

func TestPaymentCheckoutAndWebhook(t *testing.T) {
	_, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	buyer := signupUser(t, srv.URL, "Buyer", "buyer@example.com")
	eventID := createEvent(t, srv.URL, organizer, map[string]interface{}{"ticket_price": 50})

	status, body := doJSON(t, http.MethodGet, srv.URL+"/payments/check/"+eventID+"?email=buyer@example.com", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["hasPaid"])

	status, body = doJSON(t, http.MethodPost, srv.URL+"/payments/checkout/"+eventID, buyer, nil)
	require.Equal(t, http.StatusCreated, status)
	order := body["data"].(map[string]interface{})
	orderNumber := order["order_number"].(string)
	assert.Equal(t, "pending", order["status"])
	assert.NotEmpty(t, order["qr_code_data"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/payments/webhook", "", map[string]string{
		"order_number": orderNumber, "reference": "prov-1", "status": "paid",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, http.MethodGet, srv.URL+"/payments/check/"+eventID+"?email=buyer@example.com", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, true, data["hasPaid"])

	status, body = doJSON(t, http.MethodGet, srv.URL+"/notifications/unread-count", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["unread"])
}

func TestWebhookUnknownOrder(t *testing.T) {
	_, srv := newTestApi(t)
	status, _ := doJSON(t, http.MethodPost, srv.URL+"/payments/webhook", "", map[string]string{
		"order_number": "EVT-NOPE", "status": "paid",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCheckoutFreeEvent(t *testing.T) {
	_, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	eventID := createEvent(t, srv.URL, organizer, nil)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/payments/checkout/"+eventID, organizer, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPaymentCheckRequiresAuth(t *testing.T) {
	_, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	eventID := createEvent(t, srv.URL, organizer, map[string]interface{}{"ticket_price": 50})

	status, _ := doJSON(t, http.MethodGet, srv.URL+"/payments/check/"+eventID+"?email=org@example.com", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCancelPendingRequestMessage(t *testing.T) {
	_, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	attendee := signupUser(t, srv.URL, "Att", "att@example.com")
	eventID := createEvent(t, srv.URL, organizer, map[string]interface{}{"require_approval": true})

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, http.MethodDelete, srv.URL+"/events/"+eventID+"/register", attendee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Join request canceled", body["message"])
}

type fakeImageStore struct {
	uploaded []string
	deleted  []string
}

func (f *fakeImageStore) UploadEventImage(ctx context.Context, eventID, contentType string, body io.Reader) (string, error) {
	f.uploaded = append(f.uploaded, eventID)
	return "https://img.test/" + eventID + ".jpg", nil
}

func (f *fakeImageStore) DeleteEventImages(ctx context.Context, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

func TestDeleteEventCleansUpImages(t *testing.T) {
	images := &fakeImageStore{}
	_, srv := newTestApiWithImages(t, images)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	eventID := createEvent(t, srv.URL, organizer, nil)

	status, _ := doJSON(t, http.MethodDelete, srv.URL+"/events/"+eventID, organizer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{eventID}, images.deleted)
}

func TestOnlyOrganizerMutatesEvent(t *testing.T) {
	_, srv := newTestApi(t)

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	other := signupUser(t, srv.URL, "Other", "other@example.com")
	eventID := createEvent(t, srv.URL, organizer, nil)

	payload := map[string]interface{}{
		"name":      "Hijacked",
		"starts_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"ends_at":   time.Now().Add(26 * time.Hour).Format(time.RFC3339),
	}
	status, _ := doJSON(t, http.MethodPut, srv.URL+"/events/"+eventID, other, payload)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, http.MethodDelete, srv.URL+"/events/"+eventID, other, nil)
	assert.Equal(t, http.StatusForbidden, status)
}
