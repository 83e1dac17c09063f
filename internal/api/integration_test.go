package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wildanre/Evently-sub001/internal/client"
	"github.com/wildanre/Evently-sub001/internal/eligibility"
	"github.com/wildanre/Evently-sub001/internal/models"
)

// These tests run the full loop: eligibility tracker -> REST client ->
// router -> store, against a real server on a throwaway database.

func TestTrackerAgainstLiveServer(t *testing.T) {
	a, srv := newTestApi(t)
	ctx := context.Background()

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	attendee := signupUser(t, srv.URL, "Att", "att@example.com")
	eventID := createEvent(t, srv.URL, organizer, nil)

	event, err := a.store.GetEventByID(eventID)
	require.NoError(t, err)

	c := client.New(srv.URL, client.StaticToken(attendee))
	tracker := eligibility.NewTracker(c, *event, "att@example.com", true)

	tracker.Refresh(ctx)
	assert.Equal(t, eligibility.ViewJoinEvent, tracker.Evaluate())

	msg, err := tracker.Join(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	assert.Equal(t, models.RegistrationJoined, tracker.State())
	assert.Equal(t, eligibility.ViewLeaveEvent, tracker.Evaluate())

	// A second Join hits the server's duplicate guard and reconciles.
	_, err = tracker.Join(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationJoined, tracker.State())

	_, err = tracker.Leave(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationNotJoined, tracker.State())
	assert.Equal(t, eligibility.ViewJoinEvent, tracker.Evaluate())
}

func TestTrackerPaidEventAutoJoin(t *testing.T) {
	a, srv := newTestApi(t)
	ctx := context.Background()

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	buyer := signupUser(t, srv.URL, "Buyer", "buyer@example.com")
	eventID := createEvent(t, srv.URL, organizer, map[string]interface{}{"ticket_price": 30})

	event, err := a.store.GetEventByID(eventID)
	require.NoError(t, err)

	c := client.New(srv.URL, client.StaticToken(buyer))
	tracker := eligibility.NewTracker(c, *event, "buyer@example.com", true)

	tracker.Refresh(ctx)
	assert.Equal(t, eligibility.ViewBuyTickets, tracker.Evaluate())

	// Buy a ticket out of band and settle it via the webhook.
	status, body := doJSON(t, http.MethodPost, srv.URL+"/payments/checkout/"+eventID, buyer, nil)
	require.Equal(t, http.StatusCreated, status)
	orderNumber := body["data"].(map[string]interface{})["order_number"].(string)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/payments/webhook", "", map[string]string{
		"order_number": orderNumber, "reference": "prov-7", "status": "paid",
	})
	require.Equal(t, http.StatusOK, status)

	// The next poll sees the payment and auto-joins.
	require.NoError(t, tracker.CheckPaymentStatus(ctx))
	assert.True(t, tracker.HasPaid())
	assert.Equal(t, models.RegistrationJoined, tracker.State())
	assert.Equal(t, eligibility.ViewLeaveEvent, tracker.Evaluate())

	status, responseBody := doJSON(t, http.MethodGet, srv.URL+"/events/"+eventID+"/join-status", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, responseBody["isJoined"])
}

func TestTrackerUnauthenticated(t *testing.T) {
	a, srv := newTestApi(t)
	ctx := context.Background()

	organizer := signupUser(t, srv.URL, "Org", "org@example.com")
	eventID := createEvent(t, srv.URL, organizer, nil)

	event, err := a.store.GetEventByID(eventID)
	require.NoError(t, err)

	c := client.New(srv.URL, client.StaticToken(""))
	tracker := eligibility.NewTracker(c, *event, "", false)

	assert.Equal(t, eligibility.ViewLoginRequired, tracker.Evaluate())

	_, err = tracker.Join(ctx)
	assert.ErrorIs(t, err, eligibility.ErrAuthRequired)
}
