package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/wildanre/Evently-sub001/internal/auth"
)

func (api *Api) CheckPaymentHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}

	hasPaid, err := api.store.HasPaid(event.ID, email)
	if err != nil {
		log.Printf("[PAYMENT] Failed to check payment for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to check payment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]bool{"hasPaid": hasPaid},
	})
}

func (api *Api) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}

	if !event.IsPaid() {
		writeError(w, http.StatusBadRequest, "This event is free")
		return
	}

	order, err := api.payments.CreateCheckout(event, claims.UserID)
	if err != nil {
		log.Printf("[PAYMENT] Checkout failed for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create checkout")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": order})
}

type webhookPayload struct {
	OrderNumber string `json:"order_number"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
}

func (api *Api) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if api.Config.Payments.APIKey != "" &&
		r.Header.Get("X-Provider-Key") != api.Config.Payments.APIKey {
		writeError(w, http.StatusUnauthorized, "Invalid provider key")
		return
	}

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.OrderNumber == "" {
		writeError(w, http.StatusBadRequest, "order_number is required")
		return
	}

	if payload.Status != "" && payload.Status != "paid" {
		// Only settlement callbacks change order state here; the
		// verification loop picks up failures.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err := api.payments.ApplyWebhook(payload.OrderNumber, payload.Reference); err != nil {
		log.Printf("[PAYMENT] Webhook for order %s failed: %v", payload.OrderNumber, err)
		writeError(w, http.StatusNotFound, "Unknown order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
