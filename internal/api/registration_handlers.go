package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wildanre/Evently-sub001/internal/auth"
	"github.com/wildanre/Evently-sub001/internal/models"
)

func (api *Api) JoinStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}

	reg, err := api.store.GetRegistration(event.ID, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"isJoined": false,
			"status":   models.RegistrationNotJoined,
		})
		return
	}
	if err != nil {
		log.Printf("[API] Failed to load registration for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load registration")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isJoined": reg.Status == models.RegistrationJoined,
		"status":   reg.Status,
	})
}

func (api *Api) RegisterForEventHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}

	existing, err := api.store.GetRegistration(event.ID, claims.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("[API] Failed to load registration for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load registration")
		return
	}

	if existing != nil && existing.IsActive() {
		writeError(w, http.StatusBadRequest, "You are already registered for this event")
		return
	}

	count, err := api.store.CountActiveRegistrations(event.ID)
	if err != nil {
		log.Printf("[API] Failed to count registrations for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to check capacity")
		return
	}
	if !event.HasCapacity(count) {
		writeError(w, http.StatusBadRequest, "Event is full")
		return
	}

	status := models.RegistrationJoined
	if event.RequireApproval {
		status = models.RegistrationPending
	}

	if existing != nil {
		// A rejected registration may try again.
		if err := api.store.UpdateRegistrationStatus(event.ID, claims.UserID, status); err != nil {
			log.Printf("[API] Failed to re-register user %s for event %s: %v", claims.UserID, event.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to register")
			return
		}
	} else {
		reg := &models.Registration{EventID: event.ID, UserID: claims.UserID, Status: status}
		if err := api.store.CreateRegistration(reg); err != nil {
			log.Printf("[API] Failed to register user %s for event %s: %v", claims.UserID, event.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to register")
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"requireApproval": event.RequireApproval,
		"status":          status,
	})
}

func (api *Api) UnregisterHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}

	reg, err := api.store.GetRegistration(event.ID, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Registration not found")
		return
	}
	if err != nil {
		log.Printf("[API] Failed to load registration for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load registration")
		return
	}

	if !reg.IsActive() {
		writeError(w, http.StatusBadRequest, "No active registration to cancel")
		return
	}

	if err := api.store.DeleteRegistration(event.ID, claims.UserID); err != nil {
		log.Printf("[API] Failed to unregister user %s from event %s: %v", claims.UserID, event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to unregister")
		return
	}

	message := "You left the event"
	if reg.Status == models.RegistrationPending {
		message = "Join request canceled"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (api *Api) ListRegistrationsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}
	if !api.canManage(claims, event) {
		writeError(w, http.StatusForbidden, "Only the organizer can view registrations")
		return
	}

	registrations, err := api.store.ListEventRegistrations(event.ID)
	if err != nil {
		log.Printf("[API] Failed to list registrations for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list registrations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": registrations})
}

type reviewRequest struct {
	Action string `json:"action"` // "approve" or "reject"
}

func (api *Api) ReviewRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}
	if !api.canManage(claims, event) {
		writeError(w, http.StatusForbidden, "Only the organizer can review registrations")
		return
	}

	userID := chi.URLParam(r, "userID")
	reg, err := api.store.GetRegistration(event.ID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Registration not found")
		return
	}
	if err != nil {
		log.Printf("[API] Failed to load registration for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load registration")
		return
	}

	if reg.Status != models.RegistrationPending {
		writeError(w, http.StatusBadRequest, "Registration is not pending review")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var status models.RegistrationState
	switch req.Action {
	case "approve":
		status = models.RegistrationJoined
	case "reject":
		status = models.RegistrationRejected
	default:
		writeError(w, http.StatusBadRequest, "Action must be approve or reject")
		return
	}

	if err := api.store.UpdateRegistrationStatus(event.ID, userID, status); err != nil {
		log.Printf("[API] Failed to update registration for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update registration")
		return
	}

	if status == models.RegistrationJoined {
		api.notifier.JoinApproved(userID, event)
	} else {
		api.notifier.JoinRejected(userID, event)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": status})
}
