package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wildanre/Evently-sub001/internal/auth"
	"github.com/wildanre/Evently-sub001/internal/models"
)

type eventRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	TicketPrice     float64   `json:"ticket_price"`
	Capacity        int       `json:"capacity"`
	RequireApproval bool      `json:"require_approval"`
	DeferredPayment bool      `json:"deferred_payment"`
}

func (req *eventRequest) validate() string {
	switch {
	case req.Name == "":
		return "Event name is required"
	case req.StartsAt.IsZero() || req.EndsAt.IsZero():
		return "Event start and end times are required"
	case req.EndsAt.Before(req.StartsAt):
		return "Event cannot end before it starts"
	case req.TicketPrice < 0:
		return "Ticket price cannot be negative"
	case req.Capacity < 0:
		return "Capacity cannot be negative"
	default:
		return ""
	}
}

func (api *Api) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, err := api.store.ListEvents(limit, offset)
	if err != nil {
		log.Printf("[API] Failed to list events: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": events})
}

func (api *Api) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}

	count, err := api.store.CountActiveRegistrations(event.ID)
	if err == nil {
		event.AttendeeCount = count
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": event})
}

func (api *Api) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	event := &models.Event{
		OrganizerID:     claims.UserID,
		Name:            req.Name,
		Description:     req.Description,
		Location:        req.Location,
		Category:        req.Category,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		TicketPrice:     req.TicketPrice,
		Capacity:        req.Capacity,
		RequireApproval: req.RequireApproval,
		DeferredPayment: req.DeferredPayment,
	}

	if err := api.store.CreateEvent(event); err != nil {
		log.Printf("[API] Failed to create event: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	// First event promotes an attendee to organizer.
	if claims.Role == models.RoleAttendee {
		if err := api.store.SetUserRole(claims.UserID, models.RoleOrganizer); err != nil {
			log.Printf("[API] Failed to promote user %s to organizer: %v", claims.UserID, err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": event})
}

func (api *Api) UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}
	if !api.canManage(claims, event) {
		writeError(w, http.StatusForbidden, "Only the organizer can modify this event")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Location = req.Location
	event.Category = req.Category
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	event.TicketPrice = req.TicketPrice
	event.Capacity = req.Capacity
	event.RequireApproval = req.RequireApproval
	event.DeferredPayment = req.DeferredPayment

	if err := api.store.UpdateEvent(event); err != nil {
		log.Printf("[API] Failed to update event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}

	go api.notifyAttendees(event, "Event details changed.")

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": event})
}

func (api *Api) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}
	if !api.canManage(claims, event) {
		writeError(w, http.StatusForbidden, "Only the organizer can delete this event")
		return
	}

	if err := api.store.DeleteEvent(event.ID); err != nil {
		log.Printf("[API] Failed to delete event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	if api.images != nil {
		if err := api.images.DeleteEventImages(r.Context(), event.ID); err != nil {
			log.Printf("[API] Failed to delete images for event %s: %v", event.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (api *Api) UploadEventImageHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	if api.images == nil {
		writeError(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	event, ok := api.loadEvent(w, r)
	if !ok {
		return
	}
	if !api.canManage(claims, event) {
		writeError(w, http.StatusForbidden, "Only the organizer can modify this event")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	url, err := api.images.UploadEventImage(r.Context(), event.ID, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Printf("[API] Failed to upload image for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	event.ImageURL = url
	if err := api.store.UpdateEvent(event); err != nil {
		log.Printf("[API] Failed to save image URL for event %s: %v", event.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save image URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

// loadEvent resolves {eventID} or replies 404.
func (api *Api) loadEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	eventID := chi.URLParam(r, "eventID")
	event, err := api.store.GetEventByID(eventID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Event not found")
		return nil, false
	}
	if err != nil {
		log.Printf("[API] Failed to load event %s: %v", eventID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load event")
		return nil, false
	}
	return event, true
}

func (api *Api) canManage(claims *auth.TokenClaims, event *models.Event) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == event.OrganizerID || claims.Role == models.RoleAdmin
}

func (api *Api) notifyAttendees(event *models.Event, detail string) {
	registrations, err := api.store.ListEventRegistrations(event.ID)
	if err != nil {
		log.Printf("[API] Failed to list registrations for event %s: %v", event.ID, err)
		return
	}
	for _, reg := range registrations {
		if reg.IsActive() {
			api.notifier.EventUpdate(reg.UserID, event, detail)
		}
	}
}
