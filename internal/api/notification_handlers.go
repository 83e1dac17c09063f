package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wildanre/Evently-sub001/internal/auth"
	"github.com/wildanre/Evently-sub001/internal/models"
	"github.com/wildanre/Evently-sub001/internal/notify"
)

type notificationView struct {
	*models.Notification
	Icon string `json:"icon"`
}

func (api *Api) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := api.store.ListUserNotifications(claims.UserID, limit)
	if err != nil {
		log.Printf("[API] Failed to list notifications for user %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, notificationView{Notification: n, Icon: notify.Icon(n.Type)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": views})
}

func (api *Api) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	count, err := api.store.CountUnreadNotifications(claims.UserID)
	if err != nil {
		log.Printf("[API] Failed to count notifications for user %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (api *Api) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())

	notificationID := chi.URLParam(r, "notificationID")
	if err := api.store.MarkNotificationRead(notificationID, claims.UserID); err != nil {
		log.Printf("[API] Failed to mark notification %s read: %v", notificationID, err)
		writeError(w, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
