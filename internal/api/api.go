package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wildanre/Evently-sub001/internal/auth"
	"github.com/wildanre/Evently-sub001/internal/config"
	"github.com/wildanre/Evently-sub001/internal/notify"
	"github.com/wildanre/Evently-sub001/internal/payments"
	"github.com/wildanre/Evently-sub001/internal/store"
)

// ImageStore holds event images. Uploads return a public URL; deleting
// an event removes everything stored under it.
type ImageStore interface {
	UploadEventImage(ctx context.Context, eventID, contentType string, body io.Reader) (string, error)
	DeleteEventImages(ctx context.Context, eventID string) error
}

type Api struct {
	Config *config.Config
	Router *chi.Mux

	store    *store.Store
	payments *payments.Service
	notifier *notify.Notifier
	images   ImageStore
	tokens   *auth.TokenManager
}

// NewApi wires the HTTP layer. images may be nil when no object storage
// is configured.
func NewApi(cfg *config.Config, st *store.Store, pay *payments.Service, notifier *notify.Notifier, images ImageStore) (*Api, error) {
	api := &Api{
		Config:   cfg,
		Router:   chi.NewRouter(),
		store:    st,
		payments: pay,
		notifier: notifier,
		images:   images,
		tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret),
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/heartbeat"))

	// Public routes
	r.Post("/auth/register", api.RegisterHandler)
	r.Post("/auth/login", api.LoginHandler)
	r.Get("/events", api.ListEventsHandler)
	r.Get("/events/{eventID}", api.GetEventHandler)
	r.Post("/payments/webhook", api.PaymentWebhookHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(api.tokens))
		r.Use(auth.RequireAuth)

		r.Post("/events", api.CreateEventHandler)
		r.Put("/events/{eventID}", api.UpdateEventHandler)
		r.Delete("/events/{eventID}", api.DeleteEventHandler)
		r.Post("/events/{eventID}/image", api.UploadEventImageHandler)

		r.Get("/events/{eventID}/join-status", api.JoinStatusHandler)
		r.Post("/events/{eventID}/register", api.RegisterForEventHandler)
		r.Delete("/events/{eventID}/register", api.UnregisterHandler)

		r.Get("/events/{eventID}/registrations", api.ListRegistrationsHandler)
		r.Patch("/events/{eventID}/registrations/{userID}", api.ReviewRegistrationHandler)

		r.Get("/payments/check/{eventID}", api.CheckPaymentHandler)
		r.Post("/payments/checkout/{eventID}", api.CheckoutHandler)

		r.Get("/notifications", api.ListNotificationsHandler)
		r.Get("/notifications/unread-count", api.UnreadCountHandler)
		r.Post("/notifications/{notificationID}/read", api.MarkNotificationReadHandler)
	})
}

// Serve starts the payment verification loop and blocks on the HTTP server.
func (api *Api) Serve() {
	interval := time.Duration(api.Config.Payments.CheckIntervalSeconds) * time.Second
	api.payments.StartMonitoring(interval)

	log.Printf("Starting API server on 0.0.0.0:%d", api.Config.APIPort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort), api.Router))
}
