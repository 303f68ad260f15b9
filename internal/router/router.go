package router

import (
	"net/http"

	"skinsense-backend/internal/handlers"
	"skinsense-backend/internal/logging"
	customMiddleware "skinsense-backend/internal/middleware"
	"skinsense-backend/internal/notify"
	"skinsense-backend/internal/repository"
	"skinsense-backend/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const serviceName = "skinsense-backend"

type Deps struct {
	Logger       *logging.Logger
	FeedbackRepo repository.FeedbackStore
	Notifier     notify.Notifier
	Sessions     *session.Manager
	Authorizer   *customMiddleware.AdminAuthorizer
	Static       *handlers.StaticHandler
	ExportPath   string
	CORSOrigins  []string
}

func New(d Deps) http.Handler {
	feedbackHandler := handlers.NewFeedbackHandler(d.FeedbackRepo, d.Notifier)
	adminHandler := handlers.NewAdminHandler(d.Authorizer, d.Sessions)
	adminDataHandler := handlers.NewAdminDataHandler(d.FeedbackRepo, d.ExportPath)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", customMiddleware.AdminTokenHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"` + serviceName + `"}`))
	})

	// Public API
	r.Post("/api/save-feedback", feedbackHandler.SaveFeedback)
	r.Post("/api/admin-login", adminHandler.Login)
	r.Post("/api/admin-logout", adminHandler.Logout)

	// Admin API (session, Basic credentials or admin token)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.RequireAdmin(d.Authorizer))

		r.Get("/api/feedback-data", adminDataHandler.FeedbackData)
		r.Get("/api/export-feedback", adminDataHandler.ExportFeedback)
	})

	// Pages and static assets
	r.Get("/", d.Static.Index)
	r.Get("/admin", d.Static.Admin)
	r.Get("/*", d.Static.File)

	return r
}
