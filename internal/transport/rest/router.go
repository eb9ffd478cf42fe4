package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mfirmanda/helpdesk-management/internal/attachment"
	"github.com/mfirmanda/helpdesk-management/internal/audit"
	"github.com/mfirmanda/helpdesk-management/internal/auth"
	"github.com/mfirmanda/helpdesk-management/internal/setting"
	"github.com/mfirmanda/helpdesk-management/internal/ticket"
	"github.com/mfirmanda/helpdesk-management/internal/transport/middleware"
	"github.com/mfirmanda/helpdesk-management/internal/transport/swagger"
	"github.com/mfirmanda/helpdesk-management/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Ticket     *ticket.Handler
	Attachment *attachment.Handler
	Audit      *audit.Handler
	Setting    *setting.Handler
}

// RegisterAllRoutes mounts the full API surface under /api/v1.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, activity middleware.ActivityRecorder, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORSMiddleware(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/logout", h.Auth.Logout)

			sr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.Middleware)
				pr.Get("/me", h.Auth.Me)
			})
		})

		// everything below requires a session
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.Middleware)
			if activity != nil {
				pr.Use(middleware.ActivityMiddleware(activity))
			}

			pr.Route("/tickets", func(tr chi.Router) {
				tr.Post("/", h.Ticket.CreateTicket)
				tr.Get("/", h.Ticket.ListTickets)
				tr.Get("/stats", h.Ticket.Stats)
				tr.Get("/{id}", h.Ticket.GetTicket)
				tr.Patch("/{id}", h.Ticket.UpdateTicket)

				tr.Post("/{id}/comments", h.Ticket.AddComment)
				tr.Get("/{id}/comments", h.Ticket.ListComments)

				tr.Post("/{id}/attachments", h.Attachment.Upload)
				tr.Get("/{id}/attachments", h.Attachment.ListByTicket)

				tr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireAdmin())
					ar.Delete("/{id}", h.Ticket.DeleteTicket)
				})
			})

			pr.Get("/attachments/{id}", h.Attachment.Download)

			// admin-only surfaces
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireAdmin())

				ar.Route("/users", func(ur chi.Router) {
					ur.Post("/", h.User.CreateUser)
					ur.Get("/", h.User.ListUsers)
					ur.Get("/{id}", h.User.GetUser)
					ur.Patch("/{id}", h.User.UpdateUser)
					ur.Delete("/{id}", h.User.DeleteUser)
					ur.Post("/import", h.User.ImportUsers)
					ur.Get("/export", h.User.ExportUsers)
				})

				ar.Route("/settings", func(sr chi.Router) {
					sr.Get("/", h.Setting.ListSettings)
					sr.Get("/{key}", h.Setting.GetSetting)
					sr.Post("/", h.Setting.UpsertSetting)
					sr.Put("/{key}", h.Setting.UpsertSetting)
				})

				ar.Get("/audit-logs", h.Audit.ListAuditLogs)
				ar.Get("/activity-logs", h.Audit.ListActivityLogs)
			})
		})
	})
}
