package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"converso-backend/internal/handlers"
	"converso-backend/internal/middleware"
)

// maxBodySize caps inbound JSON bodies at 1 MB.
const maxBodySize = 1 << 20

func New(
	healthHandler *handlers.HealthHandler,
	chatHandler *handlers.ChatHandler,
	staticHandler *handlers.StaticHandler,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestSize(maxBodySize))
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.SecureHeaders)

	// Health check
	r.Get("/healthz", healthHandler.Healthz)

	// ──── Chat Relay ────
	r.Post("/api/chat", chatHandler.SendMessage)

	// ──── Frontend (SPA fallback) ────
	r.NotFound(staticHandler.ServeHTTP)

	return r
}
