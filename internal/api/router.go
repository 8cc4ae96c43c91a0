package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "coach-ai/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, credentialHandler *CredentialHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {

		// Plain JSON routes get a request timeout so connections cannot hang.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Credentials ---
			r.Get("/credentials", credentialHandler.GetKeyStatus)
			r.Put("/credentials", credentialHandler.UpdateKey)
			r.Delete("/credentials", credentialHandler.HandleClearKey)
			r.Get("/credentials/{provider}", credentialHandler.GetProviderStatus)
			r.Put("/credentials/{provider}", credentialHandler.UpdateProviderKey)
			r.Delete("/credentials/{provider}", credentialHandler.HandleClearProviderKey)

			// --- Chat ---
			r.Get("/chat/history", chatHandler.GetHistory)
			r.Delete("/chat/history", chatHandler.HandleClearHistory)
		})

		// Routes that wait on the provider or stream. They are bounded by the
		// transport timeouts and must NOT have a request timeout.
		r.Group(func(r chi.Router) {
			r.Post("/credentials/test", credentialHandler.HandleTestConnection)
			r.Post("/chat/messages", chatHandler.HandleSendMessage)
			r.Get("/chat/events", chatHandler.HandleEvents)
		})
	})

	return r
}
