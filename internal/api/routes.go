// Route registration and go-chi router setup.
package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/parleyhq/parley/internal/api/handlers"
	apimiddleware "github.com/parleyhq/parley/internal/api/middleware"
	"github.com/parleyhq/parley/internal/domain/chat"
	"github.com/parleyhq/parley/internal/domain/settings"
	"github.com/parleyhq/parley/internal/infra/llm"
	"github.com/parleyhq/parley/pkg/keyseal"
)

// settingsLogToggle adapts the settings service to the logging middleware.
// Logging defaults to on; only an explicit "false" disables it.
type settingsLogToggle struct {
	settings *settings.Service
}

func (t settingsLogToggle) LoggingEnabled(ctx context.Context) bool {
	value, err := t.settings.Get(ctx, settings.KeyLoggingEnabled)
	if err != nil {
		return true
	}
	return value != "false"
}

// NewRouter creates and configures the chi router with all routes.
func NewRouter(db *sql.DB, adapter *llm.Adapter, sealer *keyseal.Sealer) *chi.Mux {
	sessionService := chat.NewSessionService(db)
	messageService := chat.NewMessageService(db)
	statsService := chat.NewStatsService(db)
	settingsService := settings.NewService(db)
	keyStore := settings.NewKeyStore(db, sealer)
	chatService := chat.NewService(sessionService, messageService, adapter, settingsService, keyStore)

	chatHandler := handlers.NewChatHandler(chatService)
	modelsHandler := handlers.NewModelsHandler()
	sessionHandler := handlers.NewSessionHandler(sessionService, messageService, statsService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, keyStore, adapter)
	reportHandler := handlers.NewReportHandler(statsService, sessionService)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimiddleware.RequestLogger(settingsLogToggle{settings: settingsService}))
	r.Use(chimw.Recoverer)

	// Health check, used by load balancers and probes.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler.SendMessage)
		r.Get("/models", modelsHandler.ListModels)
		r.Get("/report", reportHandler.UsageReport)
		r.Get("/report/sessions", reportHandler.SessionsReport)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.ListSessions)
			r.Post("/", sessionHandler.CreateSession)
			r.Get("/{id}", sessionHandler.GetSession)
			r.Get("/{id}/messages", sessionHandler.ListMessages)
			r.Put("/{id}", sessionHandler.UpdateSession)
			r.Delete("/{id}", sessionHandler.DeleteSession)
			r.Delete("/{id}/messages/{messageId}", sessionHandler.DeleteMessage)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.GetSettings)
			r.Put("/", settingsHandler.UpdateSettings)
			r.Post("/test-api-key", settingsHandler.TestAPIKey)
			r.Route("/api-keys", func(r chi.Router) {
				r.Get("/", settingsHandler.ListAPIKeys)
				r.Post("/", settingsHandler.SetAPIKey)
				r.Delete("/{provider}", settingsHandler.DeleteAPIKey)
			})
			r.Get("/{key}", settingsHandler.GetSetting)
			r.Put("/{key}", settingsHandler.SetSetting)
			r.Delete("/{key}", settingsHandler.DeleteSetting)
		})
	})

	return r
}
