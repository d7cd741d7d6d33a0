package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tanukibot/internal/models"
)

// LeadStore - операции хранилища, доступные через API.
type LeadStore interface {
	Ping(ctx context.Context) error
	ListLeads(ctx context.Context, limit int) ([]models.LeadView, error)
}

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Store LeadStore
	// APIToken - значение заголовка X-Api-Token. Пустой токен отключает группу /api.
	APIToken string
}

// NewRouter настраивает все маршруты для API.
func NewRouter(deps ApiDependencies) *chi.Mux {
	r := chi.NewRouter()

	// ГЛОБАЛЬНЫЕ MIDDLEWARES ДОЛЖНЫ ИДТИ ПЕРЕД маршрутами
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", APITokenHeader, RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", RequestIDHeader},
		MaxAge:         300,
	}))

	h := &leadHandlers{store: deps.Store}

	r.Get("/healthz", h.Health)

	// Обработка запроса иконки, чтобы избежать ошибки 404 в логах
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if deps.APIToken != "" {
		r.Route("/api", func(r chi.Router) {
			r.Use(TokenMiddleware(deps.APIToken))
			r.Get("/leads", h.ListLeads)
			r.Get("/leads/export", h.ExportLeads)
		})
	}
	return r
}
