package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"journal-ai/internal/handlers"
	"journal-ai/internal/service"
)

const healthPath = "/api/health"

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service        service.JournalService
	HealthChecks   []handlers.HealthCheck
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))

	owners := handlers.NewOwnersHandler(deps.Service)
	records := handlers.NewRecordsHandler(deps.Service)

	r.Method(http.MethodGet, healthPath, handlers.NewHealthHandler(deps.HealthChecks...))

	r.Route("/api/v1", func(r chi.Router) {
		if deps.RequestTimeout > 0 {
			r.Use(middleware.Timeout(deps.RequestTimeout))
		}
		r.Post("/owners", owners.Create)
		r.Route("/owners/{ownerID}", func(r chi.Router) {
			r.Post("/records", records.Create)
			r.Get("/records", records.List)
			r.Method(http.MethodPost, "/ask", handlers.NewAskHandler(deps.Service))
			r.Method(http.MethodPost, "/reindex", handlers.NewReindexHandler(deps.Service))
		})
	})

	return r
}
