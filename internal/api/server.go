package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/fivea/internal/api/handler"
	"github.com/albapepper/fivea/internal/config"
)

// Metrics is the telemetry the router needs. *metrics.Recorder implements it.
type Metrics interface {
	RequestRecorder
	Handler() http.Handler
}

// NewRouter creates and configures the Chi router with all middleware and
// routes. m may be nil, which disables request metrics and /metrics.
func NewRouter(deps handler.Deps, m Metrics, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	if m != nil {
		r.Use(MetricsMiddleware(m))
	}
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Location", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	if deps.OwnerID == "" {
		deps.OwnerID = cfg.OwnerPlayerID
	}
	h := handler.New(deps)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Teams
		r.Post("/teams/generate", h.GenerateTeams)

		// Players
		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Post("/", h.CreatePlayer)
			r.Post("/relationships/clear", h.ClearRelationships)
			r.Get("/{id}", h.GetPlayer)
			r.Put("/{id}", h.UpdatePlayer)
			r.Delete("/{id}", h.DeletePlayer)
			r.Get("/{id}/suggested-rating", h.SuggestedRating)
		})

		// Matches
		r.Post("/matches", h.CreateMatch)
		r.Get("/matches/{id}", h.GetMatch)
	})

	return r
}
