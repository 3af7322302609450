// Package api wires the HTTP router: middleware, swagger UI and one route
// per ingest pipeline.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/tennisgraph/internal/api/handler"
	"github.com/albapepper/tennisgraph/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Request-Id"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	// Players
	r.Get("/atp_player/{id}", h.ATPPlayer)
	r.Get("/wta_player/{id}", h.WTAPlayer)

	// Draws and results
	r.Post("/atp_draw", h.ATPDraw)
	r.Post("/wta_draw", h.WTADraw)
	r.Post("/atp_results", h.ATPResults)

	// Statistics and activity
	r.Post("/atp_stats", h.ATPStats)
	r.Post("/wta_stats", h.WTAStats)
	r.Post("/atp_activity", h.ATPActivity)

	// Run ledger
	r.Get("/runs", h.GetRuns)

	return r
}
