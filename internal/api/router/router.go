// Package router assembles the HTTP surface of the symptom analysis API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/healthsignal/symptom-ai-platform/internal/analysis"
	"github.com/healthsignal/symptom-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/healthsignal/symptom-ai-platform/internal/http/middleware"
	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	AnalysisHandler    *analysis.Handler
	SystemHandler      *handlers.SystemHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Rate limiting for the analysis endpoints. Zero disables it.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		if cfg.SystemHandler != nil {
			public.Get("/health", cfg.SystemHandler.Health)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Analysis API
	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimitPerSec > 0 {
			burst := cfg.RateLimitBurst
			if burst <= 0 {
				burst = int(cfg.RateLimitPerSec) * 2
			}
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, burst))
		}

		if cfg.AnalysisHandler != nil {
			api.Post("/analyze", cfg.AnalysisHandler.Analyze)
			api.Post("/analyze/async", cfg.AnalysisHandler.AnalyzeAsync)
			api.Get("/jobs/{jobID}", cfg.AnalysisHandler.Job)
			api.Get("/reports/{clientID}", cfg.AnalysisHandler.Reports)
		}
		if cfg.SystemHandler != nil {
			api.Get("/models", cfg.SystemHandler.Models)
		}
	})

	return r
}
