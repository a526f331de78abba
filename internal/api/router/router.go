package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	appmw "github.com/AgungCahyo/chatBot-WA/internal/http/middleware"
	"github.com/AgungCahyo/chatBot-WA/internal/webhook"
	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

// Config carries the handlers and settings the router wires together.
type Config struct {
	Logger         *logging.Logger
	Webhook        *webhook.Handler
	Status         *StatusHandler
	MetricsHandler http.Handler

	// Per-IP rate limiting for the HTTP surface. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New builds the HTTP routing tree.
func New(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmw.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	if cfg.RateLimitRPS > 0 {
		r.Use(appmw.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	if cfg.Webhook != nil {
		r.Get("/webhook", cfg.Webhook.HandleVerification)
		r.Post("/webhook", cfg.Webhook.HandleInbound)
	}

	if cfg.Status != nil {
		r.Get("/health", cfg.Status.HealthCheck)
		r.Get("/status", cfg.Status.GetStatus)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
