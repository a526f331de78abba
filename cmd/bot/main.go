package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AgungCahyo/chatBot-WA/internal/api/router"
	"github.com/AgungCahyo/chatBot-WA/internal/bot"
	"github.com/AgungCahyo/chatBot-WA/internal/cache"
	appconfig "github.com/AgungCahyo/chatBot-WA/internal/config"
	"github.com/AgungCahyo/chatBot-WA/internal/notify"
	"github.com/AgungCahyo/chatBot-WA/internal/observability/metrics"
	"github.com/AgungCahyo/chatBot-WA/internal/webhook"
	"github.com/AgungCahyo/chatBot-WA/internal/whatsapp"
	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting chatbot-wa server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	catalog, err := bot.LoadCatalog(cfg.TemplatesPath)
	if err != nil {
		logger.Error("failed to load reply templates", "error", err, "path", cfg.TemplatesPath)
		os.Exit(1)
	}

	// WhatsApp Cloud API client
	waClient := whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID)
	if cfg.GraphAPIBase != "" {
		waClient.SetBaseURL(cfg.GraphAPIBase)
	}

	// Operator notifications: always via WhatsApp, optionally via email.
	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	var email notify.EmailSender
	if emailSender != nil {
		email = emailSender
	}
	notifier := notify.NewService(waClient, email, cfg.AdminWANumber, cfg.AdminEmail, logger)

	// Metrics registry with standard process/runtime collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	botMetrics := metrics.NewBotMetrics(registry)

	messageCache := cache.NewMessageCache(cfg.CacheMaxEntries, cfg.CacheKeepEntries)
	senderLimiter := cache.NewSenderLimiter(cfg.RateLimitWindow)

	responder := bot.NewResponder(bot.ResponderConfig{
		Cache:      messageCache,
		Limiter:    senderLimiter,
		Classifier: bot.NewClassifier(catalog),
		Errors:     catalog.Errors,
		Messenger:  waClient,
		Notifier:   notifier,
		Metrics:    botMetrics,
		Logger:     logger,
		DelayMin:   cfg.ReplyDelayMin,
		DelayMax:   cfg.ReplyDelayMax,
	})

	// The webhook handler acks Meta immediately; processing happens off
	// the request goroutine.
	webhookHandler := webhook.NewHandler(cfg.VerifyToken, func(msg whatsapp.InboundMessage) {
		go responder.Process(context.Background(), msg)
	}, logger)

	statusHandler := router.NewStatusHandler(responder.CacheSize, registry, logger)

	r := router.New(router.Config{
		Logger:         logger,
		Webhook:        webhookHandler,
		Status:         statusHandler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimitRPS:   cfg.HTTPRateLimitRPS,
		RateLimitBurst: cfg.HTTPRateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
