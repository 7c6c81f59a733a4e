package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aymerigermain/dashboard-acadi/internal/config"
	"github.com/aymerigermain/dashboard-acadi/internal/middleware"
	"github.com/aymerigermain/dashboard-acadi/internal/observability"
	"github.com/aymerigermain/dashboard-acadi/internal/providers"
	"github.com/aymerigermain/dashboard-acadi/internal/server"
	"github.com/aymerigermain/dashboard-acadi/internal/services"
	"github.com/aymerigermain/dashboard-acadi/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Cache-Control", cacheMaxAge)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
	)

	stripeClient := providers.NewStripeClient(cfg.Stripe.APIKey)

	// The spreadsheet client is optional: without credentials the
	// survey and external revenue aggregates stay zero-valued and the
	// rest of the dashboard keeps working.
	var sheetReader providers.SheetReader
	if cfg.SurveyEnabled() || cfg.ExternalRevenuesEnabled() {
		sheetsClient, err := providers.NewSheetsClient(context.Background(), cfg.Sheets)
		if err != nil {
			logger.Error("failed to create sheets client", "error", err)
			os.Exit(1)
		}
		sheetReader = sheetsClient
	} else {
		logger.Warn("google sheets not configured, survey and external revenue data disabled")
	}

	stats := services.NewStats(stripeClient, stripeClient, sheetReader, cfg, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(stats, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down reporting service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
