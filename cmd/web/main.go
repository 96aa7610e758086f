package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"morsel-dashboard/internal/config"
	"morsel-dashboard/internal/ingest"
	"morsel-dashboard/internal/middleware"
	"morsel-dashboard/internal/models"
	"morsel-dashboard/internal/observability"
	"morsel-dashboard/internal/server"
	"morsel-dashboard/internal/services"
	"morsel-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	ingestTimeout = 30 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

var version = "dev"

func dashboardHandler(analytics *services.Analytics) http.HandlerFunc {
	var first, last string
	if start, end, ok := analytics.DateRange(); ok {
		first, last = start.Format(models.DateLayout), end.Format(models.DateLayout)
	}
	data := templates.NewDashboardData(analytics.Regions(), first, last)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(data).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics),
	}

	srv := server.NewServer(analytics, logger, templateHandlers, server.Options{
		Version: version,
		Metrics: metrics,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger, nil)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"config", cfg,
	)

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	start := time.Now()
	pipeline := ingest.NewPipeline(ingest.Options{
		Product: cfg.Data.Product,
		Workers: cfg.Data.Workers,
	}, logger, metrics)
	dataset, err := pipeline.Build(ctx, ingest.BuildOptions{
		Inputs:   cfg.Data.InputFiles,
		Artifact: cfg.Data.Artifact,
		Rebuild:  cfg.Data.Rebuild,
	})
	if err != nil {
		logger.Error("failed to build sales dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("sales dataset ready", "records", dataset.Len(), "duration", time.Since(start))

	analytics := services.NewAnalytics(dataset, logger, metrics)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger, metrics),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	if err := gracefulServer.Run(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
