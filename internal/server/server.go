package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"morsel-dashboard/internal/handlers"
	"morsel-dashboard/internal/middleware"
	"morsel-dashboard/internal/observability"
	"morsel-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	router      chi.Router
	logger      *slog.Logger
	metrics     *observability.Metrics
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

type Options struct {
	Version string
	Metrics *observability.Metrics
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, opts Options) *Server {
	s := &Server{
		analytics:   analytics,
		router:      chi.NewRouter(),
		logger:      logger,
		metrics:     opts.Metrics,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger, opts.Version),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	s.router.Use(middleware.Metrics(s.metrics))

	// Dashboard routes
	s.router.Get("/", templateHandlers.Dashboard)
	s.router.Get("/health", s.apiHandlers.HandleHealth)
	s.router.Get("/admin/stats", s.apiHandlers.HandleStats)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// REST API endpoints
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/sales", s.apiHandlers.HandleSales)
		r.Get("/regions", s.apiHandlers.HandleRegions)
	})

	// Datastar SSE endpoints
	s.router.Get("/sse/sales", s.sseHandlers.HandleSales)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
