package server

import (
	"log/slog"
	"net/http"

	"github.com/aymerigermain/dashboard-acadi/internal/handlers"
	"github.com/aymerigermain/dashboard-acadi/internal/services"
)

type Server struct {
	stats       *services.Stats
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(stats *services.Stats, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		stats:       stats,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(stats, logger),
		sseHandlers: handlers.NewSSEHandlers(stats, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /api/health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleAdminStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("GET /api/payments", s.apiHandlers.HandlePayments)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/stats", s.sseHandlers.HandleStats)
	s.mux.HandleFunc("GET /sse/weekly", s.sseHandlers.HandleWeekly)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
