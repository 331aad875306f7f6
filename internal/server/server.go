package server

import (
	"log/slog"
	"net/http"

	"sfpurchasing/internal/handlers"
	"sfpurchasing/internal/services"
)

type Server struct {
	loader      *services.Loader
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(loader *services.Loader, pipeline *services.Pipeline, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		loader:      loader,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(loader, pipeline, logger),
		sseHandlers: handlers.NewSSEHandlers(loader, pipeline, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard page. {$} pins the pattern to the root so unknown paths
	// fall through to 404 instead of serving the page.
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/metrics", s.apiHandlers.HandleMetrics)
	s.mux.HandleFunc("GET /api/top-departments", s.apiHandlers.HandleTopDepartments)
	s.mux.HandleFunc("GET /api/top-commodities", s.apiHandlers.HandleTopCommodities)
	s.mux.HandleFunc("GET /api/top-vendors", s.apiHandlers.HandleTopVendors)
	s.mux.HandleFunc("GET /api/weekly-volume", s.apiHandlers.HandleWeeklyVolume)
	s.mux.HandleFunc("GET /api/weekday-volume", s.apiHandlers.HandleWeekdayVolume)

	// Datastar SSE endpoint driving filter interactions
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
