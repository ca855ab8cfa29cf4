package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/trendboard/internal/api/websocket"
	"github.com/fortuna/trendboard/internal/logging"
	"github.com/fortuna/trendboard/internal/metrics"
)

// Server represents the REST API server
type Server struct {
	server *http.Server
	router *mux.Router
}

// NewServer creates a new REST API server. ws and m may be nil.
func NewServer(addr string, handler *Handler, ws *websocket.Server, m *metrics.Metrics, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("rest")

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware)
	if m != nil {
		router.Use(metrics.Middleware(m))
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	// Dashboard
	router.HandleFunc("/", handler.Dashboard).Methods(http.MethodGet)

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/stats.csv", handler.GetStatsCSV).Methods(http.MethodGet)
	api.HandleFunc("/stats", handler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/catalog", handler.GetCatalog).Methods(http.MethodGet)
	api.HandleFunc("/schedule", handler.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/runs", handler.GetRuns).Methods(http.MethodGet)

	if ws != nil {
		ws.RegisterRoutes(router)
	}

	return &Server{
		router: router,
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
