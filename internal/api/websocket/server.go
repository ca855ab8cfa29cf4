package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fortuna/trendboard/internal/logging"
	"github.com/fortuna/trendboard/internal/metrics"
	"github.com/fortuna/trendboard/internal/stats"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event types sent to progress subscribers.
const (
	EventStat = "stat"
	EventRun  = "run"
)

// ProgressEvent is the JSON message pushed to /ws/progress.
type ProgressEvent struct {
	Type       string `json:"type"`
	Stat       string `json:"stat,omitempty"`
	URL        string `json:"url,omitempty"`
	Teams      int    `json:"teams"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Succeeded  int    `json:"succeeded,omitempty"`
	Failed     int    `json:"failed,omitempty"`
}

// Server streams aggregation progress to browsers.
type Server struct {
	hub     *Hub
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewServer creates a progress server. m may be nil.
func NewServer(logger *logging.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		hub:     NewHub(),
		logger:  logger.Named("ws"),
		metrics: m,
	}
}

// Run drives the hub until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

// RegisterRoutes mounts the websocket endpoints.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws/progress", s.handleProgress)
	r.HandleFunc("/ws/health", s.handleHealth).Methods(http.MethodGet)
}

// ClientCount returns the number of subscribers.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	if !s.hub.join(client) {
		conn.Close()
		return
	}
	if s.metrics != nil {
		s.metrics.IncWSConnections()
	}

	go client.writePump()
	go client.readPump(func() {
		if s.metrics != nil {
			s.metrics.DecWSConnections()
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
	})
}

// ObserveOutcome broadcasts one stat scrape. It has the stats.Observer signature.
func (s *Server) ObserveOutcome(o stats.Outcome) {
	s.send(ProgressEvent{
		Type:       EventStat,
		Stat:       o.Stat,
		URL:        o.URL,
		Teams:      o.Teams,
		DurationMS: o.Duration.Milliseconds(),
		Error:      o.Message,
	})
}

// BroadcastRun announces the end of an aggregation.
func (s *Server) BroadcastRun(res stats.Result) {
	s.send(ProgressEvent{
		Type:       EventRun,
		Teams:      len(res.Table.Rows),
		DurationMS: res.Duration.Milliseconds(),
		Succeeded:  res.Succeeded(),
		Failed:     len(res.Errors),
	})
}

func (s *Server) send(ev ProgressEvent) {
	if s.hub.ClientCount() == 0 {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to marshal progress event", zap.Error(err))
		return
	}
	if !s.hub.Broadcast(data) {
		s.logger.Warn("progress queue full, event dropped", zap.String("type", ev.Type))
	}
}
