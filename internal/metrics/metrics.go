package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/stats"
)

// Run results.
const (
	RunComplete = "complete"
	RunPartial  = "partial"
	RunFailed   = "failed"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Scrape metrics
	ScrapeDuration *prometheus.HistogramVec
	ScrapeErrors   *prometheus.CounterVec
	Runs           *prometheus.CounterVec
	Teams          prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"method", "path"},
		),

		ScrapeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendboard_scrape_duration_seconds",
				Help:    "Time to fetch and normalize one stat page",
				Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 30},
			},
			[]string{"stat"},
		),
		ScrapeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendboard_scrape_errors_total",
				Help: "Failed stat scrapes by error kind",
			},
			[]string{"stat", "kind"},
		),
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendboard_runs_total",
				Help: "Aggregation runs by result",
			},
			[]string{"result"},
		),
		Teams: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "trendboard_teams",
				Help: "Teams in the last merged table",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "trendboard_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveOutcome records one stat scrape. It has the stats.Observer signature.
func (m *Metrics) ObserveOutcome(o stats.Outcome) {
	m.ScrapeDuration.WithLabelValues(o.Stat).Observe(o.Duration.Seconds())
	if o.Err != nil {
		m.ScrapeErrors.WithLabelValues(o.Stat, teamrankings.Kind(o.Err)).Inc()
	}
}

// RecordRun records the result of a whole aggregation.
func (m *Metrics) RecordRun(res stats.Result) {
	m.Runs.WithLabelValues(RunResult(res)).Inc()
	m.Teams.Set(float64(len(res.Table.Rows)))
}

// RunResult labels a run by how many endpoints failed.
func RunResult(res stats.Result) string {
	switch {
	case len(res.Errors) == 0:
		return RunComplete
	case res.Succeeded() == 0:
		return RunFailed
	default:
		return RunPartial
	}
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}
