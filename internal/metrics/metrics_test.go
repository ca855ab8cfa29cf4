package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/stats"
)

func TestObserveOutcome(t *testing.T) {
	m := New()

	m.ObserveOutcome(stats.Outcome{Stat: "A", Duration: 200 * time.Millisecond})
	m.ObserveOutcome(stats.Outcome{Stat: "B", Err: &teamrankings.HTTPStatusError{StatusCode: 503, Status: "503 Service Unavailable"}})
	m.ObserveOutcome(stats.Outcome{Stat: "B", Err: stats.ErrNoTableFound})

	assert.Equal(t, 2, testutil.CollectAndCount(m.ScrapeErrors), "successful scrapes add no error series")
	assert.Equal(t, 2, testutil.CollectAndCount(m.ScrapeDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapeErrors.WithLabelValues("B", teamrankings.KindHTTPStatus)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapeErrors.WithLabelValues("B", teamrankings.KindNoTable)))
}

func TestRecordRun(t *testing.T) {
	m := New()
	table := &stats.Table{Rows: []stats.Row{{Team: "Bears"}, {Team: "Lions"}}}

	m.RecordRun(stats.Result{Table: table, Outcomes: []stats.Outcome{{Stat: "A"}}})
	m.RecordRun(stats.Result{
		Table:    table,
		Errors:   []string{"x"},
		Outcomes: []stats.Outcome{{Stat: "A"}, {Stat: "B", Err: errors.New("x")}},
	})
	m.RecordRun(stats.Result{
		Table:    &stats.Table{},
		Errors:   []string{"x"},
		Outcomes: []stats.Outcome{{Stat: "A", Err: errors.New("x")}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(RunComplete)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(RunPartial)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(RunFailed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Teams))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := New()
	r := mux.NewRouter()
	r.Use(Middleware(m))
	r.HandleFunc("/api/v1/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/things/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/things/{id}", "418")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "trendboard_http_requests_total")
}
