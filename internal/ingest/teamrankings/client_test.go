package teamrankings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/trendboard/internal/stats"
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/nfl/stat/opponent-rushing-yards-per-game", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-browser/1.0" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(statPage))
	})
	mux.HandleFunc("/nfl/stat/empty", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>maintenance</body></html>"))
	})
	mux.HandleFunc("/nfl/schedules/season/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(schedulePage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testOptions() Options {
	return Options{UserAgent: "test-browser/1.0", Timeout: 5 * time.Second}
}

func TestClientFetchTable(t *testing.T) {
	srv := newSite(t)
	client := NewClient(NewHTTPFetcher(testOptions(), nil))

	raw, err := client.FetchTable(context.Background(), srv.URL+"/nfl/stat/opponent-rushing-yards-per-game")
	require.NoError(t, err)
	assert.Len(t, raw.Rows, 3)
}

func TestClientFetchTableNoTable(t *testing.T) {
	srv := newSite(t)
	client := NewClient(NewHTTPFetcher(testOptions(), nil))

	_, err := client.FetchTable(context.Background(), srv.URL+"/nfl/stat/empty")
	assert.ErrorIs(t, err, stats.ErrNoTableFound)
}

func TestFetchHTTPStatusError(t *testing.T) {
	srv := newSite(t)
	fetcher := NewHTTPFetcher(testOptions(), nil)

	_, err := fetcher.Fetch(context.Background(), srv.URL+"/nfl/stat/unknown")
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, KindHTTPStatus, Kind(err))
	assert.Contains(t, err.Error(), "404")
}

func TestFetchSendsUserAgent(t *testing.T) {
	srv := newSite(t)
	fetcher := NewHTTPFetcher(Options{UserAgent: "curl/8"}, nil)

	_, err := fetcher.Fetch(context.Background(), srv.URL+"/nfl/stat/opponent-rushing-yards-per-game")
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(testOptions(), nil).Fetch(context.Background(), url)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, KindNetwork, Kind(err))
}

func TestFetchHonorsDelay(t *testing.T) {
	srv := newSite(t)
	opts := testOptions()
	opts.Delay = 100 * time.Millisecond
	fetcher := NewHTTPFetcher(opts, nil)
	url := srv.URL + "/nfl/stat/empty"

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := fetcher.Fetch(context.Background(), url)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
}

func TestFetchCanceledContext(t *testing.T) {
	srv := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(testOptions(), nil).Fetch(ctx, srv.URL+"/nfl/stat/empty")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientFetchSchedule(t *testing.T) {
	srv := newSite(t)
	client := NewClient(NewHTTPFetcher(testOptions(), nil))

	s, err := client.FetchSchedule(context.Background(), srv.URL+"/nfl/schedules/season/")
	require.NoError(t, err)
	assert.Len(t, s.Rows, 3)

	_, err = client.FetchSchedule(context.Background(), srv.URL+"/nfl/schedules/missing")
	require.Error(t, err)
	assert.Contains(t, ScheduleMessage(err), "Error scraping schedule:")
}

func TestAggregatorOverHTTP(t *testing.T) {
	srv := newSite(t)
	catalog := stats.NewCatalog(srv.URL+"/nfl/stat/", srv.URL+"/nfl/schedules/season/", []stats.Endpoint{
		{Name: stats.RushingAllowed, Slug: "opponent-rushing-yards-per-game"},
		{Name: stats.PassingAllowed, Slug: "opponent-passing-yards-per-game"},
	}, stats.DroppedColumns(2025), stats.DefaultDeltaRules())

	res := stats.NewAggregator(NewClient(NewHTTPFetcher(testOptions(), nil)), catalog, nil).Run(context.Background())

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Error scraping "+stats.PassingAllowed+": 404")
	assert.Equal(t, []string{"Baltimore", "Denver", "Detroit"}, res.Table.Teams())
	assert.True(t, res.Table.Columns.Has(stats.DeltaName(stats.RushingAllowed)))
}
