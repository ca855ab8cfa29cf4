package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/fortuna/trendboard/internal/api/rest/templates"
	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/logging"
	"github.com/fortuna/trendboard/internal/service"
	"github.com/fortuna/trendboard/internal/stats"
	"github.com/fortuna/trendboard/internal/store"
)

// CSVFilename is the download name of the stats export.
const CSVFilename = "nfl_team_stats.csv"

const csvDataPrefix = "data:text/csv;charset=utf-8;base64,"

// Version is reported by the health check.
var Version = "dev"

// StatsService is what the handlers need from the service layer.
type StatsService interface {
	Run(ctx context.Context) stats.Result
	Schedule(ctx context.Context) (*teamrankings.Schedule, string)
	RecentRuns(ctx context.Context, limit int) ([]*store.Run, error)
	Catalog() stats.Catalog
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc    StatsService
	logger *logging.Logger
}

// NewHandler creates a new handler
func NewHandler(svc StatsService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{svc: svc, logger: logger.Named("rest")}
}

// StatsResponse is the JSON body of GET /api/v1/stats.
type StatsResponse struct {
	Columns    []string           `json:"columns"`
	Rows       []stats.DisplayRow `json:"rows"`
	Teams      int                `json:"teams"`
	Errors     []string           `json:"errors"`
	Warning    string             `json:"warning,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
	DurationMS int64              `json:"duration_ms"`
}

// selection is the parsed column and filter choice of a request.
type selection struct {
	opts stats.ViewOptions
	// none is set when the caller explicitly selected no column.
	none bool
}

// parseSelection reads repeated cols values and one boolean flag per delta
// rule key. A cols parameter with only empty values selects nothing.
func parseSelection(q url.Values, rules []stats.DeltaRule) selection {
	var sel selection
	if raw, ok := q["cols"]; ok {
		cols := make([]string, 0, len(raw))
		for _, c := range raw {
			if c = strings.TrimSpace(c); c != "" {
				cols = append(cols, c)
			}
		}
		sel.opts.Columns = cols
		sel.none = len(cols) == 0
	}
	for _, rule := range rules {
		if on, _ := strconv.ParseBool(q.Get(rule.Key)); on {
			sel.opts.Green = append(sel.opts.Green, rule.Key)
		}
	}
	return sel
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "trendboard",
		"version": Version,
	})
}

// GetCatalog lists the configured stats and delta rules.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := h.svc.Catalog()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"base_url":     catalog.BaseURL(),
		"schedule_url": catalog.ScheduleURL(),
		"endpoints":    catalog.Endpoints(),
		"delta_rules":  catalog.DeltaRules(),
	})
}

// GetStats scrapes every stat and returns the selected, filtered view.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	rules := h.svc.Catalog().DeltaRules()
	sel := parseSelection(r.URL.Query(), rules)
	res := h.svc.Run(r.Context())

	resp := StatsResponse{
		Columns:    []string{},
		Rows:       []stats.DisplayRow{},
		Teams:      len(res.Table.Rows),
		Errors:     append([]string{}, res.Errors...),
		StartedAt:  res.StartedAt,
		DurationMS: res.Duration.Milliseconds(),
	}
	switch {
	case res.Table.Empty():
		resp.Warning = "No data was loaded."
	case sel.none:
		resp.Warning = "Please select at least one stat."
	default:
		display := stats.Render(stats.Apply(res.Table, rules, sel.opts), rules)
		resp.Columns = display.Columns
		resp.Rows = display.Rows
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetStatsCSV downloads the selected, filtered view as CSV.
func (h *Handler) GetStatsCSV(w http.ResponseWriter, r *http.Request) {
	rules := h.svc.Catalog().DeltaRules()
	sel := parseSelection(r.URL.Query(), rules)
	if sel.none {
		respondError(w, http.StatusBadRequest, "Please select at least one stat.", nil)
		return
	}

	res := h.svc.Run(r.Context())
	if res.Table.Empty() {
		respondError(w, http.StatusBadGateway, "No data was loaded.", errors.New(strings.Join(res.Errors, "; ")))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+CSVFilename+`"`)
	if err := stats.WriteCSV(w, stats.Apply(res.Table, rules, sel.opts)); err != nil {
		h.logger.Error("failed to write csv", zap.Error(err))
	}
}

// GetSchedule returns the season schedule table.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, warning := h.svc.Schedule(r.Context())
	if warning != "" {
		respondError(w, http.StatusBadGateway, warning, nil)
		return
	}
	if sched == nil {
		sched = &teamrankings.Schedule{}
	}
	respondJSON(w, http.StatusOK, sched)
}

// GetRuns lists recent aggregation runs.
func (h *Handler) GetRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.svc.RecentRuns(r.Context(), limit)
	if errors.Is(err, service.ErrHistoryDisabled) {
		respondError(w, http.StatusServiceUnavailable, "Run history is disabled", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch runs", err)
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	respondJSON(w, http.StatusOK, runs)
}

// Dashboard renders the HTML page. The CSV link embeds the rendered view, so the
// download is the table on screen rather than a fresh scrape.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	catalog := h.svc.Catalog()
	rules := catalog.DeltaRules()
	sel := parseSelection(r.URL.Query(), rules)

	sched, schedWarning := h.svc.Schedule(r.Context())
	res := h.svc.Run(r.Context())

	data := templates.DashboardData{
		Schedule:        sched,
		ScheduleWarning: schedWarning,
		Errors:          res.Errors,
		Loaded:          !res.Table.Empty(),
		NoneSelected:    sel.none,
		CSVFilename:     CSVFilename,
	}

	selected := make(map[string]bool)
	for _, c := range sel.opts.Columns {
		selected[c] = true
	}
	for _, c := range res.Table.StatColumns() {
		data.Columns = append(data.Columns, templates.ColumnOption{Name: c, Checked: sel.opts.Columns == nil || selected[c]})
	}
	green := make(map[string]bool)
	for _, k := range sel.opts.Green {
		green[k] = true
	}
	for _, rule := range rules {
		data.Filters = append(data.Filters, templates.FilterOption{Key: rule.Key, Label: filterLabel(rule.Key), Checked: green[rule.Key]})
	}

	if data.Loaded && !sel.none {
		view := stats.Apply(res.Table, rules, sel.opts)
		display := stats.Render(view, rules)
		data.Table = &display

		href, err := csvDataURL(view)
		if err != nil {
			h.logger.Error("failed to encode csv download", zap.Error(err))
		}
		data.CSVHref = href
	}

	templ.Handler(templates.Dashboard(data)).ServeHTTP(w, r)
}

// csvDataURL encodes t as a base64 text/csv data URL.
func csvDataURL(t *stats.Table) (templ.SafeURL, error) {
	var buf bytes.Buffer
	if err := stats.WriteCSV(&buf, t); err != nil {
		return "", err
	}
	return templ.SafeURL(csvDataPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func filterLabel(key string) string {
	if key == "" {
		return ""
	}
	return "Show only green " + strings.ToUpper(key[:1]) + key[1:] + " Teams"
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
