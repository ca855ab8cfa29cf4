package templates

import (
	"github.com/a-h/templ"

	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/stats"
)

// ColumnOption is one stat checkbox.
type ColumnOption struct {
	Name    string
	Checked bool
}

// FilterOption is one "green only" checkbox.
type FilterOption struct {
	Key     string
	Label   string
	Checked bool
}

type DashboardData struct {
	Schedule        *teamrankings.Schedule
	ScheduleWarning string
	Columns         []ColumnOption
	Filters         []FilterOption
	Table           *stats.Display
	Errors          []string
	Loaded          bool
	NoneSelected    bool
	// CSVHref holds the displayed table itself, so the download matches the page.
	CSVHref     templ.SafeURL
	CSVFilename string
}
