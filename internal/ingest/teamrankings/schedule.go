package teamrankings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Schedule is the first table of the season schedule page, kept as text.
type Schedule struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the schedule has no games.
func (s *Schedule) Empty() bool {
	return s == nil || len(s.Rows) == 0
}

// ParseSchedule reads the first table of the schedule page. When the table has
// headers, rows are padded or cut to the header width.
func ParseSchedule(page string) (*Schedule, error) {
	doc, err := htmlquery.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := htmlquery.FindOne(doc, "//table")
	if table == nil {
		return nil, ErrNoScheduleTable
	}

	s := &Schedule{}
	for _, th := range htmlquery.Find(table, ".//th") {
		s.Headers = append(s.Headers, nodeText(th))
	}
	for _, tr := range htmlquery.Find(table, ".//tr[td]") {
		var row []string
		for _, td := range htmlquery.Find(tr, "./td") {
			row = append(row, nodeText(td))
		}
		if n := len(s.Headers); n > 0 {
			for len(row) < n {
				row = append(row, "")
			}
			row = row[:n]
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

// ScheduleMessage renders a schedule failure as a dashboard warning.
func ScheduleMessage(err error) string {
	if errors.Is(err, ErrNoScheduleTable) {
		return "No schedule table found."
	}
	return fmt.Sprintf("Error scraping schedule: %v", err)
}

func nodeText(n *html.Node) string {
	return strings.Join(strings.Fields(htmlquery.InnerText(n)), " ")
}
