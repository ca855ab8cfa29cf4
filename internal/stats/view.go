package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ViewOptions is the user's column and filter selection.
type ViewOptions struct {
	// Columns keeps only these stat columns; nil keeps them all.
	Columns []string
	// Green lists delta rule keys whose "green only" filter is on.
	Green []string
}

// Apply selects columns, then applies every enabled green filter.
func Apply(t *Table, rules []DeltaRule, opts ViewOptions) *Table {
	view := t
	if opts.Columns != nil {
		view = t.Select(opts.Columns)
	}

	var active []DeltaRule
	for _, key := range opts.Green {
		for _, rule := range rules {
			if rule.Key == key {
				active = append(active, rule)
			}
		}
	}
	return FilterGreen(view, active)
}

// Cell is one rendered value with its highlight hint.
type Cell struct {
	Column    string `json:"column"`
	Value     Value  `json:"value"`
	Text      string `json:"text"`
	Highlight bool   `json:"highlight,omitempty"`
}

// DisplayRow is one rendered team row.
type DisplayRow struct {
	Team  string `json:"team"`
	Cells []Cell `json:"cells"`
}

// Display is a table ready for rendering.
type Display struct {
	Columns []string     `json:"columns"`
	Rows    []DisplayRow `json:"rows"`
}

// FormatValue renders percentage columns as "12%" and everything else as a whole number.
func FormatValue(column string, v Value) string {
	if !v.Valid {
		return ""
	}
	if strings.Contains(column, "%") {
		return fmt.Sprintf("%.0f%%", v.Float)
	}
	return fmt.Sprintf("%.0f", v.Float)
}

// Render formats every cell of t and marks green delta cells.
func Render(t *Table, rules []DeltaRule) Display {
	d := Display{Columns: append([]string(nil), t.Columns...), Rows: make([]DisplayRow, 0, len(t.Rows))}
	stats := t.StatColumns()
	for _, row := range t.Rows {
		green := Highlights(t, rules, row)
		dr := DisplayRow{Team: row.Team, Cells: make([]Cell, 0, len(stats))}
		for _, col := range stats {
			v := row.Get(col)
			dr.Cells = append(dr.Cells, Cell{
				Column:    col,
				Value:     v,
				Text:      FormatValue(col, v),
				Highlight: green[col],
			})
		}
		d.Rows = append(d.Rows, dr)
	}
	return d
}

// WriteCSV writes t as comma-separated text with a header row. Missing values are
// empty fields; numbers keep full precision.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if len(t.Columns) > 0 {
		if err := cw.Write(t.Columns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	stats := t.StatColumns()
	record := make([]string, 0, len(t.Columns))
	for _, row := range t.Rows {
		record = append(record[:0], row.Team)
		for _, col := range stats {
			v := row.Get(col)
			if v.Valid {
				record = append(record, strconv.FormatFloat(v.Float, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %q: %w", row.Team, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
