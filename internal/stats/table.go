package stats

import (
	"encoding/json"
	"sort"
)

// TeamColumn is the canonical key column of every table.
const TeamColumn = "Team"

// Value is a numeric cell that may be missing.
type Value struct {
	Float float64
	Valid bool
}

// Missing is the zero Value.
var Missing = Value{}

// Num wraps a present value.
func Num(f float64) Value {
	return Value{Float: f, Valid: true}
}

// MarshalJSON encodes missing values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// Columns is an ordered list of column names.
type Columns []string

// Index returns the position of name, or -1.
func (c Columns) Index(name string) int {
	for i, col := range c {
		if col == name {
			return i
		}
	}
	return -1
}

// Has reports whether name is present.
func (c Columns) Has(name string) bool {
	return c.Index(name) >= 0
}

// InsertAfter returns a copy with name placed directly after anchor. If name is
// already present it is moved; if anchor is absent the columns are returned unchanged.
func (c Columns) InsertAfter(name, anchor string) Columns {
	if c.Index(anchor) < 0 || name == anchor {
		return append(Columns(nil), c...)
	}
	out := make(Columns, 0, len(c)+1)
	for _, col := range c {
		if col == name {
			continue
		}
		out = append(out, col)
		if col == anchor {
			out = append(out, name)
		}
	}
	return out
}

// Row is one team's values keyed by column name.
type Row struct {
	Team   string
	Values map[string]Value
}

// Get returns the value for column, or Missing.
func (r Row) Get(column string) Value {
	if r.Values == nil {
		return Missing
	}
	return r.Values[column]
}

// Table is a team-keyed table. Columns always starts with TeamColumn when non-empty.
type Table struct {
	Columns Columns
	Rows    []Row
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Teams returns the team keys in row order.
func (t *Table) Teams() []string {
	if t == nil {
		return nil
	}
	teams := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		teams = append(teams, r.Team)
	}
	return teams
}

// StatColumns returns every column except TeamColumn.
func (t *Table) StatColumns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c != TeamColumn {
			out = append(out, c)
		}
	}
	return out
}

// Select keeps TeamColumn plus the wanted columns, in table order.
func (t *Table) Select(wanted []string) *Table {
	keep := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		keep[w] = true
	}
	cols := Columns{TeamColumn}
	for _, c := range t.Columns {
		if c != TeamColumn && keep[c] {
			cols = append(cols, c)
		}
	}

	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		values := make(map[string]Value, len(cols)-1)
		for _, c := range cols[1:] {
			if v, ok := r.Values[c]; ok {
				values[c] = v
			}
		}
		rows = append(rows, Row{Team: r.Team, Values: values})
	}
	return &Table{Columns: cols, Rows: rows}
}

// Filter returns the rows for which keep is true. Rows are shared, not copied.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{Columns: append(Columns(nil), t.Columns...)}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func (t *Table) sortRows() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Team < t.Rows[j].Team
	})
}
