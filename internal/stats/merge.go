package stats

// OuterJoin merges two tables on TeamColumn, keeping every team of either side.
// Columns follow left then right order; a column present on both sides keeps the
// left value unless it is missing. Rows come out sorted by team.
func OuterJoin(left, right *Table) *Table {
	out := &Table{Columns: Columns{TeamColumn}}
	for _, src := range []*Table{left, right} {
		for _, c := range src.Columns {
			if !out.Columns.Has(c) {
				out.Columns = append(out.Columns, c)
			}
		}
	}

	index := make(map[string]int)
	for _, src := range []*Table{left, right} {
		for _, r := range src.Rows {
			i, ok := index[r.Team]
			if !ok {
				i = len(out.Rows)
				index[r.Team] = i
				out.Rows = append(out.Rows, Row{Team: r.Team, Values: make(map[string]Value, len(out.Columns)-1)})
			}
			dst := out.Rows[i].Values
			for c, v := range r.Values {
				if cur, ok := dst[c]; ok && cur.Valid {
					continue
				}
				dst[c] = v
			}
		}
	}

	out.sortRows()
	return out
}

// Merge left-folds OuterJoin over tables in order. No tables yields an empty table.
// The result never aliases an input table.
func Merge(tables ...*Table) *Table {
	merged := &Table{}
	for _, t := range tables {
		merged = OuterJoin(merged, t)
	}
	return merged
}
