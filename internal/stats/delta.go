package stats

// DeltaRule names a base stat that gets a Last-3 percent-change column and the
// season baseline above which a stable trend counts as green.
type DeltaRule struct {
	Key       string  `json:"key"`
	Base      string  `json:"base"`
	Threshold float64 `json:"threshold"`
}

// DeltaName is the derived percent-change column for base.
func DeltaName(base string) string {
	return base + " Δ% (Last 3)"
}

// Delta is (last3 - season) / season * 100, missing when either side is missing
// or season is zero.
func Delta(season, last3 Value) Value {
	if !season.Valid || !last3.Valid || season.Float == 0 {
		return Missing
	}
	return Num((last3.Float - season.Float) / season.Float * 100)
}

// AddDeltas appends a delta column for every rule whose season and Last-3 columns
// both exist. The table is modified in place and returned.
func AddDeltas(t *Table, rules []DeltaRule) *Table {
	for _, rule := range rules {
		last3 := Last3Name(rule.Base)
		if !t.Columns.Has(rule.Base) || !t.Columns.Has(last3) {
			continue
		}
		name := DeltaName(rule.Base)
		if !t.Columns.Has(name) {
			t.Columns = append(t.Columns, name)
		}
		for i := range t.Rows {
			r := &t.Rows[i]
			if r.Values == nil {
				r.Values = make(map[string]Value)
			}
			r.Values[name] = Delta(r.Get(rule.Base), r.Get(last3))
		}
	}
	return t
}

// PlaceDeltas moves each rule's delta column to directly follow its Last-3 column.
// Every other column keeps its relative order.
func PlaceDeltas(cols Columns, rules []DeltaRule) Columns {
	out := append(Columns(nil), cols...)
	for _, rule := range rules {
		delta := DeltaName(rule.Base)
		if out.Has(delta) {
			out = out.InsertAfter(delta, Last3Name(rule.Base))
		}
	}
	return out
}
