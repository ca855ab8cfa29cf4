package stats

import "math"

// StableDelta is the exclusive bound on |Δ%| for a trend to count as stable.
const StableDelta = 10.0

// Applies reports whether the rule can be evaluated against t, i.e. both its
// season and delta columns are displayed.
func (r DeltaRule) Applies(t *Table) bool {
	return t.Columns.Has(r.Base) && t.Columns.Has(DeltaName(r.Base))
}

// Green reports whether row trends stable at a high baseline: season strictly above
// the threshold and |delta| strictly below StableDelta, both present.
func (r DeltaRule) Green(row Row) bool {
	season := row.Get(r.Base)
	delta := row.Get(DeltaName(r.Base))
	if !season.Valid || !delta.Valid {
		return false
	}
	return season.Float > r.Threshold && math.Abs(delta.Float) < StableDelta
}

// Highlights returns the delta columns of row that render green in t. Highlighting and
// FilterGreen share Applies and Green so they cannot disagree.
func Highlights(t *Table, rules []DeltaRule, row Row) map[string]bool {
	out := make(map[string]bool)
	for _, rule := range rules {
		if rule.Applies(t) && rule.Green(row) {
			out[DeltaName(rule.Base)] = true
		}
	}
	return out
}

// FilterGreen keeps only rows that are green for every given rule that applies to t.
// A rule whose columns are not displayed filters nothing.
func FilterGreen(t *Table, rules []DeltaRule) *Table {
	active := make([]DeltaRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Applies(t) {
			active = append(active, rule)
		}
	}
	if len(active) == 0 {
		return t
	}
	return t.Filter(func(row Row) bool {
		for _, rule := range active {
			if !rule.Green(row) {
				return false
			}
		}
		return true
	})
}
