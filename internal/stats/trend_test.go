package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yardsTable(rows map[string][2]float64) *Table {
	t := &Table{Columns: Columns{TeamColumn, RushingAllowed, Last3Name(RushingAllowed), PassingAllowed}}
	for team, v := range rows {
		t.Rows = append(t.Rows, Row{Team: team, Values: map[string]Value{
			RushingAllowed:            Num(v[0]),
			Last3Name(RushingAllowed): Num(v[1]),
			PassingAllowed:            Num(250),
		}})
	}
	t.sortRows()
	return t
}

func TestDeltaFormula(t *testing.T) {
	d := Delta(Num(120), Num(108))
	require.True(t, d.Valid)
	assert.InDelta(t, -10.0, d.Float, 1e-9)

	assert.False(t, Delta(Num(0), Num(5)).Valid, "zero season is undefined")
	assert.False(t, Delta(Missing, Num(5)).Valid)
	assert.False(t, Delta(Num(5), Missing).Valid)
}

func TestAddDeltasAndPlacement(t *testing.T) {
	table := yardsTable(map[string][2]float64{"Bears": {120, 108}})
	rules := DefaultDeltaRules()

	AddDeltas(table, rules)
	assert.True(t, table.Columns.Has(DeltaName(RushingAllowed)))
	assert.False(t, table.Columns.Has(DeltaName(PassingAllowed)), "no Last-3 passing column, no passing delta")

	table.Columns = PlaceDeltas(table.Columns, rules)
	assert.Equal(t, Columns{
		TeamColumn,
		RushingAllowed,
		Last3Name(RushingAllowed),
		DeltaName(RushingAllowed),
		PassingAllowed,
	}, table.Columns)
}

func TestGreenBoundaries(t *testing.T) {
	rushing := DefaultDeltaRules()[0]
	tests := []struct {
		name   string
		season Value
		last3  Value
		want   bool
	}{
		{"delta exactly -10 is not stable", Num(120), Num(108), false},
		{"stable above threshold", Num(120), Num(115), true},
		{"season exactly at threshold", Num(100), Num(101), false},
		{"below threshold", Num(90), Num(90), false},
		{"missing season", Missing, Num(110), false},
		{"missing last3", Num(120), Missing, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{Team: "X", Values: map[string]Value{
				RushingAllowed:            tt.season,
				Last3Name(RushingAllowed): tt.last3,
				DeltaName(RushingAllowed): Delta(tt.season, tt.last3),
			}}
			assert.Equal(t, tt.want, rushing.Green(row))
		})
	}
}

func TestFilterAndHighlightAgree(t *testing.T) {
	table := yardsTable(map[string][2]float64{
		"Bears":   {120, 108},
		"Lions":   {120, 115},
		"Packers": {95, 95},
		"Vikings": {140, 150},
		"Jets":    {101, 100},
	})
	rules := DefaultDeltaRules()
	AddDeltas(table, rules)

	filtered := Apply(table, rules, ViewOptions{Green: []string{"rushing"}})
	kept := make(map[string]bool)
	for _, r := range filtered.Rows {
		kept[r.Team] = true
	}
	assert.Equal(t, map[string]bool{"Lions": true, "Vikings": true, "Jets": true}, kept)

	for _, r := range table.Rows {
		hl := Highlights(table, rules, r)[DeltaName(RushingAllowed)]
		assert.Equal(t, kept[r.Team], hl, "team %s", r.Team)
	}
}

func TestFilterIsNoopWhenColumnsHidden(t *testing.T) {
	table := yardsTable(map[string][2]float64{"Bears": {120, 108}, "Lions": {120, 115}})
	rules := DefaultDeltaRules()
	AddDeltas(table, rules)

	view := Apply(table, rules, ViewOptions{
		Columns: []string{Last3Name(RushingAllowed)},
		Green:   []string{"rushing"},
	})
	assert.Len(t, view.Rows, 2)

	display := Render(view, rules)
	for _, r := range display.Rows {
		for _, c := range r.Cells {
			assert.False(t, c.Highlight)
		}
	}
}
