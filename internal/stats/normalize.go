package stats

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrSchemaMismatch means the team or primary stat column could not be identified.
	ErrSchemaMismatch = errors.New("could not find team or stat column")
	// ErrNoTableFound is returned by a Source when the page has no table.
	ErrNoTableFound = errors.New("no table found")
)

// missingTokens always parse to a missing value, never to zero.
var missingTokens = map[string]bool{
	"—":    true,
	"-":    true,
	"":     true,
	"None": true,
	"nan":  true,
}

// RawTable is the header and body text grid of one fetched page.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ColumnKind tags a raw header.
type ColumnKind int

const (
	Unrecognized ColumnKind = iota
	TeamKind
	StatKind
	Last3Kind
)

func (k ColumnKind) String() string {
	switch k {
	case TeamKind:
		return "team"
	case StatKind:
		return "stat"
	case Last3Kind:
		return "last3"
	default:
		return "unrecognized"
	}
}

// Last3Name is the canonical trailing-window column for stat.
func Last3Name(stat string) string {
	return stat + " (Last 3)"
}

// ParseValue coerces a cell to a number. Thousands separators and percent signs are
// stripped; placeholder tokens and anything unparseable become Missing.
func ParseValue(text string) Value {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)
	if missingTokens[s] {
		return Missing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing
	}
	return Num(f)
}

// Normalizer maps raw stat pages onto the canonical Team / stat / stat (Last 3) schema.
type Normalizer struct {
	dropped map[string]bool
}

// NewNormalizer builds a normalizer that ignores the dropped headers (exact match).
func NewNormalizer(dropped []string) Normalizer {
	d := make(map[string]bool, len(dropped))
	for _, h := range dropped {
		d[h] = true
	}
	return Normalizer{dropped: d}
}

// Classify tags a single header on its own.
func (n Normalizer) Classify(header string) ColumnKind {
	if n.dropped[header] {
		return Unrecognized
	}
	if strings.Contains(strings.ToLower(header), "team") {
		return TeamKind
	}
	return classifyValue(header)
}

// ClassifyHeaders tags a header row. Only the first team-like header is the team
// column; every later one is a Last-3 or stat column like any other header.
func (n Normalizer) ClassifyHeaders(headers []string) []ColumnKind {
	kinds := make([]ColumnKind, len(headers))
	seenTeam := false
	for i, h := range headers {
		k := n.Classify(h)
		if k == TeamKind {
			if seenTeam {
				k = classifyValue(h)
			}
			seenTeam = true
		}
		kinds[i] = k
	}
	return kinds
}

func classifyValue(header string) ColumnKind {
	if strings.Contains(strings.ToLower(header), "last 3") {
		return Last3Kind
	}
	return StatKind
}

type columnPlan struct {
	team, stat, last3 int
}

func (n Normalizer) plan(headers []string) (columnPlan, error) {
	p := columnPlan{team: -1, stat: -1, last3: -1}
	for i, k := range n.ClassifyHeaders(headers) {
		switch k {
		case TeamKind:
			p.team = i
		case Last3Kind:
			if p.last3 < 0 {
				p.last3 = i
			}
		case StatKind:
			if p.stat < 0 {
				p.stat = i
			}
		}
	}
	if p.team < 0 || p.stat < 0 {
		return p, fmt.Errorf("%w (headers %q)", ErrSchemaMismatch, headers)
	}
	return p, nil
}

// Normalize produces a table with Team, stat and optionally Last3Name(stat).
// Rows whose cell count differs from the header count are skipped, as are rows
// without a team name or repeating an earlier team.
func (n Normalizer) Normalize(raw RawTable, stat string) (*Table, error) {
	p, err := n.plan(raw.Headers)
	if err != nil {
		return nil, err
	}

	last3 := Last3Name(stat)
	t := &Table{Columns: Columns{TeamColumn, stat}}
	if p.last3 >= 0 {
		t.Columns = append(t.Columns, last3)
	}

	seen := make(map[string]bool, len(raw.Rows))
	for _, cells := range raw.Rows {
		if len(cells) != len(raw.Headers) {
			continue
		}
		team := strings.TrimSpace(cells[p.team])
		if team == "" || seen[team] {
			continue
		}
		seen[team] = true

		values := map[string]Value{stat: ParseValue(cells[p.stat])}
		if p.last3 >= 0 {
			values[last3] = ParseValue(cells[p.last3])
		}
		t.Rows = append(t.Rows, Row{Team: team, Values: values})
	}
	return t, nil
}
