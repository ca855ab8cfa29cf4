package stats

import "strconv"

const (
	DefaultBaseURL     = "https://www.teamrankings.com/nfl/stat/"
	DefaultScheduleURL = "https://www.teamrankings.com/nfl/schedules/season/"

	RushingAllowed = "Opponent Rushing Yards per Game"
	PassingAllowed = "Opponent Passing Yards per Game"
)

// Endpoint maps a display stat name to its URL slug under the base URL.
type Endpoint struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// DefaultEndpoints is the stat list in display order.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: RushingAllowed, Slug: "opponent-rushing-yards-per-game"},
		{Name: PassingAllowed, Slug: "opponent-passing-yards-per-game"},
		{Name: "Red Zone Scoring Attempts per Game", Slug: "red-zone-scoring-attempts-per-game"},
		{Name: "Red Zone Scoring %", Slug: "red-zone-scoring-pct"},
		{Name: "Opponent Red Zone Attempts per Game", Slug: "opponent-red-zone-scoring-attempts-per-game"},
		{Name: "Opponent Red Zone Scoring %", Slug: "opponent-red-zone-scoring-pct"},
		{Name: "Time of Possession % (Net of OT)", Slug: "time-of-possession-pct-net-of-ot"},
	}
}

// DefaultDeltaRules are the stats that get a Δ% column and a green threshold.
func DefaultDeltaRules() []DeltaRule {
	return []DeltaRule{
		{Key: "rushing", Base: RushingAllowed, Threshold: 100},
		{Key: "passing", Base: PassingAllowed, Threshold: 200},
	}
}

// DroppedColumns lists the non-data headers of a stat page for the given season.
// TeamRankings shows the running season and the previous one side by side; the
// previous season column is dropped so the running one is picked as the stat.
func DroppedColumns(season int) []string {
	return []string{"Home", "Away", "Rank", strconv.Itoa(season - 1)}
}

// Catalog is the immutable endpoint configuration handed to an Aggregator.
type Catalog struct {
	baseURL     string
	scheduleURL string
	endpoints   []Endpoint
	dropped     []string
	deltas      []DeltaRule
}

// NewCatalog copies its arguments; later changes to the slices do not leak in.
func NewCatalog(baseURL, scheduleURL string, endpoints []Endpoint, dropped []string, deltas []DeltaRule) Catalog {
	return Catalog{
		baseURL:     baseURL,
		scheduleURL: scheduleURL,
		endpoints:   append([]Endpoint(nil), endpoints...),
		dropped:     append([]string(nil), dropped...),
		deltas:      append([]DeltaRule(nil), deltas...),
	}
}

// DefaultCatalog is the TeamRankings catalog for season.
func DefaultCatalog(season int) Catalog {
	return NewCatalog(DefaultBaseURL, DefaultScheduleURL, DefaultEndpoints(), DroppedColumns(season), DefaultDeltaRules())
}

func (c Catalog) BaseURL() string     { return c.baseURL }
func (c Catalog) ScheduleURL() string { return c.scheduleURL }

func (c Catalog) Endpoints() []Endpoint {
	return append([]Endpoint(nil), c.endpoints...)
}

func (c Catalog) Dropped() []string {
	return append([]string(nil), c.dropped...)
}

func (c Catalog) DeltaRules() []DeltaRule {
	return append([]DeltaRule(nil), c.deltas...)
}

// URL resolves an endpoint against the base URL.
func (c Catalog) URL(e Endpoint) string {
	return c.baseURL + e.Slug
}

// Rule looks up a delta rule by key.
func (c Catalog) Rule(key string) (DeltaRule, bool) {
	for _, r := range c.deltas {
		if r.Key == key {
			return r, true
		}
	}
	return DeltaRule{}, false
}
