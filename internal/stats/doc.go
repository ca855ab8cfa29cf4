// Package stats turns scraped TeamRankings stat pages into one team-keyed table.
//
// Each page is normalized to Team, <stat> and optionally <stat> (Last 3). The
// Aggregator outer-joins the pages in catalog order, derives Δ% columns for the
// yards-allowed stats and places each one right after its Last-3 column. The
// same DeltaRule predicate drives both highlighting and the green filters.
package stats
