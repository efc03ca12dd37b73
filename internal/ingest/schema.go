package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Canonical column names for the normalized match schema.
const (
	ColSeason            = "season"
	ColMatchDate         = "match_date"
	ColMatchweek         = "matchweek"
	ColHomeTeam          = "home_team"
	ColAwayTeam          = "away_team"
	ColHomeGoals         = "home_goals"
	ColAwayGoals         = "away_goals"
	ColHalfTimeHomeGoals = "half_time_home_goals"
	ColHalfTimeAwayGoals = "half_time_away_goals"
	ColHomeShots         = "home_shots"
	ColAwayShots         = "away_shots"
	ColHomeShotsOnTarget = "home_shots_on_target"
	ColAwayShotsOnTarget = "away_shots_on_target"
	ColHomePossession    = "home_possession"
	ColAwayPossession    = "away_possession"
	ColHomePressing      = "home_pressing"
	ColAwayPressing      = "away_pressing"
)

// RequiredColumns must all resolve for ingestion to proceed at all.
var RequiredColumns = []string{ColMatchDate, ColHomeTeam, ColAwayTeam, ColHomeGoals, ColAwayGoals}

// ColumnMapping is the declared, versioned rename table reconciling source
// column spellings to the canonical schema. Lookup is case-insensitive.
type ColumnMapping struct {
	Version string            `json:"version"`
	Columns map[string]string `json:"columns"` // source name -> canonical name
}

// DefaultColumnMapping covers the spellings seen across football-data.co.uk
// exports and the common Kaggle EPL datasets.
func DefaultColumnMapping() *ColumnMapping {
	return &ColumnMapping{
		Version: "1",
		Columns: map[string]string{
			"season":              ColSeason,
			"date":                ColMatchDate,
			"matchdate":           ColMatchDate,
			"match_date":          ColMatchDate,
			"matchweek":           ColMatchweek,
			"round":               ColMatchweek,
			"hometeam":            ColHomeTeam,
			"home_team":           ColHomeTeam,
			"home":                ColHomeTeam,
			"awayteam":            ColAwayTeam,
			"away_team":           ColAwayTeam,
			"away":                ColAwayTeam,
			"fthg":                ColHomeGoals,
			"fulltimehomegoals":   ColHomeGoals,
			"home_goals":          ColHomeGoals,
			"homegoals":           ColHomeGoals,
			"ftag":                ColAwayGoals,
			"fulltimeawaygoals":   ColAwayGoals,
			"away_goals":          ColAwayGoals,
			"awaygoals":           ColAwayGoals,
			"hthg":                ColHalfTimeHomeGoals,
			"halftimehomegoals":   ColHalfTimeHomeGoals,
			"htag":                ColHalfTimeAwayGoals,
			"halftimeawaygoals":   ColHalfTimeAwayGoals,
			"hs":                  ColHomeShots,
			"homeshots":           ColHomeShots,
			"as":                  ColAwayShots,
			"awayshots":           ColAwayShots,
			"hst":                 ColHomeShotsOnTarget,
			"homeshotsontarget":   ColHomeShotsOnTarget,
			"ast":                 ColAwayShotsOnTarget,
			"awayshotsontarget":   ColAwayShotsOnTarget,
			"homepossession":      ColHomePossession,
			"home_possession":     ColHomePossession,
			"awaypossession":      ColAwayPossession,
			"away_possession":     ColAwayPossession,
			"homepressingactions": ColHomePressing,
			"home_pressing":       ColHomePressing,
			"awaypressingactions": ColAwayPressing,
			"away_pressing":       ColAwayPressing,
		},
	}
}

// LoadColumnMapping reads a rename table from a JSON file and merges it over
// the defaults. An empty path returns the defaults unchanged.
func LoadColumnMapping(path string) (*ColumnMapping, error) {
	mapping := DefaultColumnMapping()
	if path == "" {
		return mapping, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column map file: %w", err)
	}

	var custom ColumnMapping
	if err := json.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("failed to parse column map file: %w", err)
	}
	if err := custom.Validate(); err != nil {
		return nil, err
	}

	if custom.Version != "" {
		mapping.Version = custom.Version
	}
	for source, canonical := range custom.Columns {
		mapping.Columns[strings.ToLower(source)] = canonical
	}

	return mapping, nil
}

// Validate rejects mappings that point at unknown canonical columns.
func (m *ColumnMapping) Validate() error {
	known := map[string]bool{
		ColSeason: true, ColMatchDate: true, ColMatchweek: true,
		ColHomeTeam: true, ColAwayTeam: true,
		ColHomeGoals: true, ColAwayGoals: true,
		ColHalfTimeHomeGoals: true, ColHalfTimeAwayGoals: true,
		ColHomeShots: true, ColAwayShots: true,
		ColHomeShotsOnTarget: true, ColAwayShotsOnTarget: true,
		ColHomePossession: true, ColAwayPossession: true,
		ColHomePressing: true, ColAwayPressing: true,
	}
	for source, canonical := range m.Columns {
		if !known[canonical] {
			return fmt.Errorf("column mapping %q -> %q targets unknown canonical column", source, canonical)
		}
	}
	return nil
}

// Resolve maps a source header name to its canonical column, or "" when the
// header is not in the rename table.
func (m *ColumnMapping) Resolve(sourceName string) string {
	return m.Columns[strings.ToLower(strings.TrimSpace(sourceName))]
}
