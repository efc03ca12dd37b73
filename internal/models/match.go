package models

import (
	"fmt"
	"time"
)

// MatchResult is the full-time result category of a match.
type MatchResult string

const (
	ResultHomeWin MatchResult = "H"
	ResultDraw    MatchResult = "D"
	ResultAwayWin MatchResult = "A"
)

// MatchRecord is one played fixture in the canonical schema. Raw fields are
// immutable after ingestion; everything computed lives in DerivedMatchMetrics.
// Rows are keyed by run and fixture, so repeated runs over the same dataset
// store independent snapshots.
type MatchRecord struct {
	RunID     string    `gorm:"primaryKey" json:"run_id"`
	ID        string    `gorm:"primaryKey" json:"id"`
	Season    string    `gorm:"index;not null" json:"season"`
	MatchDate time.Time `gorm:"index;not null" json:"match_date"`
	Matchweek int       `json:"matchweek,omitempty"`
	HomeTeam  string    `gorm:"index;not null" json:"home_team"`
	AwayTeam  string    `gorm:"index;not null" json:"away_team"`
	HomeGoals int       `gorm:"not null" json:"home_goals"`
	AwayGoals int       `gorm:"not null" json:"away_goals"`

	// Optional auxiliary stats; nil when the source file did not carry them
	HalfTimeHomeGoals *int     `json:"half_time_home_goals,omitempty"`
	HalfTimeAwayGoals *int     `json:"half_time_away_goals,omitempty"`
	HomeShots         *int     `json:"home_shots,omitempty"`
	AwayShots         *int     `json:"away_shots,omitempty"`
	HomeShotsOnTarget *int     `json:"home_shots_on_target,omitempty"`
	AwayShotsOnTarget *int     `json:"away_shots_on_target,omitempty"`
	HomePossession    *float64 `json:"home_possession,omitempty"`
	AwayPossession    *float64 `json:"away_possession,omitempty"`
	HomePressing      *float64 `json:"home_pressing,omitempty"`
	AwayPressing      *float64 `json:"away_pressing,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (MatchRecord) TableName() string {
	return "match_records"
}

// MatchID builds the stable identifier for a fixture. It doubles as the
// deterministic tiebreak when two matches share a date.
func MatchID(date time.Time, homeTeam, awayTeam string) string {
	return fmt.Sprintf("%s:%s:%s", date.Format("2006-01-02"), homeTeam, awayTeam)
}

// DerivedMatchMetrics holds the per-match computed values, keyed by the same
// identity as MatchRecord.
type DerivedMatchMetrics struct {
	RunID      string      `gorm:"primaryKey" json:"run_id"`
	MatchID    string      `gorm:"primaryKey" json:"match_id"`
	TotalGoals int         `gorm:"not null" json:"total_goals"`
	Result     MatchResult `gorm:"not null" json:"result"`
	HomeXG     float64     `json:"home_xg"`
	AwayXG     float64     `json:"away_xg"`

	// Synthetic xG is an approximation, not a shot-model estimate; surfaced
	// so consumers can label it accordingly.
	XGApproximate bool `gorm:"default:true" json:"xg_approximate"`
}

// TableName specifies the table name for GORM
func (DerivedMatchMetrics) TableName() string {
	return "derived_match_metrics"
}
