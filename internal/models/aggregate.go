package models

import "time"

// PeriodType distinguishes monthly buckets from whole-season rollups.
type PeriodType string

const (
	PeriodMonth  PeriodType = "month"
	PeriodSeason PeriodType = "season"
)

// TeamPeriodAggregate is one team's rolled-up statistics over a calendar
// period. A team with no matches in a period has no row.
type TeamPeriodAggregate struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RunID        string     `gorm:"index;not null" json:"run_id"`
	Team         string     `gorm:"index;not null" json:"team"`
	Season       string     `gorm:"index;not null" json:"season"`
	Period       string     `gorm:"index;not null" json:"period"` // "2015-08" or the season label
	PeriodType   PeriodType `gorm:"not null" json:"period_type"`
	Played       int        `json:"played"`
	Wins         int        `json:"wins"`
	Draws        int        `json:"draws"`
	Losses       int        `json:"losses"`
	GoalsFor     int        `json:"goals_for"`
	GoalsAgainst int        `json:"goals_against"`
	Points       int        `json:"points"`

	// Running total over chronologically ordered matches up to the end of
	// this period. Non-decreasing across periods for a fixed team.
	CumulativePoints int `json:"cumulative_points"`

	AvgTotalGoals float64   `json:"avg_total_goals"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (TeamPeriodAggregate) TableName() string {
	return "team_period_aggregates"
}

// TableZone marks the qualification band a league position falls in.
type TableZone string

const (
	ZoneChampionsLeague TableZone = "champions_league"
	ZoneEuropaLeague    TableZone = "europa_league"
	ZoneMidTable        TableZone = "mid_table"
	ZoneRelegation      TableZone = "relegation"
)

// LeagueTableRow is one team's standing in a season table, ordered by points
// then goal difference.
type LeagueTableRow struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RunID          string    `gorm:"index;not null" json:"run_id"`
	Season         string    `gorm:"index;not null" json:"season"`
	Position       int       `json:"position"`
	Team           string    `gorm:"index;not null" json:"team"`
	Played         int       `json:"played"`
	Wins           int       `json:"wins"`
	Draws          int       `json:"draws"`
	Losses         int       `json:"losses"`
	GoalsFor       int       `json:"goals_for"`
	GoalsAgainst   int       `json:"goals_against"`
	GoalDifference int       `json:"goal_difference"`
	Points         int       `json:"points"`
	PointsPerGame  float64   `json:"points_per_game"`
	Zone           TableZone `json:"zone"`
}

// TableName specifies the table name for GORM
func (LeagueTableRow) TableName() string {
	return "league_table_rows"
}
