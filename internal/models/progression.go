package models

import "time"

// PointsProgressionEntry is one step in a team's cumulative points
// trajectory, ordered by match date with the match ID as tiebreak.
type PointsProgressionEntry struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	RunID            string    `gorm:"index;not null" json:"run_id"`
	Team             string    `gorm:"index;not null" json:"team"`
	Season           string    `gorm:"index;not null" json:"season"`
	MatchID          string    `gorm:"not null" json:"match_id"`
	MatchDate        time.Time `json:"match_date"`
	MatchIndex       int       `json:"match_index"` // 1-based position in the team's season
	Points           int       `json:"points"`
	CumulativePoints int       `json:"cumulative_points"`
}

// TableName specifies the table name for GORM
func (PointsProgressionEntry) TableName() string {
	return "points_progression_entries"
}

// MonthlyGoalsTrend is the league-wide average total goals per calendar
// month, for the seasonal scoring trend chart.
type MonthlyGoalsTrend struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	RunID         string  `gorm:"index;not null" json:"run_id"`
	Season        string  `gorm:"index;not null" json:"season"`
	Period        string  `gorm:"index;not null" json:"period"` // "2015-08"
	Matches       int     `json:"matches"`
	AvgTotalGoals float64 `json:"avg_total_goals"`
}

// TableName specifies the table name for GORM
func (MonthlyGoalsTrend) TableName() string {
	return "monthly_goals_trends"
}
