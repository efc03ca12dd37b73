// Package export assembles pipeline results into the flat read-only tables
// the presentation layer consumes. It performs no computation of its own.
package export

import (
	"time"

	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/internal/pipeline"
)

// Tables is the complete dashboard-facing snapshot. Every slice is a copy;
// mutating it does not touch pipeline state.
type Tables struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`

	Matches      []models.MatchRecord           `json:"matches"`
	Derived      []models.DerivedMatchMetrics   `json:"derived"`
	TeamPeriods  []models.TeamPeriodAggregate   `json:"team_periods"`
	Progressions []models.PointsProgressionEntry `json:"progressions"`
	LeagueTables []models.LeagueTableRow        `json:"league_tables"`
	MonthlyGoals []models.MonthlyGoalsTrend     `json:"monthly_goals"`
	Clusters     []models.ClusterAssignment     `json:"clusters"`
	Regressions  []models.RegressionResult      `json:"regressions"`

	Summary pipeline.Summary         `json:"summary"`
	Quality models.DataQualityReport `json:"quality"`
	Notices []string                 `json:"notices,omitempty"`
}

// Build assembles one pipeline result into the export tables.
func Build(result *pipeline.Result) *Tables {
	return &Tables{
		RunID:        result.RunID,
		Source:       result.Source,
		GeneratedAt:  time.Now().UTC(),
		Matches:      cloneMatches(result.Matches),
		Derived:      copySlice(result.Derived),
		TeamPeriods:  copySlice(result.TeamPeriods),
		Progressions: copySlice(result.Progressions),
		LeagueTables: copySlice(result.LeagueTables),
		MonthlyGoals: copySlice(result.MonthlyGoals),
		Clusters:     copySlice(result.Clusters),
		Regressions:  copySlice(result.Regressions),
		Summary:      result.Summary,
		Quality:      result.Quality,
		Notices:      copySlice(result.Notices),
	}
}

func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// cloneMatches copies the match slice including the optional-stat pointer
// fields, so writes through the snapshot never reach pipeline state.
func cloneMatches(src []models.MatchRecord) []models.MatchRecord {
	if src == nil {
		return nil
	}
	dst := make([]models.MatchRecord, len(src))
	for i, m := range src {
		m.HalfTimeHomeGoals = clonePtr(m.HalfTimeHomeGoals)
		m.HalfTimeAwayGoals = clonePtr(m.HalfTimeAwayGoals)
		m.HomeShots = clonePtr(m.HomeShots)
		m.AwayShots = clonePtr(m.AwayShots)
		m.HomeShotsOnTarget = clonePtr(m.HomeShotsOnTarget)
		m.AwayShotsOnTarget = clonePtr(m.AwayShotsOnTarget)
		m.HomePossession = clonePtr(m.HomePossession)
		m.AwayPossession = clonePtr(m.AwayPossession)
		m.HomePressing = clonePtr(m.HomePressing)
		m.AwayPressing = clonePtr(m.AwayPressing)
		dst[i] = m
	}
	return dst
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
