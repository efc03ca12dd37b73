package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/internal/services"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// AggregateHandler serves team rollups, league tables, points progressions,
// and the monthly scoring trend.
type AggregateHandler struct {
	runner *services.RunnerService
}

func NewAggregateHandler(runner *services.RunnerService) *AggregateHandler {
	return &AggregateHandler{runner: runner}
}

// GetTeamAggregates returns per-team period rollups, optionally filtered by
// season, team, and period_type ("month" or "season").
func (h *AggregateHandler) GetTeamAggregates(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	season := c.Query("season")
	team := c.Query("team")
	periodType := c.Query("period_type")
	if periodType != "" && periodType != string(models.PeriodMonth) && periodType != string(models.PeriodSeason) {
		utils.SendValidationError(c, "period_type must be 'month' or 'season'", periodType)
		return
	}

	rows := make([]models.TeamPeriodAggregate, 0, len(tables.TeamPeriods))
	for _, row := range tables.TeamPeriods {
		if season != "" && row.Season != season {
			continue
		}
		if team != "" && row.Team != team {
			continue
		}
		if periodType != "" && string(row.PeriodType) != periodType {
			continue
		}
		rows = append(rows, row)
	}

	utils.SendSuccessWithMeta(c, rows, &utils.Meta{
		Total: int64(len(rows)),
		RunID: tables.RunID,
	})
}

// GetLeagueTable returns the standings for one season, ordered by position.
// Season labels contain a slash, so the season is a query parameter.
func (h *AggregateHandler) GetLeagueTable(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	season := c.Query("season")
	if season == "" {
		utils.SendValidationError(c, "season query parameter is required", "")
		return
	}

	rows := make([]models.LeagueTableRow, 0, 20)
	for _, row := range tables.LeagueTables {
		if row.Season == season {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		utils.SendNotFound(c, "No league table for season "+season)
		return
	}

	utils.SendSuccessWithMeta(c, rows, &utils.Meta{
		Total: int64(len(rows)),
		RunID: tables.RunID,
	})
}

// ListSeasons returns the seasons present in the latest snapshot.
func (h *AggregateHandler) ListSeasons(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	seen := make(map[string]bool)
	seasons := make([]string, 0)
	for _, match := range tables.Matches {
		if !seen[match.Season] {
			seen[match.Season] = true
			seasons = append(seasons, match.Season)
		}
	}

	utils.SendSuccessWithMeta(c, seasons, &utils.Meta{RunID: tables.RunID})
}

// GetProgression returns a team's cumulative points trajectory for a season.
func (h *AggregateHandler) GetProgression(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	team := c.Param("team")
	season := c.Query("season")

	entries := make([]models.PointsProgressionEntry, 0)
	for _, entry := range tables.Progressions {
		if entry.Team != team {
			continue
		}
		if season != "" && entry.Season != season {
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		utils.SendNotFound(c, "No progression data for team "+team)
		return
	}

	utils.SendSuccessWithMeta(c, entries, &utils.Meta{
		Total: int64(len(entries)),
		RunID: tables.RunID,
	})
}

// GetMonthlyGoals returns the league-wide monthly scoring trend.
func (h *AggregateHandler) GetMonthlyGoals(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	season := c.Query("season")

	rows := make([]models.MonthlyGoalsTrend, 0, len(tables.MonthlyGoals))
	for _, row := range tables.MonthlyGoals {
		if season != "" && row.Season != season {
			continue
		}
		rows = append(rows, row)
	}

	utils.SendSuccessWithMeta(c, rows, &utils.Meta{
		Total: int64(len(rows)),
		RunID: tables.RunID,
	})
}
