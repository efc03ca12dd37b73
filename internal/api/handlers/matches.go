package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/internal/services"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// MatchHandler serves cleaned match records and their derived metrics.
type MatchHandler struct {
	runner *services.RunnerService
}

func NewMatchHandler(runner *services.RunnerService) *MatchHandler {
	return &MatchHandler{runner: runner}
}

// GetMatches returns matches from the latest snapshot, optionally filtered by
// season and team.
func (h *MatchHandler) GetMatches(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	season := c.Query("season")
	team := c.Query("team")

	matches := make([]models.MatchRecord, 0, len(tables.Matches))
	for _, match := range tables.Matches {
		if season != "" && match.Season != season {
			continue
		}
		if team != "" && match.HomeTeam != team && match.AwayTeam != team {
			continue
		}
		matches = append(matches, match)
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			utils.SendValidationError(c, "Invalid limit parameter", limitStr)
			return
		}
		if limit < len(matches) {
			matches = matches[:limit]
		}
	}

	utils.SendSuccessWithMeta(c, matches, &utils.Meta{
		Total: int64(len(matches)),
		RunID: tables.RunID,
	})
}

// GetDerivedMetrics returns per-match computed values for the latest
// snapshot. The xg_approximate flag marks synthetic estimates.
func (h *MatchHandler) GetDerivedMetrics(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	utils.SendSuccessWithMeta(c, tables.Derived, &utils.Meta{
		Total: int64(len(tables.Derived)),
		RunID: tables.RunID,
	})
}
