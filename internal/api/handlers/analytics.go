package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/epl-analytics/internal/analytics"
	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/internal/services"
	"github.com/stitts-dev/epl-analytics/pkg/logger"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// AnalyticsHandler serves clustering, regression, and prediction results.
type AnalyticsHandler struct {
	runner   *services.RunnerService
	cache    *services.CacheService
	cacheTTL time.Duration
}

func NewAnalyticsHandler(runner *services.RunnerService, cache *services.CacheService, cacheTTL time.Duration) *AnalyticsHandler {
	return &AnalyticsHandler{
		runner:   runner,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// GetClusters returns the team style clusters, optionally for one season.
func (h *AnalyticsHandler) GetClusters(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	season := c.Query("season")

	rows := make([]models.ClusterAssignment, 0, len(tables.Clusters))
	for _, row := range tables.Clusters {
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

// GetRegressions returns fitted relationships, optionally filtered by name.
func (h *AnalyticsHandler) GetRegressions(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	name := c.Query("name")

	rows := make([]models.RegressionResult, 0, len(tables.Regressions))
	for _, row := range tables.Regressions {
		if name != "" && row.Name != name {
			continue
		}
		rows = append(rows, row)
	}

	if name != "" && len(rows) == 0 {
		utils.SendNotFound(c, "No regression named "+name)
		return
	}

	utils.SendSuccessWithMeta(c, rows, &utils.Meta{
		Total: int64(len(rows)),
		RunID: tables.RunID,
	})
}

// Predict estimates the outcome of a hypothetical fixture from historical
// home and away form. Requires home and away query parameters.
func (h *AnalyticsHandler) Predict(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	homeTeam := c.Query("home")
	awayTeam := c.Query("away")
	if homeTeam == "" || awayTeam == "" {
		utils.SendValidationError(c, "Both home and away query parameters are required", "")
		return
	}
	if homeTeam == awayTeam {
		utils.SendValidationError(c, "A team cannot play itself", homeTeam)
		return
	}

	cacheKey := services.PredictionCacheKey(tables.RunID, homeTeam, awayTeam)
	var cached analytics.Prediction
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		utils.SendSuccessWithMeta(c, cached, &utils.Meta{RunID: tables.RunID})
		return
	}

	prediction, err := analytics.PredictOutcome(tables.Matches, homeTeam, awayTeam)
	if err != nil {
		if utils.IsInsufficientData(err) {
			utils.SendInsufficientData(c, utils.NewInsufficientDataError(err.Error()))
			return
		}
		utils.SendInternalError(c, "Prediction failed")
		return
	}

	if err := h.cache.Set(c.Request.Context(), cacheKey, prediction, h.cacheTTL); err != nil {
		logger.GetLogger().WithError(err).Warn("Failed to cache prediction")
	}

	utils.SendSuccessWithMeta(c, prediction, &utils.Meta{RunID: tables.RunID})
}
