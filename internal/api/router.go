package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/epl-analytics/internal/api/handlers"
	"github.com/stitts-dev/epl-analytics/internal/services"
	"github.com/stitts-dev/epl-analytics/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, runner *services.RunnerService, cache *services.CacheService, cfg *config.Config) {
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	matchHandler := handlers.NewMatchHandler(runner)
	aggregateHandler := handlers.NewAggregateHandler(runner)
	analyticsHandler := handlers.NewAnalyticsHandler(runner, cache, cacheTTL)
	qualityHandler := handlers.NewQualityHandler(runner)
	adminHandler := handlers.NewAdminHandler(runner)

	// Match data
	group.GET("/matches", matchHandler.GetMatches)
	group.GET("/matches/derived", matchHandler.GetDerivedMetrics)

	// Aggregates and standings
	group.GET("/seasons", aggregateHandler.ListSeasons)
	group.GET("/aggregates", aggregateHandler.GetTeamAggregates)
	group.GET("/table", aggregateHandler.GetLeagueTable)
	group.GET("/progressions/:team", aggregateHandler.GetProgression)
	group.GET("/trends/monthly-goals", aggregateHandler.GetMonthlyGoals)

	// Analytics
	group.GET("/clusters", analyticsHandler.GetClusters)
	group.GET("/regressions", analyticsHandler.GetRegressions)
	group.GET("/predict", analyticsHandler.Predict)

	// Dataset quality and summary
	group.GET("/quality", qualityHandler.GetQualityReport)
	group.GET("/summary", qualityHandler.GetSummary)

	// Pipeline control
	group.POST("/refresh", adminHandler.TriggerRefresh)
	group.GET("/status", adminHandler.GetStatus)
}
