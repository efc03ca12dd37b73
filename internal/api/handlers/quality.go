package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/epl-analytics/internal/services"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// QualityHandler serves the data quality report and the dataset summary.
type QualityHandler struct {
	runner *services.RunnerService
}

func NewQualityHandler(runner *services.RunnerService) *QualityHandler {
	return &QualityHandler{runner: runner}
}

// GetQualityReport returns ingestion and cleaning statistics for the latest
// run, including per-reason rejection tallies and any pipeline notices.
func (h *QualityHandler) GetQualityReport(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	utils.SendSuccessWithMeta(c, gin.H{
		"quality": tables.Quality,
		"notices": tables.Notices,
	}, &utils.Meta{RunID: tables.RunID})
}

// GetSummary returns the headline dataset metrics.
func (h *QualityHandler) GetSummary(c *gin.Context) {
	tables := latestTables(c, h.runner)
	if tables == nil {
		return
	}

	utils.SendSuccessWithMeta(c, tables.Summary, &utils.Meta{RunID: tables.RunID})
}
