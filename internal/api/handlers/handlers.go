package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/epl-analytics/internal/export"
	"github.com/stitts-dev/epl-analytics/internal/services"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// latestTables fetches the current snapshot or writes a 503 when no pipeline
// run has completed yet. Handlers bail out on nil.
func latestTables(c *gin.Context, runner *services.RunnerService) *export.Tables {
	tables := runner.Latest()
	if tables == nil {
		utils.SendError(c, http.StatusServiceUnavailable,
			utils.NewAppError("NO_SNAPSHOT", "No pipeline run has completed yet"))
		return nil
	}
	return tables
}
