package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/epl-analytics/internal/services"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// AdminHandler exposes pipeline control endpoints.
type AdminHandler struct {
	runner *services.RunnerService
}

func NewAdminHandler(runner *services.RunnerService) *AdminHandler {
	return &AdminHandler{runner: runner}
}

// TriggerRefresh runs the pipeline synchronously over the data directory.
// A refresh already in flight is rejected rather than queued.
func (h *AdminHandler) TriggerRefresh(c *gin.Context) {
	tables, err := h.runner.Refresh()
	if err != nil {
		utils.SendError(c, http.StatusConflict,
			utils.NewAppError("REFRESH_FAILED", "Pipeline refresh failed", err.Error()))
		return
	}

	utils.SendSuccessWithMeta(c, gin.H{
		"run_id":  tables.RunID,
		"matches": len(tables.Matches),
		"notices": tables.Notices,
	}, &utils.Meta{RunID: tables.RunID})
}

// GetStatus reports the runner state for monitoring.
func (h *AdminHandler) GetStatus(c *gin.Context) {
	utils.SendSuccess(c, h.runner.Status())
}
