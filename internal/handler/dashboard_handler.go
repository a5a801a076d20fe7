package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gaanavykhari/studio-api/internal/service"
	"github.com/gaanavykhari/studio-api/pkg/response"
)

// DashboardHandler exposes aggregated studio activity.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Studio activity summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// StudentStats godoc
// @Summary Per-student attendance stats
// @Tags Dashboard
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/students/{id} [get]
func (h *DashboardHandler) StudentStats(c *gin.Context) {
	stats, err := h.dashboard.StudentStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
