package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gaanavykhari/studio-api/internal/service"
	appErrors "github.com/gaanavykhari/studio-api/pkg/errors"
	"github.com/gaanavykhari/studio-api/pkg/response"
)

// ScheduleHandler exposes the computed schedule views.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// Day godoc
// @Summary Merged schedule for a calendar date
// @Tags Schedule
// @Produce json
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/day [get]
func (h *ScheduleHandler) Day(c *gin.Context) {
	raw := c.Query("date")
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "date must be an ISO date (YYYY-MM-DD)"))
		return
	}
	response.JSON(c, http.StatusOK, h.schedule.DayView(c.Request.Context(), date), nil)
}

// Today godoc
// @Summary Today's live worklist
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/today [get]
func (h *ScheduleHandler) Today(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.schedule.TodayView(c.Request.Context()), nil)
}

// Upcoming godoc
// @Summary Next occurrence per student plus future ad-hoc bookings
// @Tags Schedule
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /schedule/upcoming [get]
func (h *ScheduleHandler) Upcoming(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	response.JSON(c, http.StatusOK, h.schedule.UpcomingView(c.Request.Context(), limit), nil)
}
