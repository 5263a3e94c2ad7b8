package api

import (
	"net/http"
	"time"

	"fitjournal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler holds the stats service dependency.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// referenceTime reads the optional currentDate query parameter (RFC 3339),
// defaulting to now. Useful for clients in other time zones and for
// inspecting past periods.
func referenceTime(c *gin.Context) (time.Time, bool) {
	raw := c.Query("currentDate")
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GetWeeklyStats handles GET /stats/weekly.
func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	now, ok := referenceTime(c)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid currentDate: must be RFC 3339")
		return
	}

	stats, err := h.statsService.WeeklyStats(c.Request.Context(), userID, now)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute weekly stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetMonthlyComparison handles GET /stats/monthly.
func (h *StatsHandler) GetMonthlyComparison(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	now, ok := referenceTime(c)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid currentDate: must be RFC 3339")
		return
	}

	comparison, err := h.statsService.MonthlyComparison(c.Request.Context(), userID, now)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute monthly comparison")
		return
	}
	c.JSON(http.StatusOK, comparison)
}
