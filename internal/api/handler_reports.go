package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// ListActivity handles GET /api/logs?start_date=&end_date=&user_id=.
func (h *Handler) ListActivity(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	uid, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	logs, err := h.store.ListActivity(c.Request.Context(), store.ActivityFilter{UserID: uid, From: from, To: to})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetReport handles GET /api/reports?start_date=&end_date=.
func (h *Handler) GetReport(c *gin.Context) {
	from, to, ok := reportRange(c, time.Now())
	if !ok {
		return
	}
	report, err := h.store.Report(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetAnalytics handles GET /api/analytics?start_date=&end_date=.
func (h *Handler) GetAnalytics(c *gin.Context) {
	from, to, ok := reportRange(c, time.Now())
	if !ok {
		return
	}
	analytics, err := h.store.Analytics(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
