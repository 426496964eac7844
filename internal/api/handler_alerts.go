package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// ListAlerts handles GET /api/alerts?unread_only=&limit=.
func (h *Handler) ListAlerts(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread_only", "false"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	alerts, err := h.store.ListAlerts(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

type createAlertRequest struct {
	AreaID   int64           `json:"area_id" binding:"required"`
	Type     model.AlertType `json:"type"`
	Severity model.Severity  `json:"severity"`
	Message  string          `json:"message" binding:"required"`
}

// CreateAlert handles POST /api/alerts, an alert raised by staff such as a
// damaged vehicle report.
func (h *Handler) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "area_id and message are required")
		return
	}
	a := model.Alert{
		AreaID:   req.AreaID,
		Type:     model.AlertType(strings.ToUpper(string(req.Type))),
		Severity: model.Severity(strings.ToUpper(string(req.Severity))),
		Message:  req.Message,
	}
	if a.Type == "" {
		a.Type = model.AlertSystemWarning
	}
	if a.Severity == "" {
		a.Severity = model.SeverityWarning
	}
	if err := h.alerts.Raise(c.Request.Context(), &a); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Raised %s alert for area %d", a.Type, a.AreaID)
	c.JSON(http.StatusCreated, a)
}

// MarkAlertRead handles PATCH /api/alerts/:id/read.
func (h *Handler) MarkAlertRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := h.store.MarkAlertRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
