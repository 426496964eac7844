package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// ListTariffs handles GET /api/tariffs.
func (h *Handler) ListTariffs(c *gin.Context) {
	tariffs, err := h.store.ListTariffs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tariffs)
}

type createTariffRequest struct {
	Category   model.VehicleCategory `json:"category" binding:"required"`
	HourlyRate decimal.Decimal       `json:"hourly_rate"`
}

// CreateTariff handles POST /api/tariffs.
func (h *Handler) CreateTariff(c *gin.Context) {
	var req createTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "category and hourly_rate are required")
		return
	}
	tariff, err := h.store.CreateTariff(c.Request.Context(), req.Category, req.HourlyRate)
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Created tariff %s: %s", tariff.Category, tariff.HourlyRate.StringFixed(2))
	c.JSON(http.StatusCreated, tariff)
}

type updateTariffRequest struct {
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// UpdateTariff handles PUT /api/tariffs/:id. Open sessions keep the rate
// they captured at entry.
func (h *Handler) UpdateTariff(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "hourly_rate is required")
		return
	}
	tariff, err := h.store.UpdateTariff(c.Request.Context(), id, req.HourlyRate)
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Updated tariff %s: %s", tariff.Category, tariff.HourlyRate.StringFixed(2))
	c.JSON(http.StatusOK, tariff)
}

// DeleteTariff handles DELETE /api/tariffs/:id.
func (h *Handler) DeleteTariff(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteTariff(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Deleted tariff %d", id)
	c.Status(http.StatusNoContent)
}
