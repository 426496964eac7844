package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// SearchVehicles handles GET /api/vehicles?plate=&limit=.
func (h *Handler) SearchVehicles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	vehicles, err := h.store.SearchVehicles(c.Request.Context(), c.Query("plate"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

type createVehicleRequest struct {
	Plate     string                `json:"plate" binding:"required"`
	Category  model.VehicleCategory `json:"category" binding:"required"`
	Color     string                `json:"color" binding:"required"`
	OwnerName string                `json:"owner_name" binding:"required"`
	UserID    int64                 `json:"user_id"`
}

// CreateVehicle handles POST /api/vehicles. The vehicle is owned by the
// caller unless user_id names another account.
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "plate, category, color and owner_name are required")
		return
	}
	v := model.Vehicle{
		Plate:     req.Plate,
		Category:  req.Category,
		Color:     req.Color,
		OwnerName: req.OwnerName,
		UserID:    req.UserID,
	}
	if v.UserID == 0 {
		v.UserID = userID(c)
	}
	if err := h.store.CreateVehicle(c.Request.Context(), &v); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Registered vehicle %s", v.Plate)
	c.JSON(http.StatusCreated, v)
}

type updateVehicleRequest struct {
	Plate     *string                `json:"plate"`
	Category  *model.VehicleCategory `json:"category"`
	Color     *string                `json:"color"`
	OwnerName *string                `json:"owner_name"`
}

// UpdateVehicle handles PUT /api/vehicles/:id.
func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	v, err := h.store.UpdateVehicle(c.Request.Context(), id, store.VehicleUpdate{
		Plate:     req.Plate,
		Category:  req.Category,
		Color:     req.Color,
		OwnerName: req.OwnerName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Updated vehicle %s", v.Plate)
	c.JSON(http.StatusOK, v)
}

// DeleteVehicle handles DELETE /api/vehicles/:id.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteVehicle(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Deleted vehicle %d", id)
	c.Status(http.StatusNoContent)
}
