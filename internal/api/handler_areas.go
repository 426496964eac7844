package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// areaResponse adds the derived free slot count to an area.
type areaResponse struct {
	model.Area
	Available int `json:"available"`
}

func newAreaResponse(a model.Area) areaResponse {
	return areaResponse{Area: a, Available: a.Available()}
}

// ListAreas handles GET /api/areas.
func (h *Handler) ListAreas(c *gin.Context) {
	areas, err := h.store.ListAreas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]areaResponse, len(areas))
	for i, a := range areas {
		resp[i] = newAreaResponse(a)
	}
	c.JSON(http.StatusOK, resp)
}

type createAreaRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
}

// CreateArea handles POST /api/areas.
func (h *Handler) CreateArea(c *gin.Context) {
	var req createAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and capacity are required")
		return
	}
	area, err := h.store.CreateArea(c.Request.Context(), req.Name, req.Capacity)
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Created area %s", area.Name)
	c.JSON(http.StatusCreated, newAreaResponse(*area))
}

type updateAreaRequest struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity"`
}

// UpdateArea handles PUT /api/areas/:id.
func (h *Handler) UpdateArea(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	area, err := h.store.UpdateArea(c.Request.Context(), id, store.AreaUpdate{Name: req.Name, Capacity: req.Capacity})
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Updated area %s", area.Name)
	c.JSON(http.StatusOK, newAreaResponse(*area))
}

// DeleteArea handles DELETE /api/areas/:id.
func (h *Handler) DeleteArea(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteArea(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Deleted area %d", id)
	c.Status(http.StatusNoContent)
}
