package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// ListSlots handles GET /api/slots?area_id=&status=.
func (h *Handler) ListSlots(c *gin.Context) {
	areaID, ok := queryInt64(c, "area_id")
	if !ok {
		return
	}
	slots, err := h.store.ListSlots(c.Request.Context(), store.SlotFilter{
		AreaID: areaID,
		Status: model.SlotStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

type createSlotRequest struct {
	AreaID int64            `json:"area_id" binding:"required"`
	Number string           `json:"number" binding:"required"`
	Status model.SlotStatus `json:"status"`
}

// CreateSlot handles POST /api/slots. Status defaults to TERSEDIA.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "area_id and number are required")
		return
	}
	slot := model.Slot{AreaID: req.AreaID, Number: req.Number, Status: req.Status}
	if err := h.store.CreateSlot(c.Request.Context(), &slot); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Created slot %s in area %d", slot.Number, slot.AreaID)
	c.JSON(http.StatusCreated, slot)
}

type updateSlotRequest struct {
	Status    *model.SlotStatus `json:"status"`
	Reserved  *bool             `json:"reserved"`
	SessionID *int64            `json:"session_id"`
}

// UpdateSlot handles PATCH /api/slots/:id. A session_id of 0 detaches the
// slot from its session.
func (h *Handler) UpdateSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid slot update")
		return
	}
	slot, err := h.store.UpdateSlot(c.Request.Context(), id, store.SlotUpdate{
		Status:    req.Status,
		Reserved:  req.Reserved,
		SessionID: req.SessionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Updated slot %s: %s", slot.Number, slot.Status)
	c.JSON(http.StatusOK, slot)
}

// DeleteSlot handles DELETE /api/slots/:id.
func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteSlot(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Deleted slot %d", id)
	c.Status(http.StatusNoContent)
}
