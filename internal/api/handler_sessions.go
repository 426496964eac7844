package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/parking"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

type entryRequest struct {
	Plate     string `json:"plate" binding:"required"`
	Category  string `json:"category"`
	Color     string `json:"color"`
	OwnerName string `json:"owner_name"`
	AreaID    int64  `json:"area_id" binding:"required"`
}

// Entry handles POST /api/sessions/entry.
func (h *Handler) Entry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "plate and area_id are required")
		return
	}
	session, err := h.engine.OpenSession(c.Request.Context(), parking.EntryRequest{
		Plate:      req.Plate,
		Category:   req.Category,
		Color:      req.Color,
		OwnerName:  req.OwnerName,
		AreaID:     req.AreaID,
		OperatorID: userID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type exitRequest struct {
	SessionID     int64               `json:"session_id"`
	TicketCode    string              `json:"ticket_code"`
	PaymentMethod model.PaymentMethod `json:"payment_method" binding:"required"`
	AmountPaid    *decimal.Decimal    `json:"amount_paid"`
}

// Exit handles POST /api/sessions/exit. The session is named by id or by
// ticket code.
func (h *Handler) Exit(c *gin.Context) {
	var req exitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payment_method is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == 0 {
		if strings.TrimSpace(req.TicketCode) == "" {
			badRequest(c, "session_id or ticket_code is required")
			return
		}
		id, err := h.engine.SessionIDByTicket(c.Request.Context(), req.TicketCode)
		if err != nil {
			respondError(c, err)
			return
		}
		sessionID = id
	}

	receipt, err := h.engine.CloseSession(c.Request.Context(), parking.ExitRequest{
		SessionID:     sessionID,
		PaymentMethod: model.PaymentMethod(strings.ToUpper(string(req.PaymentMethod))),
		Tendered:      req.AmountPaid,
		OperatorID:    userID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// ActiveSessions handles GET /api/sessions/active?id=&ticket=&plate=&area_id=.
func (h *Handler) ActiveSessions(c *gin.Context) {
	id, ok := queryInt64(c, "id")
	if !ok {
		return
	}
	areaID, ok := queryInt64(c, "area_id")
	if !ok {
		return
	}
	sessions, err := h.engine.FindOpenSession(c.Request.Context(), parking.OpenSessionQuery{
		SessionID:  id,
		TicketCode: strings.TrimSpace(c.Query("ticket")),
		Plate:      c.Query("plate"),
		AreaID:     areaID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// ListSessions handles GET /api/sessions?status=&start_date=&end_date=&vehicle_id=.
func (h *Handler) ListSessions(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	vehicleID, ok := queryInt64(c, "vehicle_id")
	if !ok {
		return
	}
	status := model.SessionStatus(strings.ToUpper(c.Query("status")))
	if status != "" && status != model.SessionOpen && status != model.SessionClosed {
		badRequest(c, "status must be OPEN or CLOSED")
		return
	}

	sessions, err := h.store.ListSessions(c.Request.Context(), store.SessionFilter{
		Status:    status,
		VehicleID: vehicleID,
		From:      from,
		To:        to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
