package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	FullName string     `json:"full_name" binding:"required"`
	Username string     `json:"username" binding:"required"`
	Password string     `json:"password" binding:"required"`
	Role     model.Role `json:"role" binding:"required"`
	Active   *bool      `json:"active"`
}

// CreateUser handles POST /api/users. New accounts are active unless the
// request says otherwise.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "full_name, username, password and role are required")
		return
	}
	u := model.User{
		FullName: req.FullName,
		Username: req.Username,
		Role:     req.Role,
		Active:   req.Active == nil || *req.Active,
	}
	if err := h.store.CreateUser(c.Request.Context(), &u, req.Password); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Created user %s", u.Username)
	c.JSON(http.StatusCreated, u)
}

type updateUserRequest struct {
	FullName *string     `json:"full_name"`
	Username *string     `json:"username"`
	Password *string     `json:"password"`
	Role     *model.Role `json:"role"`
	Active   *bool       `json:"active"`
}

// UpdateUser handles PUT /api/users/:id.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	u, err := h.store.UpdateUser(c.Request.Context(), id, store.UserUpdate{
		FullName: req.FullName,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Updated user %s", u.Username)
	c.JSON(http.StatusOK, u)
}

// DeleteUser handles DELETE /api/users/:id. Callers cannot delete themselves.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if id == userID(c) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "cannot delete your own account"})
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.recordActivity(c, "Deleted user %d", id)
	c.Status(http.StatusNoContent)
}
