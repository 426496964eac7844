package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadRafly8/parkir-ukk/internal/auth"
	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Login exchanges a username and password for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(c, err)
		return
	}
	if err := auth.Authenticate(user, req.Password); err != nil {
		log.WithField("username", req.Username).Infof("login rejected: %v", err)
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrUserInactive) {
			status = http.StatusForbidden
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	token, expiresAt, err := h.auth.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.AppendActivity(c.Request.Context(), user.ID, "Logged in"); err != nil {
		log.WithField("user_id", user.ID).Errorf("failed to record login: %v", err)
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}
