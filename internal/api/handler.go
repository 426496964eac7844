package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadRafly8/parkir-ukk/internal/alert"
	"github.com/MuhammadRafly8/parkir-ukk/internal/auth"
	"github.com/MuhammadRafly8/parkir-ukk/internal/mw"
	"github.com/MuhammadRafly8/parkir-ukk/internal/parking"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

// dateLayout is the format of start_date and end_date query parameters.
const dateLayout = "2006-01-02"

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	engine  *parking.Engine
	alerts  *alert.Service
	auth    *auth.Service
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, engine *parking.Engine, alerts *alert.Service, authSvc *auth.Service, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		engine:  engine,
		alerts:  alerts,
		auth:    authSvc,
		webpush: webpushOptions,
	}
}

// errorStatus maps a domain error to its HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, parking.ErrValidation), errors.Is(err, store.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, parking.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, parking.ErrAreaFull),
		errors.Is(err, parking.ErrAlreadyClosed),
		errors.Is(err, parking.ErrAlreadyParked),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, parking.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error. Server-side failures are logged
// and their detail withheld from the client.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Errorf("request failed: %v", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		badRequest(c, fmt.Sprintf("invalid %s", key))
		return 0, false
	}
	return v, true
}

// dateRange parses start_date and end_date (YYYY-MM-DD, UTC). The end date is
// inclusive, so the returned upper bound is the start of the following day.
// Missing bounds are returned as zero times.
func dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			badRequest(c, "invalid start_date, use YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			badRequest(c, "invalid end_date, use YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		to = t.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		badRequest(c, "start_date must not be after end_date")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// reportRange is dateRange with defaults: the last 30 days up to today.
func reportRange(c *gin.Context, now time.Time) (from, to time.Time, ok bool) {
	from, to, ok = dateRange(c)
	if !ok {
		return
	}
	if to.IsZero() {
		to = now.UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return from, to, true
}

// userID returns the id of the authenticated caller.
func userID(c *gin.Context) int64 {
	if claims, ok := mw.Claims(c); ok {
		return claims.UserID
	}
	return 0
}

// recordActivity appends an audit entry for the caller. Failures are logged
// and do not fail the request that already succeeded.
func (h *Handler) recordActivity(c *gin.Context, format string, args ...any) {
	id := userID(c)
	if id == 0 {
		return
	}
	if err := h.store.AppendActivity(c.Request.Context(), id, fmt.Sprintf(format, args...)); err != nil {
		log.WithField("user_id", id).Errorf("failed to record activity: %v", err)
	}
}
