package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/MuhammadRafly8/parkir-ukk/config"
	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), int(cfg.RateLimitPerSec)+5, cfg.RequestIPHeader)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	authenticated := mw.Authenticate(h.auth)
	admin := mw.RequireRole(model.RoleAdmin)
	staff := mw.RequireRole(model.RoleAdmin, model.RolePetugas)
	reporting := mw.RequireRole(model.RoleOwner, model.RoleAdmin)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", h.Login)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		api.GET("/areas", caching, h.ListAreas)
		api.GET("/tariffs", caching, h.ListTariffs)

		// Successful writes drop the cached public lists.
		secured := api.Group("", authenticated, mw.Invalidate(cacheStore))

		secured.POST("/areas", admin, h.CreateArea)
		secured.PUT("/areas/:id", admin, h.UpdateArea)
		secured.DELETE("/areas/:id", admin, h.DeleteArea)

		secured.GET("/slots", staff, h.ListSlots)
		secured.POST("/slots", admin, h.CreateSlot)
		secured.PATCH("/slots/:id", admin, h.UpdateSlot)
		secured.DELETE("/slots/:id", admin, h.DeleteSlot)

		secured.POST("/tariffs", admin, h.CreateTariff)
		secured.PUT("/tariffs/:id", admin, h.UpdateTariff)
		secured.DELETE("/tariffs/:id", admin, h.DeleteTariff)

		secured.GET("/vehicles", staff, h.SearchVehicles)
		secured.POST("/vehicles", admin, h.CreateVehicle)
		secured.PUT("/vehicles/:id", admin, h.UpdateVehicle)
		secured.DELETE("/vehicles/:id", admin, h.DeleteVehicle)

		users := secured.Group("/users", admin)
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		secured.POST("/sessions/entry", staff, h.Entry)
		secured.POST("/sessions/exit", staff, h.Exit)
		secured.GET("/sessions/active", h.ActiveSessions)
		secured.GET("/sessions", h.ListSessions)

		secured.GET("/alerts", staff, h.ListAlerts)
		secured.POST("/alerts", staff, h.CreateAlert)
		secured.PATCH("/alerts/:id/read", staff, h.MarkAlertRead)

		secured.GET("/logs", admin, h.ListActivity)
		secured.GET("/reports", reporting, h.GetReport)
		secured.GET("/analytics", h.GetAnalytics)

		secured.GET("/subscriptions", staff, h.GetSubscription)
		secured.PUT("/subscriptions", staff, h.PutSubscription)
		secured.DELETE("/subscriptions", staff, h.DeleteSubscription)
	}

	return r
}
