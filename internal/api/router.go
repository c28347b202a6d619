package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/tushy123/minyan-now/config"
	"github.com/tushy123/minyan-now/internal/mw"
	"github.com/tushy123/minyan-now/internal/presence"
	"github.com/tushy123/minyan-now/internal/reconcile"
	"github.com/tushy123/minyan-now/internal/store"
	"github.com/tushy123/minyan-now/internal/zmanim"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, s store.Store, cacheLayer *reconcile.Reconciler, zman *zmanim.Service, zmanAPI *zmanim.Client, tracker *presence.Tracker) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cacheLayer, zman, zmanAPI, tracker)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	responseCache := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(responseCache, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Discovery. Zmanim responses are cacheable; the ranked list is not,
		// since it reflects live quorum counts and per-user membership.
		api.GET("/minyanim", handler.GetMinyanim)
		api.GET("/zmanim", caching, handler.GetZmanim)

		// Space lifecycle (host-gated in the store layer).
		api.POST("/spaces", handler.PostSpace)
		api.PATCH("/spaces/:space_id", handler.PatchSpace)
		api.POST("/spaces/:space_id/cancel", handler.PostCancelSpace)
		api.DELETE("/spaces/:space_id", handler.DeleteSpace)

		// Membership coordination.
		api.POST("/spaces/:space_id/join", handler.PostJoin)
		api.POST("/spaces/:space_id/leave", handler.PostLeave)
		api.GET("/spaces/:space_id/members", handler.GetMembers)
		api.DELETE("/spaces/:space_id/members/:user_id", handler.DeleteMember)

		// Presence.
		api.GET("/presence/count", handler.GetPresenceCount)
		api.PUT("/presence/heartbeat", handler.PutHeartbeat)
		api.DELETE("/presence", handler.DeletePresence)
	}

	return r
}
